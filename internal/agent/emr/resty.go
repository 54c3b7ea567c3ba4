package emr

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/careview/vitalsync/internal/agent/models"
	"github.com/go-resty/resty/v2"
)

const (
	syncVitalsPath = "/vitals_sync.php"
	sendCodePath   = "/send_code.php"
	verifyCodePath = "/verify_code.php"
	pingPath       = "/ping.php"

	apiKeyHeader = "X-API-Key"
)

// RESTClient implements Client over the EMR's HTTP/JSON endpoints.
type RESTClient struct {
	c *resty.Client
}

// NewRESTClient builds a client for the given base URL. The static API key is
// attached to every request as the X-API-Key header.
func NewRESTClient(baseURL string, apiKey string, timeout time.Duration) *RESTClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader(apiKeyHeader, apiKey)
	return &RESTClient{c: c}
}

// apiError is the error envelope the EMR returns on non-success statuses and
// on auth failures.
type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *RESTClient) Ping(ctx context.Context) error {
	resp, err := s.c.R().SetContext(ctx).Get(pingPath)
	if err != nil {
		return ErrUnavailable
	}
	if !resp.IsSuccess() {
		return ErrUnavailable
	}
	return nil
}

func (s *RESTClient) SyncVitals(ctx context.Context, patientID int, vitals []VitalPayload) (*SyncResponse, error) {
	var out SyncResponse
	var apiErr apiError

	resp, err := s.c.R().
		SetContext(ctx).
		SetBody(SyncRequest{PatientId: patientID, Vitals: vitals}).
		SetResult(&out).
		SetError(&apiErr).
		Post(syncVitalsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// 207 Multi-Status is in the 2xx class, so partial success lands here
	// too and is handed back with its per-item results intact.
	if resp.IsSuccess() {
		return &out, nil
	}

	return nil, s.mapStatus(resp.StatusCode(), apiErr.Error)
}

func (s *RESTClient) SendCode(ctx context.Context, phone string) error {
	var out apiError
	var apiErr apiError

	resp, err := s.c.R().
		SetContext(ctx).
		SetBody(map[string]string{"phone": phone}).
		SetResult(&out).
		SetError(&apiErr).
		Post(sendCodePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		return s.mapStatus(resp.StatusCode(), apiErr.Error)
	}
	if out.Success {
		return nil
	}
	if out.Error == "not_found" {
		return ErrPhoneNotRegistered
	}
	return fmt.Errorf("send code failed: %s", out.Error)
}

// verifyCodeResponse mirrors the verify_code endpoint's JSON.
type verifyCodeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Token   string `json:"token"`
	Patient struct {
		PatientId any    `json:"patientId"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	} `json:"patient"`
	Provider struct {
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		PracticeName string `json:"practiceName"`
	} `json:"provider"`
}

func (s *RESTClient) VerifyCode(ctx context.Context, phone string, code string) (*VerifyResult, error) {
	var out verifyCodeResponse
	var apiErr apiError

	resp, err := s.c.R().
		SetContext(ctx).
		SetBody(map[string]string{"phone": phone, "code": code}).
		SetResult(&out).
		SetError(&apiErr).
		Post(verifyCodePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !resp.IsSuccess() {
		return nil, s.mapStatus(resp.StatusCode(), apiErr.Error)
	}
	if !out.Success {
		switch out.Error {
		case "invalid_or_expired_code":
			return nil, ErrInvalidCode
		case "patient_not_found":
			return nil, ErrPhoneNotRegistered
		default:
			return nil, fmt.Errorf("verification failed: %s", out.Error)
		}
	}

	result := &VerifyResult{
		Token: out.Token,
		Profile: models.Profile{
			// The server reports patientId as either a string or a number.
			PatientId:            fmt.Sprintf("%v", out.Patient.PatientId),
			FirstName:            out.Patient.FirstName,
			LastName:             out.Patient.LastName,
			Phone:                out.Patient.Phone,
			ProviderFirstName:    out.Provider.FirstName,
			ProviderLastName:     out.Provider.LastName,
			ProviderPracticeName: out.Provider.PracticeName,
		},
	}
	if result.Profile.Phone == "" {
		result.Profile.Phone = phone
	}
	return result, nil
}

func (s *RESTClient) mapStatus(status int, serverError string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	if serverError != "" {
		return fmt.Errorf("HTTP %d: %s", status, serverError)
	}
	return fmt.Errorf("HTTP %d", status)
}
