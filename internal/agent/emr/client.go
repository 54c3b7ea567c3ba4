package emr

import (
	"context"

	"github.com/careview/vitalsync/internal/agent/models"
)

// Client is the transport-agnostic contract for talking to the EMR backend.
type Client interface {
	// Ping probes the backend; a nil error means the service is reachable.
	Ping(ctx context.Context) error

	// SyncVitals submits a batch of readings for the given patient and
	// returns the per-item outcome. Both full (2xx) and partial (207)
	// success responses are returned as a SyncResponse; only transport
	// failures and non-success statuses produce an error.
	SyncVitals(ctx context.Context, patientID int, vitals []VitalPayload) (*SyncResponse, error)

	// SendCode asks the backend to text a verification code to phone.
	SendCode(ctx context.Context, phone string) error

	// VerifyCode exchanges the texted code for the patient profile and a
	// session token.
	VerifyCode(ctx context.Context, phone string, code string) (*VerifyResult, error)
}

// VerifyResult is the outcome of a successful code verification.
type VerifyResult struct {
	Profile models.Profile
	Token   string
}
