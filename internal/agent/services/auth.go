package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/careview/vitalsync/internal/agent/emr"
	"github.com/careview/vitalsync/internal/agent/models"
	"github.com/careview/vitalsync/internal/agent/repositories/profile"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService drives the SMS-code login flow and owns the local identity.
type AuthService interface {
	// SendCode asks the backend to text a verification code to phone.
	SendCode(ctx context.Context, phone string) error

	// VerifyCode exchanges the texted code for the patient profile, persists
	// it, and retains the session token.
	VerifyCode(ctx context.Context, phone string, code string) (*models.Profile, error)

	// Profile returns the stored identity, or nil when not logged in.
	Profile(ctx context.Context) (*models.Profile, error)

	// SessionValid reports whether the retained session token exists and has
	// not expired.
	SessionValid() bool

	// Logout clears the stored identity and forgets the session token.
	Logout(ctx context.Context) error
}

type authService struct {
	client emr.Client
	repo   profile.Repository

	mu    sync.Mutex
	token string
}

func NewAuthService(client emr.Client, repo profile.Repository) AuthService {
	return &authService{client: client, repo: repo}
}

func (s *authService) SendCode(ctx context.Context, phone string) error {
	return s.client.SendCode(ctx, phone)
}

func (s *authService) VerifyCode(ctx context.Context, phone string, code string) (*models.Profile, error) {
	res, err := s.client.VerifyCode(ctx, phone, code)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, &res.Profile); err != nil {
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}

	s.mu.Lock()
	s.token = res.Token
	s.mu.Unlock()

	return &res.Profile, nil
}

func (s *authService) Profile(ctx context.Context) (*models.Profile, error) {
	return s.repo.Get(ctx)
}

// SessionValid inspects the token's exp claim without verifying the
// signature; only the server can verify it, the agent just avoids using a
// token it already knows is stale.
func (s *authService) SessionValid() bool {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		return false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.After(time.Now())
}

func (s *authService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	return nil
}
