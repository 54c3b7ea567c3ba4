package profile

import (
	"context"

	"github.com/careview/vitalsync/internal/agent/models"
)

// Repository stores the single local patient profile.
//
// Get returns (nil, nil) when no profile is stored — an absent identity is a
// normal state (not logged in yet), not an error.
type Repository interface {
	Save(ctx context.Context, p *models.Profile) error
	Get(ctx context.Context) (*models.Profile, error)
	Clear(ctx context.Context) error
}
