package devices

import (
	"context"

	"github.com/careview/vitalsync/internal/agent/models"
)

// Repository stores the registry of paired devices.
type Repository interface {
	Save(ctx context.Context, d *models.Device) error
	GetAll(ctx context.Context) ([]*models.Device, error)
	GetByID(ctx context.Context, id string) (*models.Device, error)
	UpdateBottleCode(ctx context.Context, id string, bottleCode string) error
	Delete(ctx context.Context, id string) error
}
