package readings

import (
	"context"

	"github.com/careview/vitalsync/internal/agent/models"
)

// Repository is the persistent reading store consumed by the sync engine.
//
// Save is an explicit upsert keyed by the reading's client-generated id, so a
// duplicate submission of the same capture is harmless. The synced flag is
// mutated only through MarkSynced/MarkSyncedBatch.
type Repository interface {
	Save(ctx context.Context, r *models.Reading) error
	MarkSynced(ctx context.Context, id string) error
	MarkSyncedBatch(ctx context.Context, ids []string) error
	GetUnsynced(ctx context.Context) ([]*models.Reading, error)
	CountUnsynced(ctx context.Context) (int, error)
	GetAll(ctx context.Context) ([]*models.Reading, error)
}
