package storage

import (
	"context"
	"testing"

	"github.com/careview/vitalsync/internal/agent/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesAndWires(t *testing.T) {
	ctx := context.Background()

	db, repos, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// every repository must be usable right after Open
	require.NoError(t, repos.Readings.Save(ctx, &models.Reading{
		Id:   "r1",
		Type: models.ReadingTypeBP,
		Unit: "mmHg",
		TS:   1000,
	}))
	count, err := repos.Readings.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repos.Devices.Save(ctx, &models.Device{Id: "d1", Name: "BP Cuff", Type: "BP"}))
	devs, err := repos.Devices.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, devs, 1)

	require.NoError(t, repos.Profile.Save(ctx, &models.Profile{PatientId: "42"}))
	p, err := repos.Profile.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "42", p.PatientId)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()

	db, _, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.NoError(t, RunMigrations(ctx, db))
}
