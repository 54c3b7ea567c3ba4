package readings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/careview/vitalsync/internal/agent/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE readings (
  id TEXT PRIMARY KEY,
  device_id TEXT NOT NULL DEFAULT '',
  device_name TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL,
  value REAL,
  value2 REAL,
  heart_rate REAL,
  unit TEXT NOT NULL DEFAULT '',
  ts INTEGER NOT NULL,
  synced INTEGER NOT NULL DEFAULT 0,
  measurement_condition TEXT
);
`)
	require.NoError(t, err)

	return db
}

func ptr(v float64) *float64 { return &v }

func seedReading(t *testing.T, db *sql.DB, id string, ts int64, synced int) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO readings(id, type, unit, ts, synced) VALUES (?, 'BP', 'mmHg', ?, ?)`, id, ts, synced)
	require.NoError(t, err)
}

func TestSave_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	r1 := &models.Reading{
		Id:         "id1",
		DeviceId:   "dev1",
		DeviceName: "BP3L",
		Type:       models.ReadingTypeBP,
		Value:      ptr(120),
		Value2:     ptr(80),
		HeartRate:  ptr(72),
		Unit:       "mmHg",
		TS:         1000,
	}
	require.NoError(t, r.Save(ctx, r1))

	var value, value2 float64
	var synced int
	err := db.QueryRow(`SELECT value, value2, synced FROM readings WHERE id=?`, "id1").
		Scan(&value, &value2, &synced)
	require.NoError(t, err)
	assert.Equal(t, 120.0, value)
	assert.Equal(t, 80.0, value2)
	assert.Equal(t, 0, synced)

	// same id: measurement columns update
	r1b := &models.Reading{Id: "id1", Type: models.ReadingTypeBP, Value: ptr(118), Value2: ptr(78), Unit: "mmHg", TS: 1000}
	require.NoError(t, r.Save(ctx, r1b))

	err = db.QueryRow(`SELECT value, value2 FROM readings WHERE id=?`, "id1").Scan(&value, &value2)
	require.NoError(t, err)
	assert.Equal(t, 118.0, value)
	assert.Equal(t, 78.0, value2)
}

func TestSave_UpsertKeepsSyncedFlag(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	seedReading(t, db, "x", 1000, 1)

	// re-saving the same capture must not un-sync a delivered reading
	require.NoError(t, r.Save(ctx, &models.Reading{Id: "x", Type: models.ReadingTypeBP, Unit: "mmHg", TS: 1000}))

	var synced int
	require.NoError(t, db.QueryRow(`SELECT synced FROM readings WHERE id='x'`).Scan(&synced))
	assert.Equal(t, 1, synced)
}

func TestMarkSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	seedReading(t, db, "a", 1, 0)

	require.NoError(t, r.MarkSynced(ctx, "a"))

	var synced int
	require.NoError(t, db.QueryRow(`SELECT synced FROM readings WHERE id='a'`).Scan(&synced))
	assert.Equal(t, 1, synced)

	// already synced and absent ids are both no-ops
	require.NoError(t, r.MarkSynced(ctx, "a"))
	require.NoError(t, r.MarkSynced(ctx, "nope"))
}

func TestMarkSyncedBatch(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	seedReading(t, db, "a", 1, 0)
	seedReading(t, db, "b", 2, 0)
	seedReading(t, db, "c", 3, 0)

	require.NoError(t, r.MarkSyncedBatch(ctx, []string{"a", "c"}))

	count, err := r.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var synced int
	require.NoError(t, db.QueryRow(`SELECT synced FROM readings WHERE id='b'`).Scan(&synced))
	assert.Equal(t, 0, synced)

	// empty batch is a no-op
	require.NoError(t, r.MarkSyncedBatch(ctx, nil))
}

func TestGetUnsynced_ChronologicalOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	seedReading(t, db, "r100", 100, 0)
	seedReading(t, db, "r50", 50, 0)
	seedReading(t, db, "r200", 200, 0)
	seedReading(t, db, "done", 10, 1)

	got, err := r.GetUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	ids := []string{got[0].Id, got[1].Id, got[2].Id}
	assert.Equal(t, []string{"r50", "r100", "r200"}, ids)
}

func TestCountUnsynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	count, err := r.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	seedReading(t, db, "a", 1, 0)
	seedReading(t, db, "b", 2, 1)

	count, err = r.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetAll_NewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	seedReading(t, db, "old", 100, 1)
	seedReading(t, db, "new", 300, 0)
	seedReading(t, db, "mid", 200, 0)

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0].Id)
	assert.Equal(t, "mid", got[1].Id)
	assert.Equal(t, "old", got[2].Id)
}
