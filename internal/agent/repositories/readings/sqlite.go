package readings

import (
	"context"
	"fmt"
	"strings"

	"github.com/careview/vitalsync/internal/agent/models"
	"github.com/careview/vitalsync/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const readingColumns = `id, device_id, device_name, type, value, value2, heart_rate, unit, ts, synced, measurement_condition`

// Save upserts a reading by id. On conflict the measurement columns are
// updated but the synced flag is left alone, so re-saving a capture can never
// un-sync a delivered reading.
func (r *SQLiteRepository) Save(ctx context.Context, reading *models.Reading) error {
	query := `INSERT INTO readings (` + readingColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET device_id = excluded.device_id,
				device_name = excluded.device_name,
				type = excluded.type,
				value = excluded.value,
				value2 = excluded.value2,
				heart_rate = excluded.heart_rate,
				unit = excluded.unit,
				ts = excluded.ts,
				measurement_condition = excluded.measurement_condition
	`
	_, err := r.db.ExecContext(ctx, query,
		reading.Id, reading.DeviceId, reading.DeviceName, string(reading.Type),
		reading.Value, reading.Value2, reading.HeartRate, reading.Unit,
		reading.TS, reading.Synced, reading.MeasurementCondition)
	if err != nil {
		return fmt.Errorf("failed to upsert reading: %w", err)
	}
	return nil
}

// MarkSynced sets synced=1 for the given id. No-op if the id is absent or
// the reading is already synced.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE readings SET synced=1 WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark reading synced: %w", err)
	}
	return nil
}

// MarkSyncedBatch sets synced=1 for all given ids in a single statement, so
// the mark is all-or-nothing from the caller's perspective.
func (r *SQLiteRepository) MarkSyncedBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`UPDATE readings SET synced=1 WHERE id IN (%s)`, placeholders)
	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark readings synced: %w", err)
	}
	return nil
}

// GetUnsynced lists all readings with synced=0, oldest first. The EMR wants
// readings in chronological order, so the ts ordering matters.
func (r *SQLiteRepository) GetUnsynced(ctx context.Context) ([]*models.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE synced=0 ORDER BY ts ASC`
	return r.query(ctx, query)
}

// CountUnsynced returns the number of unsynced readings without
// materializing the rows.
func (r *SQLiteRepository) CountUnsynced(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM readings WHERE synced=0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unsynced readings: %w", err)
	}
	return count, nil
}

// GetAll lists every reading, newest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings ORDER BY ts DESC`
	return r.query(ctx, query)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*models.Reading, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select readings: %w", err)
	}
	defer rows.Close()

	var result []*models.Reading
	for rows.Next() {
		item := &models.Reading{}
		var typ string
		if err := rows.Scan(&item.Id, &item.DeviceId, &item.DeviceName, &typ,
			&item.Value, &item.Value2, &item.HeartRate, &item.Unit,
			&item.TS, &item.Synced, &item.MeasurementCondition); err != nil {
			return nil, err
		}
		item.Type = models.ReadingType(typ)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
