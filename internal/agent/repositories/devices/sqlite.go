package devices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/careview/vitalsync/internal/agent/models"
	"github.com/careview/vitalsync/internal/dbx"
)

var ErrNotFound = errors.New("device not found")

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save upserts a device by id. Re-pairing the same device overwrites its record.
func (r *SQLiteRepository) Save(ctx context.Context, d *models.Device) error {
	query := `INSERT INTO devices (id, name, type, mac, model, bottle_code)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				type = excluded.type,
				mac = excluded.mac,
				model = excluded.model,
				bottle_code = excluded.bottle_code
	`
	_, err := r.db.ExecContext(ctx, query, d.Id, d.Name, string(d.Type), d.MAC, d.Model, d.BottleCode)
	if err != nil {
		return fmt.Errorf("failed to upsert device: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Device, error) {
	query := `SELECT id, name, type, mac, model, bottle_code FROM devices ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select devices: %w", err)
	}
	defer rows.Close()

	var result []*models.Device
	for rows.Next() {
		item := &models.Device{}
		var typ string
		if err := rows.Scan(&item.Id, &item.Name, &typ, &item.MAC, &item.Model, &item.BottleCode); err != nil {
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

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Device, error) {
	query := `SELECT id, name, type, mac, model, bottle_code FROM devices WHERE id=?`
	row := r.db.QueryRowContext(ctx, query, id)

	d := &models.Device{}
	var typ string
	if err := row.Scan(&d.Id, &d.Name, &typ, &d.MAC, &d.Model, &d.BottleCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	d.Type = models.ReadingType(typ)
	return d, nil
}

// UpdateBottleCode stores the scanned test-strip bottle code for a glucose meter.
func (r *SQLiteRepository) UpdateBottleCode(ctx context.Context, id string, bottleCode string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE devices SET bottle_code=? WHERE id=?`, bottleCode, id)
	if err != nil {
		return fmt.Errorf("failed to update bottle code: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	return nil
}
