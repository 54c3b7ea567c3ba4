package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/careview/vitalsync/internal/agent/models"
	"github.com/careview/vitalsync/internal/dbx"
)

// SQLiteRepository implements Repository over *sql.DB. Unlike the other
// repositories it needs the full handle because Save replaces the single
// profile row inside a transaction.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save replaces whatever profile is stored with p. Delete-then-insert runs in
// one transaction so a crash cannot leave the agent without an identity row
// mid-switch.
func (r *SQLiteRepository) Save(ctx context.Context, p *models.Profile) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM profile`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO profile
			(patient_id, first_name, last_name, phone, provider_first_name, provider_last_name, provider_practice_name)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.PatientId, p.FirstName, p.LastName, p.Phone,
			p.ProviderFirstName, p.ProviderLastName, p.ProviderPracticeName)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context) (*models.Profile, error) {
	query := `SELECT patient_id, first_name, last_name, phone,
			provider_first_name, provider_last_name, provider_practice_name
			FROM profile LIMIT 1`
	row := r.db.QueryRowContext(ctx, query)

	p := &models.Profile{}
	err := row.Scan(&p.PatientId, &p.FirstName, &p.LastName, &p.Phone,
		&p.ProviderFirstName, &p.ProviderLastName, &p.ProviderPracticeName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profile`); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	return nil
}
