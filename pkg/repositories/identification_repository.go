package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carbonfield/emissions-engine/pkg/database"
	"github.com/carbonfield/emissions-engine/pkg/models"
)

// IdentificationRepository provides data access for the current
// identification record and the bounded autocomplete history.
type IdentificationRepository interface {
	// SaveCurrent replaces the single current identification record.
	SaveCurrent(ctx context.Context, ident models.Identification) error
	// Current returns the last-saved identification, or nil if none exists.
	Current(ctx context.Context) (models.Identification, error)
	// UpsertHistory inserts or refreshes the history record for the
	// identification's (company, project, reporter) key and trims the history
	// to the most recently used IdentificationHistoryLimit records.
	UpsertHistory(ctx context.Context, record *models.IdentificationRecord) error
	// History returns history records, most recently used first.
	History(ctx context.Context) ([]*models.IdentificationRecord, error)
}

// identificationRepository implements IdentificationRepository using PostgreSQL.
type identificationRepository struct {
	db *database.DB
}

// NewIdentificationRepository creates a new identification repository.
func NewIdentificationRepository(db *database.DB) IdentificationRepository {
	return &identificationRepository{db: db}
}

var _ IdentificationRepository = (*identificationRepository)(nil)

func (r *identificationRepository) SaveCurrent(ctx context.Context, ident models.Identification) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return fmt.Errorf("failed to marshal identification: %w", err)
	}

	// Single-row table: singleton_key is always TRUE.
	query := `
		INSERT INTO engine_identification (singleton_key, data, saved_at)
		VALUES (TRUE, $1, $2)
		ON CONFLICT (singleton_key) DO UPDATE
		SET data = EXCLUDED.data, saved_at = EXCLUDED.saved_at`

	if _, err := r.db.Exec(ctx, query, data, time.Now()); err != nil {
		return fmt.Errorf("failed to save identification: %w", err)
	}
	return nil
}

func (r *identificationRepository) Current(ctx context.Context) (models.Identification, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM engine_identification WHERE singleton_key`).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no identification saved yet
		}
		return nil, fmt.Errorf("failed to query identification: %w", err)
	}

	var ident models.Identification
	if err := json.Unmarshal(data, &ident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal identification: %w", err)
	}
	return ident, nil
}

func (r *identificationRepository) UpsertHistory(ctx context.Context, record *models.IdentificationRecord) error {
	data, err := json.Marshal(record.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal identification: %w", err)
	}
	key := record.Data.Key()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	upsert := `
		INSERT INTO engine_identification_history (company, project, reporter, data, last_used)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company, project, reporter) DO UPDATE
		SET data = EXCLUDED.data, last_used = EXCLUDED.last_used`

	if _, err := tx.Exec(ctx, upsert, key.Company, key.Project, key.Reporter, data, record.LastUsed); err != nil {
		return fmt.Errorf("failed to upsert identification history: %w", err)
	}

	trim := `
		DELETE FROM engine_identification_history
		WHERE (company, project, reporter) NOT IN (
			SELECT company, project, reporter
			FROM engine_identification_history
			ORDER BY last_used DESC
			LIMIT $1
		)`

	if _, err := tx.Exec(ctx, trim, models.IdentificationHistoryLimit); err != nil {
		return fmt.Errorf("failed to trim identification history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit identification history: %w", err)
	}
	return nil
}

func (r *identificationRepository) History(ctx context.Context) ([]*models.IdentificationRecord, error) {
	query := `
		SELECT data, last_used
		FROM engine_identification_history
		ORDER BY last_used DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query identification history: %w", err)
	}
	defer rows.Close()

	var records []*models.IdentificationRecord
	for rows.Next() {
		var (
			record models.IdentificationRecord
			data   []byte
		)
		if err := rows.Scan(&data, &record.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		if err := json.Unmarshal(data, &record.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating identification history: %w", err)
	}

	return records, nil
}
