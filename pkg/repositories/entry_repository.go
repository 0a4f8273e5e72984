package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/carbonfield/emissions-engine/pkg/apperrors"
	"github.com/carbonfield/emissions-engine/pkg/database"
	"github.com/carbonfield/emissions-engine/pkg/models"
)

// EntryRepository provides data access for the current entry batch.
type EntryRepository interface {
	List(ctx context.Context) ([]*models.Entry, error)
	Get(ctx context.Context, id int64) (*models.Entry, error)
	Insert(ctx context.Context, entry *models.Entry) error
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	// ArchiveAndClear writes the submission record and clears the entry batch
	// in one transaction, so a reader never observes the archive without the
	// clear or vice versa.
	ArchiveAndClear(ctx context.Context, submission *models.Submission) error
}

// entryRepository implements EntryRepository using PostgreSQL.
type entryRepository struct {
	db *database.DB
}

// NewEntryRepository creates a new entry repository.
func NewEntryRepository(db *database.DB) EntryRepository {
	return &entryRepository{db: db}
}

var _ EntryRepository = (*entryRepository)(nil)

func (r *entryRepository) List(ctx context.Context) ([]*models.Entry, error) {
	query := `
		SELECT id, recorded_at, data, carbon_footprint, identification
		FROM engine_entries
		ORDER BY position`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

func (r *entryRepository) Get(ctx context.Context, id int64) (*models.Entry, error) {
	query := `
		SELECT id, recorded_at, data, carbon_footprint, identification
		FROM engine_entries
		WHERE id = $1`

	entry, err := scanEntry(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (r *entryRepository) Insert(ctx context.Context, entry *models.Entry) error {
	data, footprint, ident, err := marshalEntry(entry)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO engine_entries (id, recorded_at, data, carbon_footprint, identification)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.Exec(ctx, query, entry.ID, entry.Timestamp, data, footprint, ident); err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *entryRepository) Update(ctx context.Context, entry *models.Entry) error {
	data, footprint, ident, err := marshalEntry(entry)
	if err != nil {
		return err
	}

	query := `
		UPDATE engine_entries
		SET recorded_at = $2, data = $3, carbon_footprint = $4, identification = $5
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, entry.ID, entry.Timestamp, data, footprint, ident)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *entryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM engine_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *entryRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM engine_entries`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}

func (r *entryRepository) ArchiveAndClear(ctx context.Context, submission *models.Submission) error {
	entries, err := json.Marshal(submission.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal submission entries: %w", err)
	}
	ident, err := marshalIdentification(submission.Identification)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	insert := `
		INSERT INTO engine_submissions (id, submitted_at, identification, entries, total_emissions, entry_count)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := tx.Exec(ctx, insert,
		submission.ID,
		submission.Timestamp,
		ident,
		entries,
		submission.TotalEmissions,
		submission.EntryCount,
	); err != nil {
		return fmt.Errorf("failed to archive submission: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM engine_entries`); err != nil {
		return fmt.Errorf("failed to clear submitted entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit submission: %w", err)
	}
	return nil
}

func marshalEntry(entry *models.Entry) (data, footprint, ident []byte, err error) {
	data, err = json.Marshal(entry.Data)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal entry data: %w", err)
	}
	if entry.CarbonFootprint != nil {
		footprint, err = json.Marshal(entry.CarbonFootprint)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal carbon footprint: %w", err)
		}
	}
	ident, err = marshalIdentification(entry.Identification)
	if err != nil {
		return nil, nil, nil, err
	}
	return data, footprint, ident, nil
}

func marshalIdentification(ident models.Identification) ([]byte, error) {
	if ident == nil {
		return nil, nil
	}
	raw, err := json.Marshal(ident)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal identification: %w", err)
	}
	return raw, nil
}

func scanEntry(row pgx.Row) (*models.Entry, error) {
	var (
		entry     models.Entry
		data      []byte
		footprint []byte
		ident     []byte
	)
	if err := row.Scan(&entry.ID, &entry.Timestamp, &data, &footprint, &ident); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &entry.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry data: %w", err)
	}
	if footprint != nil {
		entry.CarbonFootprint = &models.EmissionsResult{}
		if err := json.Unmarshal(footprint, entry.CarbonFootprint); err != nil {
			return nil, fmt.Errorf("failed to unmarshal carbon footprint: %w", err)
		}
	}
	if ident != nil {
		if err := json.Unmarshal(ident, &entry.Identification); err != nil {
			return nil, fmt.Errorf("failed to unmarshal identification: %w", err)
		}
	}
	return &entry, nil
}
