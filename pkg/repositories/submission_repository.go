package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carbonfield/emissions-engine/pkg/database"
	"github.com/carbonfield/emissions-engine/pkg/models"
)

// SubmissionRepository reads the append-only submission archive. Writes
// happen only through EntryRepository.ArchiveAndClear.
type SubmissionRepository interface {
	List(ctx context.Context) ([]*models.Submission, error)
}

// submissionRepository implements SubmissionRepository using PostgreSQL.
type submissionRepository struct {
	db *database.DB
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *database.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

var _ SubmissionRepository = (*submissionRepository)(nil)

func (r *submissionRepository) List(ctx context.Context) ([]*models.Submission, error) {
	query := `
		SELECT id, submitted_at, identification, entries, total_emissions, entry_count
		FROM engine_submissions
		ORDER BY submitted_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		var (
			sub     models.Submission
			ident   []byte
			entries []byte
		)
		if err := rows.Scan(&sub.ID, &sub.Timestamp, &ident, &entries, &sub.TotalEmissions, &sub.EntryCount); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		if ident != nil {
			if err := json.Unmarshal(ident, &sub.Identification); err != nil {
				return nil, fmt.Errorf("failed to unmarshal submission identification: %w", err)
			}
		}
		if err := json.Unmarshal(entries, &sub.Entries); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submission entries: %w", err)
		}
		submissions = append(submissions, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return submissions, nil
}
