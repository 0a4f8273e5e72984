package services

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carbonfield/emissions-engine/pkg/apperrors"
	"github.com/carbonfield/emissions-engine/pkg/dynamicform"
	"github.com/carbonfield/emissions-engine/pkg/emissions"
	"github.com/carbonfield/emissions-engine/pkg/models"
	"github.com/carbonfield/emissions-engine/pkg/repositories"
	"github.com/carbonfield/emissions-engine/pkg/schema"
)

// ValidationError carries the field -> message map of a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "form validation failed"
}

// SubmitConfig controls the simulated remote submission.
type SubmitConfig struct {
	// Delay is the simulated network latency.
	Delay time.Duration
	// SuccessRate is the probability a submission succeeds (0..1).
	SuccessRate float64
}

// EntryService owns the current entry batch and the at-most-one editing
// session. All mutations validate through the form schema, compute the
// persisted footprint at commit time, and write to storage as the last step.
type EntryService interface {
	// List returns the current batch in insertion order.
	List(ctx context.Context) ([]*models.Entry, error)

	// Add validates data, computes its footprint, and appends a new entry
	// with a fresh id and the current identification snapshot. Returns a
	// *ValidationError when the form is invalid.
	Add(ctx context.Context, data models.FormValues) (*models.Entry, error)

	// Update replaces data and footprint on the entry with the given id,
	// refreshes its timestamp, and clears the editing session. The entry's
	// identification snapshot is preserved.
	Update(ctx context.Context, id int64, data models.FormValues) (*models.Entry, error)

	// Delete removes the entry. Deleting the entry under edit also clears
	// the editing session.
	Delete(ctx context.Context, id int64) error

	// StartEditing loads the entry into the editing session.
	StartEditing(ctx context.Context, id int64) (*models.EditingSession, error)

	// Duplicate loads a copy of the entry (id 0) into the editing session;
	// the source entry is untouched. Committing the copy via Add creates a
	// new entry.
	Duplicate(ctx context.Context, id int64) (*models.EditingSession, error)

	// Editing returns the active editing session, or nil.
	Editing() *models.EditingSession

	// CancelEditing clears the editing session without touching the batch.
	CancelEditing()

	// ClearAll empties the batch and clears the editing session.
	ClearAll(ctx context.Context) error

	// SubmitAll submits the whole batch. At most one submission may be in
	// flight (apperrors.ErrSubmissionInFlight otherwise). An empty batch
	// returns apperrors.ErrNothingToSubmit. On success the batch is archived
	// and cleared atomically; on simulated failure the batch is untouched
	// and apperrors.ErrSubmissionFailed is returned.
	SubmitAll(ctx context.Context) (*models.Submission, error)

	// Submitting reports whether a submission is in flight.
	Submitting() bool
}

type entryService struct {
	entryRepo repositories.EntryRepository
	identRepo repositories.IdentificationRepository
	schemas   *schema.Store
	logger    *zap.Logger

	submitCfg  SubmitConfig
	submitting atomic.Bool
	rng        func() float64

	mu      sync.Mutex
	editing *models.EditingSession
	lastID  int64
}

// NewEntryService creates a new EntryService.
func NewEntryService(
	entryRepo repositories.EntryRepository,
	identRepo repositories.IdentificationRepository,
	schemas *schema.Store,
	submitCfg SubmitConfig,
	logger *zap.Logger,
) EntryService {
	if submitCfg.SuccessRate == 0 {
		submitCfg.SuccessRate = 0.9
	}
	return &entryService{
		entryRepo: entryRepo,
		identRepo: identRepo,
		schemas:   schemas,
		submitCfg: submitCfg,
		rng:       rand.Float64,
		logger:    logger.Named("entry-service"),
	}
}

var _ EntryService = (*entryService)(nil)

func (s *entryService) List(ctx context.Context) ([]*models.Entry, error) {
	return s.entryRepo.List(ctx)
}

func (s *entryService) Add(ctx context.Context, data models.FormValues) (*models.Entry, error) {
	formSchema := s.schemas.FormSchema()
	if errs := dynamicform.Validate(formSchema, data); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	footprint := emissions.Calculate(&formSchema.Calculations, data)

	ident, err := s.identRepo.Current(ctx)
	if err != nil {
		return nil, err
	}

	entry := &models.Entry{
		ID:              s.nextID(),
		Timestamp:       time.Now(),
		Data:            data.Clone(),
		CarbonFootprint: &footprint,
		Identification:  ident,
	}

	if err := s.entryRepo.Insert(ctx, entry); err != nil {
		return nil, err
	}

	// Committing a duplicate ends its editing session.
	s.mu.Lock()
	if s.editing != nil && s.editing.IsDuplicate {
		s.editing = nil
	}
	s.mu.Unlock()

	s.logger.Info("Entry added",
		zap.Int64("entry_id", entry.ID),
		zap.Float64("total_emissions", footprint.TotalEmissions))
	return entry, nil
}

func (s *entryService) Update(ctx context.Context, id int64, data models.FormValues) (*models.Entry, error) {
	formSchema := s.schemas.FormSchema()
	if errs := dynamicform.Validate(formSchema, data); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	footprint := emissions.Calculate(&formSchema.Calculations, data)

	entry, err := s.entryRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Data = data.Clone()
	entry.CarbonFootprint = &footprint
	entry.Timestamp = time.Now()

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.editing = nil
	s.mu.Unlock()

	s.logger.Info("Entry updated", zap.Int64("entry_id", entry.ID))
	return entry, nil
}

func (s *entryService) Delete(ctx context.Context, id int64) error {
	if err := s.entryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	if s.editing != nil && !s.editing.IsDuplicate && s.editing.Entry.ID == id {
		s.editing = nil
	}
	s.mu.Unlock()

	s.logger.Info("Entry deleted", zap.Int64("entry_id", id))
	return nil
}

func (s *entryService) StartEditing(ctx context.Context, id int64) (*models.EditingSession, error) {
	entry, err := s.entryRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session := &models.EditingSession{Entry: entry}
	s.mu.Lock()
	s.editing = session
	s.mu.Unlock()
	return session, nil
}

func (s *entryService) Duplicate(ctx context.Context, id int64) (*models.EditingSession, error) {
	entry, err := s.entryRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	copy := entry.Clone()
	copy.ID = 0 // no identity until the copy is committed
	session := &models.EditingSession{Entry: copy, IsDuplicate: true}

	s.mu.Lock()
	s.editing = session
	s.mu.Unlock()
	return session, nil
}

func (s *entryService) Editing() *models.EditingSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

func (s *entryService) CancelEditing() {
	s.mu.Lock()
	s.editing = nil
	s.mu.Unlock()
}

func (s *entryService) ClearAll(ctx context.Context) error {
	if err := s.entryRepo.DeleteAll(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.editing = nil
	s.mu.Unlock()

	s.logger.Info("All entries cleared")
	return nil
}

func (s *entryService) SubmitAll(ctx context.Context) (*models.Submission, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, apperrors.ErrSubmissionInFlight
	}
	defer s.submitting.Store(false)

	entries, err := s.entryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperrors.ErrNothingToSubmit
	}

	if s.submitCfg.Delay > 0 {
		select {
		case <-time.After(s.submitCfg.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if s.rng() >= s.submitCfg.SuccessRate {
		s.logger.Warn("Submission failed, entries preserved for retry",
			zap.Int("entry_count", len(entries)))
		return nil, apperrors.ErrSubmissionFailed
	}

	ident, err := s.identRepo.Current(ctx)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, entry := range entries {
		if entry.CarbonFootprint != nil {
			total += entry.CarbonFootprint.TotalEmissions
		}
	}

	submission := &models.Submission{
		ID:             uuid.New(),
		Timestamp:      time.Now(),
		Identification: ident,
		Entries:        entries,
		TotalEmissions: total,
		EntryCount:     len(entries),
	}

	if err := s.entryRepo.ArchiveAndClear(ctx, submission); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.editing = nil
	s.mu.Unlock()

	s.logger.Info("Submitted entries",
		zap.Int("entry_count", submission.EntryCount),
		zap.Float64("total_emissions", submission.TotalEmissions))
	return submission, nil
}

func (s *entryService) Submitting() bool {
	return s.submitting.Load()
}

// nextID derives a fresh entry id from the millisecond clock, bumping past
// the previous id when two entries land in the same millisecond.
func (s *entryService) nextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
