package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/carbonfield/emissions-engine/pkg/dynamicform"
	"github.com/carbonfield/emissions-engine/pkg/models"
	"github.com/carbonfield/emissions-engine/pkg/repositories"
	"github.com/carbonfield/emissions-engine/pkg/schema"
)

// IdentificationService owns the active session-identification record and its
// autocomplete history.
type IdentificationService interface {
	// Save validates and persists the identification as current, then
	// upserts it into the history (deduped by company+project+reporter,
	// most recently used first, capped). Returns a *ValidationError when a
	// required field is missing.
	Save(ctx context.Context, data models.Identification) error

	// Current returns the last-saved identification, or nil if none.
	Current(ctx context.Context) (models.Identification, error)

	// History returns past identifications, most recently used first.
	History(ctx context.Context) ([]*models.IdentificationRecord, error)

	// UniqueValues returns the sorted, de-duplicated, non-empty historical
	// values of one identification field, for input suggestions.
	UniqueValues(ctx context.Context, fieldName string) ([]string, error)
}

type identificationService struct {
	repo    repositories.IdentificationRepository
	schemas *schema.Store
	logger  *zap.Logger
}

// NewIdentificationService creates a new IdentificationService.
func NewIdentificationService(
	repo repositories.IdentificationRepository,
	schemas *schema.Store,
	logger *zap.Logger,
) IdentificationService {
	return &identificationService{
		repo:    repo,
		schemas: schemas,
		logger:  logger.Named("identification-service"),
	}
}

var _ IdentificationService = (*identificationService)(nil)

func (s *identificationService) Save(ctx context.Context, data models.Identification) error {
	identSchema := s.schemas.IdentificationSchema()
	if errs := dynamicform.ValidateIdentification(identSchema, data); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	if err := s.repo.SaveCurrent(ctx, data); err != nil {
		return err
	}

	record := &models.IdentificationRecord{
		Data:     data.Clone(),
		LastUsed: time.Now(),
	}
	if err := s.repo.UpsertHistory(ctx, record); err != nil {
		return err
	}

	key := data.Key()
	s.logger.Info("Identification saved",
		zap.String("company", key.Company),
		zap.String("project", key.Project),
		zap.String("reporter", key.Reporter))
	return nil
}

func (s *identificationService) Current(ctx context.Context) (models.Identification, error) {
	return s.repo.Current(ctx)
}

func (s *identificationService) History(ctx context.Context) ([]*models.IdentificationRecord, error) {
	return s.repo.History(ctx)
}

func (s *identificationService) UniqueValues(ctx context.Context, fieldName string) ([]string, error) {
	records, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var values []string
	for _, record := range records {
		value := record.Data[fieldName]
		if strings.TrimSpace(value) == "" || seen[value] {
			continue
		}
		seen[value] = true
		values = append(values, value)
	}
	sort.Strings(values)
	return values, nil
}
