package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
	"github.com/noah-isme/naac-sar-api/internal/models"
	"github.com/noah-isme/naac-sar-api/internal/repository"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/logger"
)

type responseRepository interface {
	Write(ctx context.Context, inserts []repository.ResponseInsert) ([]models.ResponseWrite, error)
	Update(ctx context.Context, code criteria.Code, slNo int64, columns []string, values []interface{}) (models.ResponseRow, error)
	List(ctx context.Context, code criteria.Code, filter models.ResponseFilter) ([]models.ResponseRow, int, error)
}

type criteriaReader interface {
	FindByCode(ctx context.Context, code string) (*models.CriteriaMaster, error)
	FindByCodes(ctx context.Context, codes []string) (map[string]models.CriteriaMaster, error)
}

type submissionWindowResolver interface {
	SubmissionWindow(ctx context.Context) (criteria.Window, error)
}

// ResponseConfig holds the year floor applied to year-like fields.
type ResponseConfig struct {
	MinYear int
}

// ResponseService validates and stores criterion submissions.
type ResponseService struct {
	responses responseRepository
	masters   criteriaReader
	windows   submissionWindowResolver
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ResponseConfig
	now       func() time.Time
}

// NewResponseService constructs the service.
func NewResponseService(responses responseRepository, masters criteriaReader, windows submissionWindowResolver, metrics *MetricsService, logger *zap.Logger, cfg ResponseConfig) *ResponseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinYear <= 0 {
		cfg.MinYear = 1990
	}
	return &ResponseService{
		responses: responses,
		masters:   masters,
		windows:   windows,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithClock overrides the clock used for the current-year bounds.
func (s *ResponseService) WithClock(now func() time.Time) *ResponseService {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *ResponseService) limits() criteria.Limits {
	return criteria.Limits{MinYear: s.cfg.MinYear, Now: s.now()}
}

func (s *ResponseService) form(criterion int, suffix string) (criteria.Form, error) {
	form, ok := criteria.FormFor(criterion, suffix)
	if !ok {
		return criteria.Form{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no form registered for criteria%d/%s", criterion, suffix))
	}
	return form, nil
}

func validationError(err error) error {
	var fieldErr *criteria.FieldError
	if errors.As(err, &fieldErr) {
		return appErrors.Invalid(err, fieldErr.Error()).WithField(fieldErr.Field)
	}
	return appErrors.Invalid(err, "invalid submission")
}

// validate coerces the body and enforces the submission window.
func (s *ResponseService) validate(ctx context.Context, form criteria.Form, body map[string]interface{}) (criteria.Record, error) {
	record, err := form.Validate(body, s.limits())
	if err != nil {
		s.metrics.RecordSubmission(form.Primary().String(), OutcomeInvalid)
		return nil, validationError(err)
	}
	window, err := s.windows.SubmissionWindow(ctx)
	if err != nil {
		return nil, err
	}
	session := int(record.Int(criteria.SessionField))
	if !window.Contains(session) {
		s.metrics.RecordSubmission(form.Primary().String(), OutcomeInvalid)
		return nil, appErrors.Clone(appErrors.ErrOutOfWindow, fmt.Sprintf("Session must be between %d and %d", window.Start, window.End))
	}
	return record, nil
}

func values(record criteria.Record, columns []string) []interface{} {
	out := make([]interface{}, len(columns))
	for i, c := range columns {
		out[i] = record[c]
	}
	return out
}

// Submit validates a payload for the form at criteria<criterion>/createResponse<suffix> and writes every target.
func (s *ResponseService) Submit(ctx context.Context, criterion int, suffix string, body map[string]interface{}) ([]models.ResponseWrite, error) {
	form, err := s.form(criterion, suffix)
	if err != nil {
		return nil, err
	}
	record, err := s.validate(ctx, form, body)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(form.Targets))
	for _, c := range form.Codes() {
		codes = append(codes, c.String())
	}
	masters, err := s.masters.FindByCodes(ctx, codes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load criteria")
	}

	inserts := make([]repository.ResponseInsert, 0, len(form.Targets))
	for _, t := range form.Targets {
		master, ok := masters[t.Code.String()]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Criteria not found")
		}
		columns := form.Columns(t)
		inserts = append(inserts, repository.ResponseInsert{
			Code:             t.Code,
			CriteriaMasterID: master.ID,
			Columns:          columns,
			Values:           values(record, columns),
			Key:              t.Key,
			Policy:           t.Policy,
		})
	}

	start := time.Now()
	writes, err := s.responses.Write(ctx, inserts)
	s.metrics.ObserveDBQuery("response_write", time.Since(start))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateResponse) {
			s.metrics.RecordSubmission(form.Primary().String(), OutcomeDuplicate)
			return nil, appErrors.Wrap(err, appErrors.ErrDuplicateEntry.Code, appErrors.ErrDuplicateEntry.Status, "Entry already exists for this key")
		}
		s.metrics.RecordSubmission(form.Primary().String(), OutcomeError)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store response")
	}

	for _, w := range writes {
		outcome := OutcomeUpdated
		if w.Created {
			outcome = OutcomeCreated
		}
		s.metrics.RecordSubmission(w.CriteriaCode, outcome)
	}
	logger.WithContext(ctx, s.logger).Info("response stored",
		zap.String("form", fmt.Sprintf("criteria%d/%s", criterion, suffix)),
		zap.Int("session", int(record.Int(criteria.SessionField))),
		zap.Int("targets", len(writes)),
	)
	return writes, nil
}

// Update re-validates a payload and rewrites the row slNo of a single-target form.
func (s *ResponseService) Update(ctx context.Context, criterion int, suffix string, slNo int64, body map[string]interface{}) (models.ResponseRow, error) {
	form, err := s.form(criterion, suffix)
	if err != nil {
		return nil, err
	}
	if len(form.Targets) != 1 {
		return nil, appErrors.Validationf("criteria%d/%s writes %d tables and cannot be updated by serial number", criterion, suffix, len(form.Targets))
	}
	if slNo <= 0 {
		return nil, appErrors.Validationf("slNo must be a positive integer")
	}
	record, err := s.validate(ctx, form, body)
	if err != nil {
		return nil, err
	}
	target := form.Targets[0]
	columns := form.Columns(target)
	row, err := s.responses.Update(ctx, target.Code, slNo, columns, values(record, columns))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Response %d not found", slNo))
		case errors.Is(err, repository.ErrDuplicateResponse):
			return nil, appErrors.Wrap(err, appErrors.ErrDuplicateEntry.Code, appErrors.ErrDuplicateEntry.Status, "Entry already exists for this key")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update response")
	}
	s.metrics.RecordSubmission(target.Code.String(), OutcomeUpdated)
	return row, nil
}

// List returns stored rows of a criteria code under criterion.
func (s *ResponseService) List(ctx context.Context, criterion int, raw string, filter models.ResponseFilter) ([]models.ResponseRow, *models.Pagination, error) {
	code, err := criteria.ParseCode(raw)
	if err != nil {
		return nil, nil, appErrors.Invalid(err, "invalid criteria code")
	}
	if code.Criterion() != criterion {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("criteria code %s does not belong to criterion %d", code, criterion))
	}
	if _, err := s.masters.FindByCode(ctx, code.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "Criteria not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load criteria")
	}
	if _, _, ok := criteria.FormByCode(code); !ok {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no responses are collected for %s", code))
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	rows, total, err := s.responses.List(ctx, code, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list responses")
	}
	return rows, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}
