package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
	"github.com/noah-isme/naac-sar-api/internal/dto"
	"github.com/noah-isme/naac-sar-api/internal/models"
	"github.com/noah-isme/naac-sar-api/pkg/database"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/logger"
)

type criteriaMasterRepository interface {
	List(ctx context.Context, filter models.CriteriaMasterFilter) ([]models.CriteriaMaster, error)
	FindByCode(ctx context.Context, code string) (*models.CriteriaMaster, error)
	FindByID(ctx context.Context, id int64) (*models.CriteriaMaster, error)
	Create(ctx context.Context, item *models.CriteriaMaster) error
	Update(ctx context.Context, item *models.CriteriaMaster) error
	Delete(ctx context.Context, id int64) error
}

// CriteriaMasterService manages the criteria reference table.
type CriteriaMasterService struct {
	repo      criteriaMasterRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCriteriaMasterService constructs the service.
func NewCriteriaMasterService(repo criteriaMasterRepository, validate *validator.Validate, logger *zap.Logger) *CriteriaMasterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CriteriaMasterService{repo: repo, validator: validate, logger: logger}
}

// List returns criteria, optionally for one criterion ("3" or "03").
func (s *CriteriaMasterService) List(ctx context.Context, filter models.CriteriaMasterFilter) ([]models.CriteriaMaster, error) {
	if id := strings.TrimSpace(filter.CriterionID); id != "" {
		if len(id) == 1 {
			id = "0" + id
		}
		filter.CriterionID = id
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list criteria")
	}
	return items, nil
}

// Get loads a criteria row by its dotted code.
func (s *CriteriaMasterService) Get(ctx context.Context, raw string) (*models.CriteriaMaster, error) {
	code, err := criteria.ParseCode(raw)
	if err != nil {
		return nil, appErrors.Invalid(err, "invalid criteria code")
	}
	item, err := s.repo.FindByCode(ctx, code.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Criteria not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load criteria")
	}
	return item, nil
}

func (s *CriteriaMasterService) fromRequest(req dto.CriteriaMasterRequest) (*models.CriteriaMaster, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid criteria payload")
	}
	code, err := criteria.ParseCode(req.CriteriaCode)
	if err != nil {
		return nil, appErrors.Invalid(err, "invalid criteria code")
	}
	item := &models.CriteriaMaster{
		CriteriaCode:        code.String(),
		CriterionID:         code.CriterionID(),
		SubCriterionID:      code.SubCriterionID(),
		CriterionName:       strings.TrimSpace(req.CriterionName),
		SubCriterionName:    strings.TrimSpace(req.SubCriterionName),
		SubSubCriterionName: strings.TrimSpace(req.SubSubCriterionName),
		CriteriaType:        models.CriteriaType(req.CriteriaType),
		Requirements:        req.Requirements,
	}
	if code.Depth() == 3 {
		item.SubSubCriterionID = code.Padded()
	}
	return item, nil
}

// Create inserts a criteria row.
func (s *CriteriaMasterService) Create(ctx context.Context, req dto.CriteriaMasterRequest) (*models.CriteriaMaster, error) {
	item, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateEntry, "criteria code already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create criteria")
	}
	logger.WithContext(ctx, s.logger).Info("criteria created", zap.String("criteria_code", item.CriteriaCode))
	return item, nil
}

// Update rewrites the descriptive columns of a criteria row. The code itself is immutable.
func (s *CriteriaMasterService) Update(ctx context.Context, id int64, req dto.CriteriaMasterRequest) (*models.CriteriaMaster, error) {
	item, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	item.ID = id
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Criteria not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update criteria")
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load criteria")
	}
	return updated, nil
}

// Delete removes a criteria row.
func (s *CriteriaMasterService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Criteria not found")
		}
		if database.IsForeignKeyViolation(err) {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "criteria still referenced by responses")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete criteria")
	}
	return nil
}
