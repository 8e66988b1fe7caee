package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/naac-sar-api/internal/dto"
	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/logger"
)

type extendedProfileRepository interface {
	Upsert(ctx context.Context, p *models.ExtendedProfile) (bool, error)
	ListByForm(ctx context.Context, formID int64, year int) ([]models.ExtendedProfile, error)
}

type cycleResolver interface {
	Cycle(ctx context.Context) (*models.AssessmentCycle, error)
}

// ExtendedProfileService stores the yearly figures attached to the latest IIQA form.
type ExtendedProfileService struct {
	repo      extendedProfileRepository
	cycles    cycleResolver
	cache     cacheStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExtendedProfileService constructs the service.
func NewExtendedProfileService(repo extendedProfileRepository, cycles cycleResolver, cache cacheStore, validate *validator.Validate, logger *zap.Logger) *ExtendedProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtendedProfileService{repo: repo, cycles: cycles, cache: cache, validator: validate, logger: logger}
}

// Create upserts the profile for the IIQA year_filled.
func (s *ExtendedProfileService) Create(ctx context.Context, req dto.CreateExtendedProfileRequest) (*models.ExtendedProfile, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Invalid(err, "invalid extended profile")
	}
	cycle, err := s.cycles.Cycle(ctx)
	if err != nil {
		return nil, false, err
	}
	if req.Year != cycle.YearFilled {
		return nil, false, appErrors.Validationf("year must match the IIQA year_filled %d", cycle.YearFilled)
	}

	profile := &models.ExtendedProfile{
		IIQAFormID:                cycle.FormID,
		Year:                      req.Year,
		NumberOfCoursesOffered:    req.NumberOfCoursesOffered,
		TotalStudents:             req.TotalStudents,
		ReservedCategorySeats:     req.ReservedCategorySeats,
		OutgoingFinalYearStudents: req.OutgoingFinalYearStudents,
		FullTimeTeachers:          req.FullTimeTeachers,
		SanctionedPosts:           req.SanctionedPosts,
		TotalClassrooms:           req.TotalClassrooms,
		TotalSeminarHalls:         req.TotalSeminarHalls,
		TotalComputers:            req.TotalComputers,
		ExpenditureInLakhs:        req.ExpenditureInLakhs,
	}
	created, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save extended profile")
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, scoresCachePattern)
	}
	logger.WithContext(ctx, s.logger).Info("extended profile saved", zap.Int64("iiqa_form_id", cycle.FormID), zap.Int("year", req.Year), zap.Bool("created", created))
	return profile, created, nil
}

// List returns the profiles of the latest IIQA form. Year 0 returns every year.
func (s *ExtendedProfileService) List(ctx context.Context, year int) ([]models.ExtendedProfile, error) {
	cycle, err := s.cycles.Cycle(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.repo.ListByForm(ctx, cycle.FormID, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to list extended profiles for form %d", cycle.FormID))
	}
	return profiles, nil
}
