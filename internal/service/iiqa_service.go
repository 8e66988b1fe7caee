package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
	"github.com/noah-isme/naac-sar-api/internal/dto"
	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/logger"
)

type iiqaRepository interface {
	Latest(ctx context.Context) (*models.IIQAForm, error)
	Sessions(ctx context.Context) ([]models.IIQASession, error)
	Details(ctx context.Context, form models.IIQAForm) (*models.IIQAFormDetails, error)
	Save(ctx context.Context, details *models.IIQAFormDetails) (bool, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, pattern string)
}

// IIQAConfig holds the assessment spans derived from the IIQA session end year.
type IIQAConfig struct {
	SubmissionSpan int
	ScoringSpan    int
}

// IIQAService manages IIQA forms and resolves the current assessment cycle.
type IIQAService struct {
	repo      iiqaRepository
	cache     cacheStore
	validator *validator.Validate
	logger    *zap.Logger
	cfg       IIQAConfig
}

// NewIIQAService constructs the service. A nil cache disables caching.
func NewIIQAService(repo iiqaRepository, cache cacheStore, validate *validator.Validate, logger *zap.Logger, cfg IIQAConfig) *IIQAService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SubmissionSpan <= 0 {
		cfg.SubmissionSpan = 5
	}
	if cfg.ScoringSpan <= 0 {
		cfg.ScoringSpan = 5
	}
	return &IIQAService{repo: repo, cache: cache, validator: validate, logger: logger, cfg: cfg}
}

var errNoIIQA = appErrors.Clone(appErrors.ErrNotFound, "No IIQA form found")

// Create stores an IIQA form and its details, replacing any form with the same natural key.
func (s *IIQAService) Create(ctx context.Context, req dto.CreateIIQARequest) (*models.IIQAFormDetails, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Invalid(err, "invalid IIQA form")
	}
	grade := strings.ToUpper(strings.TrimSpace(req.DesiredGrade))
	if !criteria.ValidGrade(grade) {
		return nil, false, appErrors.Validationf("desired_grade must be one of %s", strings.Join(criteria.Grades, ", "))
	}
	hasMOU := *req.HasMOU
	mou := strings.TrimSpace(req.MOUFileURL)
	if hasMOU && mou == "" {
		return nil, false, appErrors.Validationf("mou_file_url is required when has_mou is true")
	}

	status := models.IIQAStatusSubmitted
	if req.Status != "" {
		status = models.IIQAStatus(req.Status)
	}
	details := &models.IIQAFormDetails{
		IIQAForm: models.IIQAForm{
			InstitutionID:    req.InstitutionID,
			SessionStartYear: req.SessionStartYear,
			SessionEndYear:   req.SessionEndYear,
			YearFilled:       req.YearFilled,
			NAACCycle:        req.NAACCycle,
			DesiredGrade:     grade,
			HasMOU:           hasMOU,
			Status:           status,
		},
	}
	if hasMOU {
		details.MOUFileURL = &mou
	}
	if p := req.ProgrammeCount; p != nil {
		details.ProgrammeCount = &models.IIQAProgrammeCount{
			UG: p.UG, PG: p.PG, PostMasters: p.PostMasters, PreDoctoral: p.PreDoctoral, Doctoral: p.Doctoral,
			PostDoctoral: p.PostDoctoral, PGDiploma: p.PGDiploma, Diploma: p.Diploma, Certificate: p.Certificate,
		}
	}
	if st := req.StaffDetails; st != nil {
		details.StaffDetails = &models.IIQAStaffDetails{
			PermMale: st.PermMale, PermFemale: st.PermFemale, PermTrans: st.PermTrans,
			OtherMale: st.OtherMale, OtherFemale: st.OtherFemale, OtherTrans: st.OtherTrans,
			NonMale: st.NonMale, NonFemale: st.NonFemale, NonTrans: st.NonTrans,
		}
	}
	if sd := req.StudentDetails; sd != nil {
		details.StudentDetails = &models.IIQAStudentDetails{
			RegularMale: sd.RegularMale, RegularFemale: sd.RegularFemale, RegularTrans: sd.RegularTrans,
		}
	}
	for _, d := range req.Departments {
		details.Departments = append(details.Departments, models.IIQADepartment{
			Department:        strings.TrimSpace(d.Department),
			Program:           strings.TrimSpace(d.Program),
			University:        strings.TrimSpace(d.University),
			AffiliationStatus: strings.TrimSpace(d.AffiliationStatus),
		})
	}

	created, err := s.repo.Save(ctx, details)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save IIQA form")
	}
	s.invalidate(ctx)
	logger.WithContext(ctx, s.logger).Info("iiqa form saved",
		zap.Int64("id", details.ID),
		zap.Int("session_end_year", details.SessionEndYear),
		zap.Bool("created", created),
	)
	return details, created, nil
}

func (s *IIQAService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, cycleCacheKey)
	s.cache.Invalidate(ctx, scoresCachePattern)
}

// Sessions lists the distinct reporting cycles, newest first.
func (s *IIQAService) Sessions(ctx context.Context) ([]models.IIQASession, error) {
	sessions, err := s.repo.Sessions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list IIQA sessions")
	}
	return sessions, nil
}

func (s *IIQAService) latest(ctx context.Context) (*models.IIQAForm, error) {
	form, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNoIIQA
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load IIQA form")
	}
	return form, nil
}

// Latest returns the newest IIQA form with its details.
func (s *IIQAService) Latest(ctx context.Context) (*models.IIQAFormDetails, error) {
	form, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.repo.Details(ctx, *form)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load IIQA details")
	}
	return details, nil
}

// Cycle resolves the current assessment cycle from the newest IIQA form.
func (s *IIQAService) Cycle(ctx context.Context) (*models.AssessmentCycle, error) {
	var cached models.AssessmentCycle
	if s.cache != nil && s.cache.Get(ctx, cycleCacheKey, &cached) {
		return &cached, nil
	}
	form, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	cycle := &models.AssessmentCycle{
		FormID:           form.ID,
		InstitutionID:    form.InstitutionID,
		SessionStartYear: form.SessionStartYear,
		SessionEndYear:   form.SessionEndYear,
		YearFilled:       form.YearFilled,
		NAACCycle:        form.NAACCycle,
		DesiredGrade:     form.DesiredGrade,
	}
	if s.cache != nil {
		s.cache.Set(ctx, cycleCacheKey, cycle, 0)
	}
	return cycle, nil
}

// SubmissionWindow is the range stored sessions must fall in.
func (s *IIQAService) SubmissionWindow(ctx context.Context) (criteria.Window, error) {
	cycle, err := s.Cycle(ctx)
	if err != nil {
		return criteria.Window{}, err
	}
	return criteria.SubmissionWindow(cycle.SessionEndYear, s.cfg.SubmissionSpan), nil
}

// ScoringWindow is the range metrics aggregate over.
func (s *IIQAService) ScoringWindow(ctx context.Context) (criteria.Window, *models.AssessmentCycle, error) {
	cycle, err := s.Cycle(ctx)
	if err != nil {
		return criteria.Window{}, nil, err
	}
	return criteria.ScoringWindow(cycle.SessionEndYear, s.cfg.ScoringSpan), cycle, nil
}
