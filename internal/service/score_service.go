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
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/logger"
)

type scoreRepository interface {
	Upsert(ctx context.Context, s *models.Score) (bool, error)
	UpsertTotal(ctx context.Context, s *models.Score) error
	List(ctx context.Context, filter models.ScoreFilter) ([]models.Score, error)
	ListBySubCriterion(ctx context.Context, subCriteriaID string, session int) ([]models.Score, error)
	SetSubCriterionScore(ctx context.Context, subCriteriaID string, session int, score float64) error
	MaxSubCriterionScores(ctx context.Context, criteriaID string, session int) (map[string]float64, error)
	SetCriterionScore(ctx context.Context, criteriaID string, session int, score, weighted float64) error
	MaxWeightedByCriterion(ctx context.Context, session int) (map[string]float64, error)
	Total(ctx context.Context, session int) (*models.Score, error)
}

type criteriaFinder interface {
	FindByCode(ctx context.Context, code string) (*models.CriteriaMaster, error)
}

type scoringWindowResolver interface {
	ScoringWindow(ctx context.Context) (criteria.Window, *models.AssessmentCycle, error)
}

// ScoreService computes metric grades from stored responses.
type ScoreService struct {
	scores  scoreRepository
	masters criteriaFinder
	source  criteria.Source
	windows scoringWindowResolver
	cache   cacheStore
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewScoreService constructs the service.
func NewScoreService(scores scoreRepository, masters criteriaFinder, source criteria.Source, windows scoringWindowResolver, cache cacheStore, metrics *MetricsService, logger *zap.Logger) *ScoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreService{
		scores:  scores,
		masters: masters,
		source:  source,
		windows: windows,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the clock that decides the scoring session.
func (s *ScoreService) WithClock(now func() time.Time) *ScoreService {
	if now != nil {
		s.now = now
	}
	return s
}

// Session is the session scores are written to: the current calendar year.
func (s *ScoreService) Session() int {
	return s.now().Year()
}

// Score measures, grades and stores one metric for the current session.
func (s *ScoreService) Score(ctx context.Context, code criteria.Code) (*models.ScoreResult, error) {
	scorer, ok := criteria.ScorerFor(code)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s is not a scored metric", code))
	}
	session := s.Session()
	window, cycle, err := s.windows.ScoringWindow(ctx)
	if err != nil {
		return nil, err
	}
	master, err := s.masters.FindByCode(ctx, code.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Criteria not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load criteria")
	}

	start := time.Now()
	result, err := scorer.Evaluate(ctx, s.source, window)
	s.metrics.ObserveDBQuery("score_"+code.Digits(), time.Since(start))
	if err != nil {
		if errors.Is(err, criteria.ErrReferenceMissing) {
			return nil, appErrors.Wrap(err, appErrors.ErrReferenceDataMissing.Code, appErrors.ErrReferenceDataMissing.Status,
				fmt.Sprintf("reference data missing for %s: %v", code, err))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to compute %s", code))
	}

	row := &models.Score{
		CriteriaCode:        code.String(),
		CriteriaID:          master.CriterionID,
		SubCriteriaID:       master.SubCriterionID,
		SubSubCriteriaID:    master.SubSubCriterionID,
		ScoreSubSubCriteria: result.Value,
		SubSubCrGrade:       result.Grade,
		Session:             session,
		CycleYear:           cycle.NAACCycle,
		ComputedAt:          s.now().UTC(),
	}
	if row.CriteriaID == "" {
		row.CriteriaID = code.CriterionID()
	}
	if row.SubCriteriaID == "" {
		row.SubCriteriaID = code.SubCriterionID()
	}
	if row.SubSubCriteriaID == "" {
		row.SubSubCriteriaID = code.Padded()
	}
	created, err := s.scores.Upsert(ctx, row)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store score")
	}
	s.metrics.RecordScore(code.String(), result.Grade)
	if s.cache != nil {
		s.cache.Invalidate(ctx, summaryCacheKey(session))
	}
	logger.WithContext(ctx, s.logger).Info("score computed",
		zap.String("criteria_code", code.String()),
		zap.Int("session", session),
		zap.Float64("metric", result.Value),
		zap.Int("grade", result.Grade),
		zap.Ints("window", []int{window.Start, window.End}),
	)

	return &models.ScoreResult{
		CriteriaCode: code.String(),
		Session:      session,
		Metric:       result.Value,
		Grade:        result.Grade,
		Empty:        result.Empty,
		Inputs:       result.Inputs,
		Created:      created,
	}, nil
}

// List returns stored scores. A zero session means the current one.
func (s *ScoreService) List(ctx context.Context, filter models.ScoreFilter) ([]models.Score, error) {
	if filter.Session <= 0 {
		filter.Session = s.Session()
	}
	scores, err := s.scores.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scores")
	}
	if scores == nil {
		scores = []models.Score{}
	}
	return scores, nil
}
