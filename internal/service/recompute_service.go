package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
	"github.com/noah-isme/naac-sar-api/internal/dto"
	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/jobs"
	"github.com/noah-isme/naac-sar-api/pkg/logger"
)

const recomputeJobType = "score_recompute"

type metricScorer interface {
	Score(ctx context.Context, code criteria.Code) (*models.ScoreResult, error)
	Session() int
}

type scoreRoller interface {
	SubCriterion(ctx context.Context, raw string, session int) (*models.SubCriterionScore, error)
	Criterion(ctx context.Context, raw string, session int) (*models.CriterionScore, error)
	Total(ctx context.Context, session int) (*models.TotalScore, error)
}

// RecomputeConfig sizes the worker pool.
type RecomputeConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	JobTimeout time.Duration
}

// RecomputeService rescores metrics in the background and rolls the results up.
type RecomputeService struct {
	scorer    metricScorer
	rollups   scoreRoller
	queue     *jobs.Queue
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger

	mu    sync.RWMutex
	store map[string]*models.RecomputeJob
}

// NewRecomputeService constructs the service and its queue. Call Start before enqueueing.
func NewRecomputeService(scorer metricScorer, rollups scoreRoller, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg RecomputeConfig) *RecomputeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RecomputeService{
		scorer:    scorer,
		rollups:   rollups,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		store:     make(map[string]*models.RecomputeJob),
	}
	s.queue = jobs.NewQueue("score-recompute", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		JobTimeout: cfg.JobTimeout,
		OnFailure:  s.fail,
		Logger:     logger,
	})
	metrics.WatchQueue("score-recompute", s.queue.Stats)
	return s
}

// Start launches the workers.
func (s *RecomputeService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *RecomputeService) Stop() {
	s.queue.Stop()
}

// Enqueue validates the requested codes and queues a recompute job.
func (s *RecomputeService) Enqueue(ctx context.Context, req dto.RecomputeRequest) (*models.RecomputeJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid recompute request")
	}
	codes := make([]string, 0, len(req.Codes))
	for _, raw := range req.Codes {
		code, err := criteria.ParseCode(raw)
		if err != nil {
			return nil, appErrors.Validationf("invalid criteria code %q", raw)
		}
		if _, ok := criteria.ScorerFor(code); !ok {
			return nil, appErrors.Validationf("%s is not a scored metric", code)
		}
		codes = append(codes, code.String())
	}
	if len(codes) == 0 {
		for _, sc := range criteria.Scorers() {
			codes = append(codes, sc.Code.String())
		}
	}

	job := &models.RecomputeJob{
		ID:        uuid.NewString(),
		Status:    models.RecomputeQueued,
		Codes:     codes,
		Session:   s.scorer.Session(),
		Results:   []models.RecomputeOutcome{},
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.store[job.ID] = job
	s.mu.Unlock()

	if _, err := s.queue.Enqueue(ctx, jobs.Job{ID: job.ID, Type: recomputeJobType, Payload: codes}); err != nil {
		s.mu.Lock()
		delete(s.store, job.ID)
		s.mu.Unlock()
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "recompute queue is full, retry later")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue recompute")
	}
	logger.WithContext(ctx, s.logger).Info("recompute queued", zap.String("job_id", job.ID), zap.Int("codes", len(codes)))
	return s.snapshot(job.ID), nil
}

// Get returns the state of a job.
func (s *RecomputeService) Get(ctx context.Context, id string) (*models.RecomputeJob, error) {
	job := s.snapshot(id)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "recompute job not found")
	}
	return job, nil
}

func (s *RecomputeService) snapshot(id string) *models.RecomputeJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.store[id]
	if !ok {
		return nil
	}
	clone := *job
	clone.Codes = append([]string(nil), job.Codes...)
	clone.Results = append([]models.RecomputeOutcome(nil), job.Results...)
	return &clone
}

func (s *RecomputeService) update(id string, fn func(*models.RecomputeJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.store[id]; ok {
		fn(job)
	}
}

func (s *RecomputeService) process(ctx context.Context, job jobs.Job) error {
	codes, ok := job.Payload.([]string)
	if !ok {
		return fmt.Errorf("recompute job %s: unexpected payload %T", job.ID, job.Payload)
	}
	s.update(job.ID, func(j *models.RecomputeJob) {
		j.Status = models.RecomputeRunning
		j.Results = []models.RecomputeOutcome{}
		j.Error = ""
	})

	session := s.scorer.Session()
	subs := map[string]bool{}
	crits := map[int]bool{}
	results := make([]models.RecomputeOutcome, 0, len(codes))
	for _, raw := range codes {
		code := criteria.Code(raw)
		outcome := models.RecomputeOutcome{CriteriaCode: raw}
		res, err := s.scorer.Score(ctx, code)
		if err != nil {
			outcome.Error = appErrors.FromError(err).Message
		} else {
			outcome.Metric = res.Metric
			outcome.Grade = res.Grade
			subs[code.Parent().String()] = true
			crits[code.Criterion()] = true
		}
		results = append(results, outcome)
	}

	for _, sub := range sortedSet(subs) {
		if _, err := s.rollups.SubCriterion(ctx, sub, session); err != nil && !isNotFound(err) {
			return err
		}
	}
	for _, n := range criteria.Criteria() {
		if !crits[n] {
			continue
		}
		if _, err := s.rollups.Criterion(ctx, fmt.Sprint(n), session); err != nil && !isNotFound(err) {
			return err
		}
	}
	total, err := s.rollups.Total(ctx, session)
	if err != nil && !isNotFound(err) {
		return err
	}

	finished := time.Now().UTC()
	s.update(job.ID, func(j *models.RecomputeJob) {
		j.Status = models.RecomputeCompleted
		j.Results = results
		j.Total = total
		j.FinishedAt = &finished
	})
	s.metrics.RecordRecompute(models.RecomputeCompleted)
	s.logger.Info("recompute finished", zap.String("job_id", job.ID), zap.Int("codes", len(codes)))
	return nil
}

func (s *RecomputeService) fail(job jobs.Job, err error) {
	finished := time.Now().UTC()
	s.update(job.ID, func(j *models.RecomputeJob) {
		j.Status = models.RecomputeFailed
		j.Error = appErrors.FromError(err).Error()
		j.FinishedAt = &finished
	})
	s.metrics.RecordRecompute(models.RecomputeFailed)
}

func isNotFound(err error) bool {
	return appErrors.StatusOf(err) == http.StatusNotFound
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
