package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
)

// Score statuses shown on the college summary.
const (
	StatusNearTarget  = "Near Target"
	StatusBelowTarget = "Below Target"
)

// nearTargetRatio is the share of the target a criterion must reach to count as near it.
const nearTargetRatio = 0.9

// RollupService aggregates metric grades into sub-criterion, criterion and institution scores.
type RollupService struct {
	scores scoreRepository
	cycles cycleResolver
	cache  cacheStore
	logger *zap.Logger
	now    func() time.Time
}

// NewRollupService constructs the service.
func NewRollupService(scores scoreRepository, cycles cycleResolver, cache cacheStore, logger *zap.Logger) *RollupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RollupService{scores: scores, cycles: cycles, cache: cache, logger: logger, now: time.Now}
}

// WithClock overrides the clock that picks the default session.
func (s *RollupService) WithClock(now func() time.Time) *RollupService {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *RollupService) session(session int) int {
	if session <= 0 {
		return s.now().Year()
	}
	return session
}

func (s *RollupService) invalidate(ctx context.Context, session int) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, summaryCacheKey(session))
	}
}

// SubCriterion averages the grades of a sub-criterion's metrics and scales by its weight.
func (s *RollupService) SubCriterion(ctx context.Context, raw string, session int) (*models.SubCriterionScore, error) {
	code, err := criteria.ParseCode(raw)
	if err != nil || code.Depth() != 2 {
		return nil, appErrors.Validationf("%q is not a sub-criterion code", raw)
	}
	weight, ok := criteria.SubCriterionWeight(code)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("sub-criterion %s is not weighted", code))
	}
	session = s.session(session)

	rows, err := s.scores.ListBySubCriterion(ctx, code.Padded(), session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-criterion scores")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no scores for sub-criterion %s in %d", code, session))
	}
	var sum float64
	for _, r := range rows {
		sum += float64(r.SubSubCrGrade)
	}
	avg := sum / float64(len(rows))
	score := criteria.Round(avg*weight, 2)

	if err := s.scores.SetSubCriterionScore(ctx, code.Padded(), session, score); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store sub-criterion score")
	}
	s.invalidate(ctx, session)
	return &models.SubCriterionScore{
		Code:         code.String(),
		Session:      session,
		Weight:       weight,
		AverageGrade: criteria.Round(avg, 2),
		Score:        score,
		Metrics:      len(rows),
	}, nil
}

func parseCriterion(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > 7 {
		return 0, appErrors.Validationf("%q is not a criterion id", raw)
	}
	return n, nil
}

// Criterion sums the best sub-criterion scores of a criterion over its weight total.
func (s *RollupService) Criterion(ctx context.Context, raw string, session int) (*models.CriterionScore, error) {
	n, err := parseCriterion(raw)
	if err != nil {
		return nil, err
	}
	session = s.session(session)
	id := criteria.Code(fmt.Sprint(n)).CriterionID()

	maxes, err := s.scores.MaxSubCriterionScores(ctx, id, session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load criterion scores")
	}
	if len(maxes) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no scores for criterion %d in %d", n, session))
	}
	var sum float64
	for _, v := range maxes {
		sum += v
	}
	den := criteria.CriterionDenominator(n)
	if den <= 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("criterion %d is not weighted", n))
	}
	score := criteria.Round(sum/den, 4)
	weighted := criteria.Round(score*criteria.CriterionWeight(n)*1000, 2)

	if err := s.scores.SetCriterionScore(ctx, id, session, score, weighted); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store criterion score")
	}
	s.invalidate(ctx, session)
	return &models.CriterionScore{CriterionID: id, Session: session, ScoreCriteria: score, Weighted: weighted, Denominator: den}, nil
}

// Total sums the best weighted score of every criterion into the institution row.
func (s *RollupService) Total(ctx context.Context, session int) (*models.TotalScore, error) {
	session = s.session(session)
	maxes, err := s.scores.MaxWeightedByCriterion(ctx, session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weighted scores")
	}
	if len(maxes) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no criterion scores in %d", session))
	}
	var total float64
	for _, v := range maxes {
		total += v
	}
	total = criteria.Round(total, 2)
	gpa := criteria.Round(total/1000, 3)

	row := &models.Score{ScoreCriteria: gpa, WeightedCrScore: total, Session: session, ComputedAt: s.now().UTC()}
	if cycle, err := s.cycles.Cycle(ctx); err == nil {
		row.CycleYear = cycle.NAACCycle
	}
	if err := s.scores.UpsertTotal(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store total score")
	}
	s.invalidate(ctx, session)
	s.logger.Info("total score computed", zap.Int("session", session), zap.Float64("total", total), zap.Float64("gpa", gpa))
	return &models.TotalScore{Session: session, Total: total, GPA: gpa, Grade: criteria.LetterGrade(gpa)}, nil
}

func statusFor(score, target float64) string {
	if score >= target*nearTargetRatio {
		return StatusNearTarget
	}
	return StatusBelowTarget
}

// Summary compares every criterion with the target for the IIQA desired grade.
// The boolean reports whether the summary came from the cache.
func (s *RollupService) Summary(ctx context.Context, session int) (*models.CollegeSummary, bool, error) {
	session = s.session(session)
	key := summaryCacheKey(session)
	var cached models.CollegeSummary
	if s.cache != nil && s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	cycle, err := s.cycles.Cycle(ctx)
	if err != nil {
		return nil, false, err
	}
	rows, err := s.scores.List(ctx, models.ScoreFilter{Session: session})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scores")
	}

	byCriterion := map[string][]models.Score{}
	var totalRow *models.Score
	for i := range rows {
		if rows[i].CriteriaCode == models.TotalCode {
			totalRow = &rows[i]
			continue
		}
		byCriterion[rows[i].CriteriaID] = append(byCriterion[rows[i].CriteriaID], rows[i])
	}

	targetGPA := criteria.TargetGPA(cycle.DesiredGrade)
	summary := &models.CollegeSummary{
		Session:      session,
		DesiredGrade: cycle.DesiredGrade,
		TargetGPA:    targetGPA,
		Criteria:     []models.CriterionSummary{},
	}
	for _, n := range criteria.Criteria() {
		id := criteria.Code(fmt.Sprint(n)).CriterionID()
		metrics := byCriterion[id]
		if len(metrics) == 0 {
			continue
		}
		var weighted, grades float64
		subBest := map[string]float64{}
		for _, m := range metrics {
			if m.WeightedCrScore > weighted {
				weighted = m.WeightedCrScore
			}
			grades += float64(m.SubSubCrGrade)
			if m.ScoreSubCriteria > subBest[m.SubCriteriaID] {
				subBest[m.SubCriteriaID] = m.ScoreSubCriteria
			}
		}
		score := criteria.Round(weighted/1000, 3)
		target := criteria.Round(targetGPA*criteria.CriterionWeight(n), 4)
		item := models.CriterionSummary{
			CriterionID:  id,
			Name:         criteria.CriterionName(n),
			Score:        score,
			Target:       target,
			Status:       statusFor(score, target),
			AverageGrade: criteria.Round(grades/float64(len(metrics)), 2),
			SubCriteria:  []models.SubCriterionSummary{},
		}
		for _, sub := range criteria.SubCriteria(n) {
			weight, _ := criteria.SubCriterionWeight(sub)
			subScore := criteria.Round(subBest[sub.Padded()], 2)
			subTarget := criteria.Round(targetGPA*weight, 3)
			var percent float64
			if subTarget > 0 {
				percent = criteria.Round(subScore/subTarget*100, 2)
			}
			item.SubCriteria = append(item.SubCriteria, models.SubCriterionSummary{
				Code: sub.String(), Score: subScore, Target: subTarget, TargetPercent: percent,
			})
		}
		summary.Criteria = append(summary.Criteria, item)
	}
	if totalRow != nil {
		summary.CurrentGPA = criteria.Round(totalRow.WeightedCrScore/1000, 3)
	}
	summary.Grade = criteria.LetterGrade(summary.CurrentGPA)

	if s.cache != nil {
		s.cache.Set(ctx, key, summary, 0)
	}
	return summary, false, nil
}

// Radar returns one spoke per criterion with the current and target weighted scores.
func (s *RollupService) Radar(ctx context.Context, session int) ([]models.RadarPoint, error) {
	session = s.session(session)
	desired := ""
	cycle, err := s.cycles.Cycle(ctx)
	switch {
	case err == nil:
		desired = cycle.DesiredGrade
	case appErrors.FromError(err).Code != appErrors.ErrNotFound.Code:
		return nil, err
	}
	maxes, err := s.scores.MaxWeightedByCriterion(ctx, session)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weighted scores")
	}
	targetGPA := criteria.TargetGPA(desired)
	points := make([]models.RadarPoint, 0, len(criteria.Criteria()))
	for _, n := range criteria.Criteria() {
		id := criteria.Code(fmt.Sprint(n)).CriterionID()
		points = append(points, models.RadarPoint{
			ID:      id,
			Name:    criteria.CriterionName(n),
			Max:     1,
			Current: criteria.Round(maxes[id]/1000, 4),
			Target:  criteria.Round(targetGPA*criteria.CriterionWeight(n), 4),
		})
	}
	return points, nil
}
