package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/naac-sar-api/internal/models"
)

const scoreColumns = `sl_no, criteria_code, criteria_id, sub_criteria_id, sub_sub_criteria_id, score_criteria,
score_sub_criteria, score_sub_sub_criteria, sub_sub_cr_grade, weighted_cr_score, session, cycle_year, computed_at`

// ScoreRepository persists computed scores.
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository constructs the repository.
func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Upsert writes a metric score keyed by (criteria_code, session). Rollup columns
// of an existing row are left untouched.
func (r *ScoreRepository) Upsert(ctx context.Context, s *models.Score) (bool, error) {
	const query = `INSERT INTO scores (criteria_code, criteria_id, sub_criteria_id, sub_sub_criteria_id, score_criteria,
score_sub_criteria, score_sub_sub_criteria, sub_sub_cr_grade, weighted_cr_score, session, cycle_year, computed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (criteria_code, session)
DO UPDATE SET criteria_id = EXCLUDED.criteria_id, sub_criteria_id = EXCLUDED.sub_criteria_id,
              sub_sub_criteria_id = EXCLUDED.sub_sub_criteria_id, score_sub_sub_criteria = EXCLUDED.score_sub_sub_criteria,
              sub_sub_cr_grade = EXCLUDED.sub_sub_cr_grade, cycle_year = EXCLUDED.cycle_year,
              computed_at = EXCLUDED.computed_at
RETURNING sl_no, (xmax = 0) AS inserted`
	if s.ComputedAt.IsZero() {
		s.ComputedAt = time.Now().UTC()
	}
	var created bool
	if err := r.db.QueryRowxContext(ctx, query,
		s.CriteriaCode, s.CriteriaID, s.SubCriteriaID, s.SubSubCriteriaID, s.ScoreCriteria,
		s.ScoreSubCriteria, s.ScoreSubSubCriteria, s.SubSubCrGrade, s.WeightedCrScore, s.Session, s.CycleYear, s.ComputedAt,
	).Scan(&s.SlNo, &created); err != nil {
		return false, fmt.Errorf("upsert score: %w", err)
	}
	return created, nil
}

// UpsertTotal writes the institution-wide row (criteria_code "00").
func (r *ScoreRepository) UpsertTotal(ctx context.Context, s *models.Score) error {
	const query = `INSERT INTO scores (criteria_code, criteria_id, sub_criteria_id, sub_sub_criteria_id, score_criteria,
score_sub_criteria, score_sub_sub_criteria, sub_sub_cr_grade, weighted_cr_score, session, cycle_year, computed_at)
VALUES ($1, $1, '', '', $2, 0, 0, 0, $3, $4, $5, $6)
ON CONFLICT (criteria_code, session)
DO UPDATE SET score_criteria = EXCLUDED.score_criteria, weighted_cr_score = EXCLUDED.weighted_cr_score,
              cycle_year = EXCLUDED.cycle_year, computed_at = EXCLUDED.computed_at
RETURNING sl_no`
	s.CriteriaCode = models.TotalCode
	s.CriteriaID = models.TotalCode
	if s.ComputedAt.IsZero() {
		s.ComputedAt = time.Now().UTC()
	}
	if err := r.db.QueryRowxContext(ctx, query,
		models.TotalCode, s.ScoreCriteria, s.WeightedCrScore, s.Session, s.CycleYear, s.ComputedAt,
	).Scan(&s.SlNo); err != nil {
		return fmt.Errorf("upsert total score: %w", err)
	}
	return nil
}

// List returns the scores of a session, optionally for one criterion.
func (r *ScoreRepository) List(ctx context.Context, filter models.ScoreFilter) ([]models.Score, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores WHERE session = $1`
	args := []interface{}{filter.Session}
	if filter.CriterionID != "" {
		query += ` AND criteria_id = $2`
		args = append(args, filter.CriterionID)
	}
	query += ` ORDER BY criteria_id ASC, sub_criteria_id ASC, sub_sub_criteria_id ASC`
	var scores []models.Score
	if err := r.db.SelectContext(ctx, &scores, query, args...); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return scores, nil
}

// ListBySubCriterion returns the metric rows of a sub-criterion in a session.
func (r *ScoreRepository) ListBySubCriterion(ctx context.Context, subCriteriaID string, session int) ([]models.Score, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores WHERE sub_criteria_id = $1 AND session = $2 ORDER BY sub_sub_criteria_id ASC`
	var scores []models.Score
	if err := r.db.SelectContext(ctx, &scores, query, subCriteriaID, session); err != nil {
		return nil, fmt.Errorf("list sub-criterion scores: %w", err)
	}
	return scores, nil
}

// SetSubCriterionScore stamps the rolled-up sub-criterion score on its metric rows.
func (r *ScoreRepository) SetSubCriterionScore(ctx context.Context, subCriteriaID string, session int, score float64) error {
	const query = `UPDATE scores SET score_sub_criteria = $1 WHERE sub_criteria_id = $2 AND session = $3`
	if _, err := r.db.ExecContext(ctx, query, score, subCriteriaID, session); err != nil {
		return fmt.Errorf("set sub-criterion score: %w", err)
	}
	return nil
}

type subCriterionMax struct {
	SubCriteriaID string  `db:"sub_criteria_id"`
	Score         float64 `db:"score"`
}

// MaxSubCriterionScores returns max(score_sub_criteria) per sub-criterion of a criterion.
func (r *ScoreRepository) MaxSubCriterionScores(ctx context.Context, criteriaID string, session int) (map[string]float64, error) {
	const query = `SELECT sub_criteria_id, MAX(score_sub_criteria) AS score FROM scores
WHERE criteria_id = $1 AND session = $2 GROUP BY sub_criteria_id`
	var rows []subCriterionMax
	if err := r.db.SelectContext(ctx, &rows, query, criteriaID, session); err != nil {
		return nil, fmt.Errorf("max sub-criterion scores: %w", err)
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.SubCriteriaID] = row.Score
	}
	return out, nil
}

// SetCriterionScore stamps the criterion GPA and weighted score on every row of the criterion.
func (r *ScoreRepository) SetCriterionScore(ctx context.Context, criteriaID string, session int, score, weighted float64) error {
	const query = `UPDATE scores SET score_criteria = $1, weighted_cr_score = $2 WHERE criteria_id = $3 AND session = $4`
	if _, err := r.db.ExecContext(ctx, query, score, weighted, criteriaID, session); err != nil {
		return fmt.Errorf("set criterion score: %w", err)
	}
	return nil
}

type criterionMax struct {
	CriteriaID string  `db:"criteria_id"`
	Weighted   float64 `db:"weighted"`
}

// MaxWeightedByCriterion returns max(weighted_cr_score) per criterion, excluding the total row.
func (r *ScoreRepository) MaxWeightedByCriterion(ctx context.Context, session int) (map[string]float64, error) {
	const query = `SELECT criteria_id, MAX(weighted_cr_score) AS weighted FROM scores
WHERE session = $1 AND criteria_code <> $2 GROUP BY criteria_id`
	var rows []criterionMax
	if err := r.db.SelectContext(ctx, &rows, query, session, models.TotalCode); err != nil {
		return nil, fmt.Errorf("max weighted scores: %w", err)
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.CriteriaID] = row.Weighted
	}
	return out, nil
}

// Total returns the institution-wide row of a session.
func (r *ScoreRepository) Total(ctx context.Context, session int) (*models.Score, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores WHERE criteria_code = $1 AND session = $2`
	var s models.Score
	if err := r.db.GetContext(ctx, &s, query, models.TotalCode, session); err != nil {
		return nil, err
	}
	return &s, nil
}
