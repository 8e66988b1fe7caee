package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
	"github.com/noah-isme/naac-sar-api/internal/models"
)

// MetricRepository reads the aggregates scoring rules are computed from.
type MetricRepository struct {
	db *sqlx.DB
}

// NewMetricRepository constructs the repository.
func NewMetricRepository(db *sqlx.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

var _ criteria.Source = (*MetricRepository)(nil)

func aggregateExpr(q criteria.Query) (string, error) {
	switch q.Func {
	case criteria.Count:
		return "COUNT(*)", nil
	case criteria.CountDistinct:
		if len(q.Columns) != 1 {
			return "", fmt.Errorf("count distinct needs one column, got %d", len(q.Columns))
		}
		col, err := ident(q.Columns[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("COUNT(DISTINCT %s)", col), nil
	case criteria.Sum:
		if len(q.Columns) == 0 {
			return "", errors.New("sum needs at least one column")
		}
		terms := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			col, err := ident(c)
			if err != nil {
				return "", err
			}
			terms[i] = fmt.Sprintf("COALESCE(%s, 0)", col)
		}
		return fmt.Sprintf("COALESCE(SUM(%s), 0)", strings.Join(terms, " + ")), nil
	}
	return "", fmt.Errorf("unsupported aggregate %q", q.Func)
}

func windowClause(q criteria.Query, w criteria.Window) (string, []interface{}, error) {
	where := "WHERE session BETWEEN $1 AND $2"
	args := []interface{}{w.Start, w.End}
	if q.Where != nil {
		col, err := ident(q.Where.Column)
		if err != nil {
			return "", nil, err
		}
		where += fmt.Sprintf(" AND %s = $3", col)
		args = append(args, q.Where.Value)
	}
	return where, args, nil
}

// Aggregate computes a single aggregate over rows whose session lies in w.
func (r *MetricRepository) Aggregate(ctx context.Context, q criteria.Query, w criteria.Window) (float64, error) {
	table, err := ident(q.Table)
	if err != nil {
		return 0, err
	}
	expr, err := aggregateExpr(q)
	if err != nil {
		return 0, err
	}
	where, args, err := windowClause(q, w)
	if err != nil {
		return 0, err
	}
	var value float64
	if err := r.db.GetContext(ctx, &value, fmt.Sprintf("SELECT %s FROM %s %s", expr, table, where), args...); err != nil {
		return 0, fmt.Errorf("aggregate %s: %w", table, err)
	}
	return value, nil
}

type periodValue struct {
	Period int     `db:"period"`
	Value  float64 `db:"value"`
}

// AggregateBy computes the aggregate per distinct value of groupBy.
func (r *MetricRepository) AggregateBy(ctx context.Context, q criteria.Query, groupBy string, w criteria.Window) (map[int]float64, error) {
	table, err := ident(q.Table)
	if err != nil {
		return nil, err
	}
	group, err := ident(groupBy)
	if err != nil {
		return nil, err
	}
	expr, err := aggregateExpr(q)
	if err != nil {
		return nil, err
	}
	where, args, err := windowClause(q, w)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s AS period, %s AS value FROM %s %s AND %s IS NOT NULL GROUP BY %s ORDER BY %s",
		group, expr, table, where, group, group, group)
	var rows []periodValue
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("aggregate %s by %s: %w", table, group, err)
	}
	out := make(map[int]float64, len(rows))
	for _, row := range rows {
		out[row.Period] = row.Value
	}
	return out, nil
}

// Latest returns columns of the newest row in w, ordered by q.OrderBy then sl_no.
func (r *MetricRepository) Latest(ctx context.Context, q criteria.LatestQuery, w criteria.Window) (map[string]float64, bool, error) {
	table, err := ident(q.Table)
	if err != nil {
		return nil, false, err
	}
	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = criteria.SessionField
	}
	if orderBy, err = ident(orderBy); err != nil {
		return nil, false, err
	}
	selects := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		col, err := ident(c)
		if err != nil {
			return nil, false, err
		}
		selects[i] = fmt.Sprintf("COALESCE(%s, 0) AS %s", col, col)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE session BETWEEN $1 AND $2 ORDER BY %s DESC, sl_no DESC LIMIT 1",
		strings.Join(selects, ", "), table, orderBy)

	row := map[string]interface{}{}
	if err := r.db.QueryRowxContext(ctx, query, w.Start, w.End).MapScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("latest %s: %w", table, err)
	}
	out := make(map[string]float64, len(row))
	for k, v := range row {
		out[k] = toFloat(v)
	}
	return out, true, nil
}

// Profiles loads the extended profiles of the latest IIQA form.
func (r *MetricRepository) Profiles(ctx context.Context) (criteria.Profiles, error) {
	query := `SELECT ` + extendedProfileColumns + ` FROM extended_profile WHERE iiqa_form_id = (` + latestFormQuery + `) ORDER BY year ASC`
	var rows []models.ExtendedProfile
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return criteria.Profiles{}, fmt.Errorf("load extended profiles: %w", err)
	}
	profiles := criteria.Profiles{ByYear: make(map[int]models.ExtendedProfile, len(rows))}
	for i := range rows {
		profiles.ByYear[rows[i].Year] = rows[i]
	}
	if len(rows) > 0 {
		latest := rows[len(rows)-1]
		profiles.Latest = &latest
	}
	return profiles, nil
}

// Headcount reads regular students and permanent plus other teachers from the latest IIQA form.
func (r *MetricRepository) Headcount(ctx context.Context) (criteria.Headcount, error) {
	query := `SELECT s.regular_male + s.regular_female + s.regular_trans AS students,
t.perm_male + t.perm_female + t.perm_trans + t.other_male + t.other_female + t.other_trans AS teachers
FROM iiqa_student_details s JOIN iiqa_staff_details t ON t.iiqa_form_id = s.iiqa_form_id
WHERE s.iiqa_form_id = (` + latestFormQuery + `)`
	var h struct {
		Students float64 `db:"students"`
		Teachers float64 `db:"teachers"`
	}
	if err := r.db.GetContext(ctx, &h, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return criteria.Headcount{}, fmt.Errorf("%w: iiqa staff and student details", criteria.ErrReferenceMissing)
		}
		return criteria.Headcount{}, fmt.Errorf("load iiqa headcount: %w", err)
	}
	return criteria.Headcount{Students: h.Students, Teachers: h.Teachers}, nil
}

// ProgrammeTotal sums every programme level of the latest IIQA form.
func (r *MetricRepository) ProgrammeTotal(ctx context.Context) (float64, error) {
	query := `SELECT ug + pg + post_masters + pre_doctoral + doctoral + post_doctoral + pg_diploma + diploma + certificate
FROM iiqa_programme_count WHERE iiqa_form_id = (` + latestFormQuery + `)`
	var total float64
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: iiqa programme count", criteria.ErrReferenceMissing)
		}
		return 0, fmt.Errorf("load programme total: %w", err)
	}
	return total, nil
}

// DepartmentCount counts the departments of the latest IIQA form.
func (r *MetricRepository) DepartmentCount(ctx context.Context) (float64, error) {
	query := `SELECT COUNT(*) FROM iiqa_departments WHERE iiqa_form_id = (` + latestFormQuery + `)`
	var total float64
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count iiqa departments: %w", err)
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: iiqa departments", criteria.ErrReferenceMissing)
	}
	return total, nil
}
