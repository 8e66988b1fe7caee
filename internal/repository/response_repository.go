package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
	"github.com/noah-isme/naac-sar-api/internal/models"
	"github.com/noah-isme/naac-sar-api/pkg/database"
)

// ErrDuplicateResponse is returned when a reject-policy target already holds the natural key.
var ErrDuplicateResponse = errors.New("duplicate response")

const insertedColumn = "inserted"

// ResponseInsert is one row bound for a criterion response table.
type ResponseInsert struct {
	Code             criteria.Code
	CriteriaMasterID int64
	Columns          []string
	Values           []interface{}
	Key              []string
	Policy           criteria.Policy
}

// ResponseRepository writes and reads the per-criterion response tables.
type ResponseRepository struct {
	db *sqlx.DB
}

// NewResponseRepository constructs the repository.
func NewResponseRepository(db *sqlx.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

type queryer interface {
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

// Write stores every insert. More than one insert runs in a single transaction.
func (r *ResponseRepository) Write(ctx context.Context, inserts []ResponseInsert) ([]models.ResponseWrite, error) {
	if len(inserts) == 1 {
		w, err := writeOne(ctx, r.db, inserts[0])
		if err != nil {
			return nil, err
		}
		return []models.ResponseWrite{w}, nil
	}

	results := make([]models.ResponseWrite, 0, len(inserts))
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, ins := range inserts {
			w, err := writeOne(ctx, tx, ins)
			if err != nil {
				return err
			}
			results = append(results, w)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func buildInsert(ins ResponseInsert) (string, []interface{}, error) {
	table, err := ident(ins.Code.Table())
	if err != nil {
		return "", nil, err
	}
	cols, err := idents(ins.Columns)
	if err != nil {
		return "", nil, err
	}
	if len(cols) != len(ins.Values) {
		return "", nil, fmt.Errorf("response %s: %d columns for %d values", ins.Code, len(cols), len(ins.Values))
	}

	now := time.Now().UTC()
	allCols := append(append([]string{}, cols...), "criteria_master_id", "criteria_code", "submitted_at", "updated_at")
	args := append(append([]interface{}{}, ins.Values...), ins.CriteriaMasterID, ins.Code.String(), now, now)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(allCols, ", "), placeholders(len(args)))
	if ins.Policy == criteria.Reject {
		query += " ON CONFLICT DO NOTHING"
		return query + " RETURNING *, true AS " + insertedColumn, args, nil
	}

	keys := make([]string, len(ins.Key))
	keySet := map[string]bool{}
	for i, k := range ins.Key {
		expr, err := keyExpr(k)
		if err != nil {
			return "", nil, err
		}
		keys[i] = expr
		keySet[criteria.KeyColumn(k)] = true
	}
	var sets []string
	for _, c := range cols {
		if !keySet[c] {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	sets = append(sets, "criteria_master_id = EXCLUDED.criteria_master_id", "updated_at = EXCLUDED.updated_at")
	query += fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", strings.Join(keys, ", "), strings.Join(sets, ", "))
	return query + " RETURNING *, (xmax = 0) AS " + insertedColumn, args, nil
}

func writeOne(ctx context.Context, q queryer, ins ResponseInsert) (models.ResponseWrite, error) {
	query, args, err := buildInsert(ins)
	if err != nil {
		return models.ResponseWrite{}, err
	}
	row := map[string]interface{}{}
	if err := q.QueryRowxContext(ctx, query, args...).MapScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ResponseWrite{}, fmt.Errorf("%s: %w", ins.Code, ErrDuplicateResponse)
		}
		if database.IsUniqueViolation(err) {
			return models.ResponseWrite{}, fmt.Errorf("%s: %w", ins.Code, ErrDuplicateResponse)
		}
		return models.ResponseWrite{}, fmt.Errorf("write response %s: %w", ins.Code, err)
	}
	created, _ := row[insertedColumn].(bool)
	delete(row, insertedColumn)
	return models.ResponseWrite{CriteriaCode: ins.Code.String(), Created: created, Row: normaliseRow(row)}, nil
}

// Update rewrites the columns of the row with sl_no in code's table.
func (r *ResponseRepository) Update(ctx context.Context, code criteria.Code, slNo int64, columns []string, values []interface{}) (models.ResponseRow, error) {
	table, err := ident(code.Table())
	if err != nil {
		return nil, err
	}
	cols, err := idents(columns)
	if err != nil {
		return nil, err
	}
	sets := make([]string, len(cols))
	args := make([]interface{}, 0, len(cols)+2)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
		args = append(args, values[i])
	}
	args = append(args, time.Now().UTC(), slNo)
	query := fmt.Sprintf("UPDATE %s SET %s, updated_at = $%d WHERE sl_no = $%d RETURNING *",
		table, strings.Join(sets, ", "), len(cols)+1, len(cols)+2)

	row := map[string]interface{}{}
	if err := r.db.QueryRowxContext(ctx, query, args...).MapScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", code, ErrDuplicateResponse)
		}
		return nil, fmt.Errorf("update response %s: %w", code, err)
	}
	return models.ResponseRow(normaliseRow(row)), nil
}

// List returns the rows stamped with code, newest session first.
func (r *ResponseRepository) List(ctx context.Context, code criteria.Code, filter models.ResponseFilter) ([]models.ResponseRow, int, error) {
	table, err := ident(code.Table())
	if err != nil {
		return nil, 0, err
	}
	where := "WHERE criteria_code = $1"
	args := []interface{}{code.String()}
	if filter.Session > 0 {
		where += " AND session = $2"
		args = append(args, filter.Session)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM %s %s", table, where), args...); err != nil {
		return nil, 0, fmt.Errorf("count responses %s: %w", code, err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	query := fmt.Sprintf("SELECT * FROM %s %s ORDER BY session DESC, sl_no DESC LIMIT %d OFFSET %d", table, where, size, (page-1)*size)
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list responses %s: %w", code, err)
	}
	defer rows.Close()

	result := []models.ResponseRow{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, 0, fmt.Errorf("scan response %s: %w", code, err)
		}
		result = append(result, models.ResponseRow(normaliseRow(row)))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate responses %s: %w", code, err)
	}
	return result, total, nil
}
