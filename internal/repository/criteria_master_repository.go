package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/naac-sar-api/internal/models"
)

const criteriaMasterColumns = `id, criteria_code, criterion_id, sub_criterion_id, sub_sub_criterion_id, criterion_name,
sub_criterion_name, sub_sub_criterion_name, criteria_type, requirements, last_reviewed, created_at, updated_at`

// CriteriaMasterRepository persists the NAAC metric reference rows.
type CriteriaMasterRepository struct {
	db *sqlx.DB
}

// NewCriteriaMasterRepository constructs the repository.
func NewCriteriaMasterRepository(db *sqlx.DB) *CriteriaMasterRepository {
	return &CriteriaMasterRepository{db: db}
}

// List returns criteria ordered by their hierarchical id.
func (r *CriteriaMasterRepository) List(ctx context.Context, filter models.CriteriaMasterFilter) ([]models.CriteriaMaster, error) {
	query := `SELECT ` + criteriaMasterColumns + ` FROM criteria_master`
	var args []interface{}
	if filter.CriterionID != "" {
		query += ` WHERE criterion_id = $1`
		args = append(args, filter.CriterionID)
	}
	query += ` ORDER BY sub_sub_criterion_id ASC, id ASC`
	var items []models.CriteriaMaster
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list criteria master: %w", err)
	}
	return items, nil
}

// FindByCode fetches the row stamped with code.
func (r *CriteriaMasterRepository) FindByCode(ctx context.Context, code string) (*models.CriteriaMaster, error) {
	query := `SELECT ` + criteriaMasterColumns + ` FROM criteria_master WHERE criteria_code = $1`
	var item models.CriteriaMaster
	if err := r.db.GetContext(ctx, &item, query, code); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByID fetches a row by primary key.
func (r *CriteriaMasterRepository) FindByID(ctx context.Context, id int64) (*models.CriteriaMaster, error) {
	query := `SELECT ` + criteriaMasterColumns + ` FROM criteria_master WHERE id = $1`
	var item models.CriteriaMaster
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByCodes returns rows keyed by criteria_code. Missing codes are absent from the map.
func (r *CriteriaMasterRepository) FindByCodes(ctx context.Context, codes []string) (map[string]models.CriteriaMaster, error) {
	result := make(map[string]models.CriteriaMaster, len(codes))
	if len(codes) == 0 {
		return result, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM criteria_master WHERE criteria_code IN (%s)`, criteriaMasterColumns, placeholders(len(codes)))
	args := make([]interface{}, len(codes))
	for i, c := range codes {
		args[i] = c
	}
	var items []models.CriteriaMaster
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("find criteria by codes: %w", err)
	}
	for _, item := range items {
		result[item.CriteriaCode] = item
	}
	return result, nil
}

// Create inserts a criteria row and fills its id.
func (r *CriteriaMasterRepository) Create(ctx context.Context, item *models.CriteriaMaster) error {
	const query = `INSERT INTO criteria_master (criteria_code, criterion_id, sub_criterion_id, sub_sub_criterion_id,
criterion_name, sub_criterion_name, sub_sub_criterion_name, criteria_type, requirements, last_reviewed, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := r.db.QueryRowxContext(ctx, query,
		item.CriteriaCode, item.CriterionID, item.SubCriterionID, item.SubSubCriterionID,
		item.CriterionName, item.SubCriterionName, item.SubSubCriterionName, item.CriteriaType,
		item.Requirements, item.LastReviewed, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID); err != nil {
		return fmt.Errorf("create criteria master: %w", err)
	}
	return nil
}

// Update rewrites the descriptive columns of a row.
func (r *CriteriaMasterRepository) Update(ctx context.Context, item *models.CriteriaMaster) error {
	const query = `UPDATE criteria_master SET criterion_name = :criterion_name, sub_criterion_name = :sub_criterion_name,
sub_sub_criterion_name = :sub_sub_criterion_name, criteria_type = :criteria_type, requirements = :requirements,
last_reviewed = :last_reviewed, updated_at = :updated_at WHERE id = :id`
	item.UpdatedAt = time.Now().UTC()
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update criteria master: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a row by id.
func (r *CriteriaMasterRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM criteria_master WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete criteria master: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
