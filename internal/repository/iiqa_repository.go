package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/naac-sar-api/internal/models"
)

const iiqaFormColumns = `id, institution_id, session_start_year, session_end_year, year_filled, naac_cycle,
desired_grade, has_mou, mou_file_url, status, created_at, updated_at`

// IIQARepository persists IIQA forms and their detail rows.
type IIQARepository struct {
	db *sqlx.DB
}

// NewIIQARepository constructs the repository.
func NewIIQARepository(db *sqlx.DB) *IIQARepository {
	return &IIQARepository{db: db}
}

// Latest returns the most recently created form.
func (r *IIQARepository) Latest(ctx context.Context) (*models.IIQAForm, error) {
	query := `SELECT ` + iiqaFormColumns + ` FROM iiqa_form ORDER BY created_at DESC, id DESC LIMIT 1`
	var form models.IIQAForm
	if err := r.db.GetContext(ctx, &form, query); err != nil {
		return nil, err
	}
	return &form, nil
}

// Sessions lists the distinct reporting cycles, newest first.
func (r *IIQARepository) Sessions(ctx context.Context) ([]models.IIQASession, error) {
	const query = `SELECT DISTINCT session_start_year, session_end_year, year_filled, desired_grade
FROM iiqa_form ORDER BY year_filled DESC, session_end_year DESC`
	var sessions []models.IIQASession
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list iiqa sessions: %w", err)
	}
	return sessions, nil
}

// Details loads the child rows of a form. Missing 1:1 rows are left nil.
func (r *IIQARepository) Details(ctx context.Context, form models.IIQAForm) (*models.IIQAFormDetails, error) {
	details := &models.IIQAFormDetails{IIQAForm: form, Departments: []models.IIQADepartment{}}

	var programmes models.IIQAProgrammeCount
	err := r.db.GetContext(ctx, &programmes, `SELECT iiqa_form_id, ug, pg, post_masters, pre_doctoral, doctoral,
post_doctoral, pg_diploma, diploma, certificate FROM iiqa_programme_count WHERE iiqa_form_id = $1`, form.ID)
	switch {
	case err == nil:
		details.ProgrammeCount = &programmes
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("get iiqa programme count: %w", err)
	}

	var staff models.IIQAStaffDetails
	err = r.db.GetContext(ctx, &staff, `SELECT iiqa_form_id, perm_male, perm_female, perm_trans, other_male,
other_female, other_trans, non_male, non_female, non_trans FROM iiqa_staff_details WHERE iiqa_form_id = $1`, form.ID)
	switch {
	case err == nil:
		details.StaffDetails = &staff
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("get iiqa staff details: %w", err)
	}

	var students models.IIQAStudentDetails
	err = r.db.GetContext(ctx, &students, `SELECT iiqa_form_id, regular_male, regular_female, regular_trans
FROM iiqa_student_details WHERE iiqa_form_id = $1`, form.ID)
	switch {
	case err == nil:
		details.StudentDetails = &students
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("get iiqa student details: %w", err)
	}

	if err := r.db.SelectContext(ctx, &details.Departments, `SELECT id, iiqa_form_id, department, program, university,
affiliation_status FROM iiqa_departments WHERE iiqa_form_id = $1 ORDER BY id ASC`, form.ID); err != nil {
		return nil, fmt.Errorf("list iiqa departments: %w", err)
	}
	return details, nil
}

// Save upserts a form on its natural key together with every detail row in one transaction.
// Departments are replaced wholesale.
func (r *IIQARepository) Save(ctx context.Context, details *models.IIQAFormDetails) (created bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin iiqa tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	form := &details.IIQAForm
	const upsertForm = `INSERT INTO iiqa_form (institution_id, session_start_year, session_end_year, year_filled, naac_cycle,
desired_grade, has_mou, mou_file_url, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
ON CONFLICT (institution_id, session_start_year, session_end_year, year_filled)
DO UPDATE SET naac_cycle = EXCLUDED.naac_cycle, desired_grade = EXCLUDED.desired_grade, has_mou = EXCLUDED.has_mou,
              mou_file_url = EXCLUDED.mou_file_url, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`
	if err = tx.QueryRowxContext(ctx, upsertForm,
		form.InstitutionID, form.SessionStartYear, form.SessionEndYear, form.YearFilled, form.NAACCycle,
		form.DesiredGrade, form.HasMOU, form.MOUFileURL, form.Status, now,
	).Scan(&form.ID, &form.CreatedAt, &form.UpdatedAt, &created); err != nil {
		return false, fmt.Errorf("upsert iiqa form: %w", err)
	}

	if p := details.ProgrammeCount; p != nil {
		p.IIQAFormID = form.ID
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO iiqa_programme_count (iiqa_form_id, ug, pg, post_masters,
pre_doctoral, doctoral, post_doctoral, pg_diploma, diploma, certificate)
VALUES (:iiqa_form_id, :ug, :pg, :post_masters, :pre_doctoral, :doctoral, :post_doctoral, :pg_diploma, :diploma, :certificate)
ON CONFLICT (iiqa_form_id) DO UPDATE SET ug = EXCLUDED.ug, pg = EXCLUDED.pg, post_masters = EXCLUDED.post_masters,
pre_doctoral = EXCLUDED.pre_doctoral, doctoral = EXCLUDED.doctoral, post_doctoral = EXCLUDED.post_doctoral,
pg_diploma = EXCLUDED.pg_diploma, diploma = EXCLUDED.diploma, certificate = EXCLUDED.certificate`, p); err != nil {
			return false, fmt.Errorf("upsert iiqa programme count: %w", err)
		}
	}

	if s := details.StaffDetails; s != nil {
		s.IIQAFormID = form.ID
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO iiqa_staff_details (iiqa_form_id, perm_male, perm_female,
perm_trans, other_male, other_female, other_trans, non_male, non_female, non_trans)
VALUES (:iiqa_form_id, :perm_male, :perm_female, :perm_trans, :other_male, :other_female, :other_trans, :non_male, :non_female, :non_trans)
ON CONFLICT (iiqa_form_id) DO UPDATE SET perm_male = EXCLUDED.perm_male, perm_female = EXCLUDED.perm_female,
perm_trans = EXCLUDED.perm_trans, other_male = EXCLUDED.other_male, other_female = EXCLUDED.other_female,
other_trans = EXCLUDED.other_trans, non_male = EXCLUDED.non_male, non_female = EXCLUDED.non_female,
non_trans = EXCLUDED.non_trans`, s); err != nil {
			return false, fmt.Errorf("upsert iiqa staff details: %w", err)
		}
	}

	if s := details.StudentDetails; s != nil {
		s.IIQAFormID = form.ID
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO iiqa_student_details (iiqa_form_id, regular_male,
regular_female, regular_trans) VALUES (:iiqa_form_id, :regular_male, :regular_female, :regular_trans)
ON CONFLICT (iiqa_form_id) DO UPDATE SET regular_male = EXCLUDED.regular_male,
regular_female = EXCLUDED.regular_female, regular_trans = EXCLUDED.regular_trans`, s); err != nil {
			return false, fmt.Errorf("upsert iiqa student details: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM iiqa_departments WHERE iiqa_form_id = $1`, form.ID); err != nil {
		return false, fmt.Errorf("clear iiqa departments: %w", err)
	}
	for i := range details.Departments {
		d := &details.Departments[i]
		d.IIQAFormID = form.ID
		if err = tx.QueryRowxContext(ctx, `INSERT INTO iiqa_departments (iiqa_form_id, department, program, university,
affiliation_status) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			d.IIQAFormID, d.Department, d.Program, d.University, d.AffiliationStatus,
		).Scan(&d.ID); err != nil {
			return false, fmt.Errorf("insert iiqa department: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit iiqa tx: %w", err)
	}
	return created, nil
}
