package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/naac-sar-api/internal/models"
)

const extendedProfileColumns = `id, iiqa_form_id, year, number_of_courses_offered, total_students, reserved_category_seats,
outgoing_final_year_students, full_time_teachers, sanctioned_posts, total_classrooms, total_seminar_halls,
total_computers, expenditure_in_lakhs, created_at, updated_at`

// ExtendedProfileRepository persists yearly extended profiles.
type ExtendedProfileRepository struct {
	db *sqlx.DB
}

// NewExtendedProfileRepository constructs the repository.
func NewExtendedProfileRepository(db *sqlx.DB) *ExtendedProfileRepository {
	return &ExtendedProfileRepository{db: db}
}

// Upsert writes the profile keyed by (iiqa_form_id, year).
func (r *ExtendedProfileRepository) Upsert(ctx context.Context, p *models.ExtendedProfile) (bool, error) {
	const query = `INSERT INTO extended_profile (iiqa_form_id, year, number_of_courses_offered, total_students,
reserved_category_seats, outgoing_final_year_students, full_time_teachers, sanctioned_posts, total_classrooms,
total_seminar_halls, total_computers, expenditure_in_lakhs, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
ON CONFLICT (iiqa_form_id, year)
DO UPDATE SET number_of_courses_offered = EXCLUDED.number_of_courses_offered, total_students = EXCLUDED.total_students,
              reserved_category_seats = EXCLUDED.reserved_category_seats,
              outgoing_final_year_students = EXCLUDED.outgoing_final_year_students,
              full_time_teachers = EXCLUDED.full_time_teachers, sanctioned_posts = EXCLUDED.sanctioned_posts,
              total_classrooms = EXCLUDED.total_classrooms, total_seminar_halls = EXCLUDED.total_seminar_halls,
              total_computers = EXCLUDED.total_computers, expenditure_in_lakhs = EXCLUDED.expenditure_in_lakhs,
              updated_at = EXCLUDED.updated_at
RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`
	var created bool
	if err := r.db.QueryRowxContext(ctx, query,
		p.IIQAFormID, p.Year, p.NumberOfCoursesOffered, p.TotalStudents, p.ReservedCategorySeats,
		p.OutgoingFinalYearStudents, p.FullTimeTeachers, p.SanctionedPosts, p.TotalClassrooms,
		p.TotalSeminarHalls, p.TotalComputers, p.ExpenditureInLakhs, time.Now().UTC(),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &created); err != nil {
		return false, fmt.Errorf("upsert extended profile: %w", err)
	}
	return created, nil
}

// ListByForm returns the profiles of a form ordered by year, optionally for one year only.
func (r *ExtendedProfileRepository) ListByForm(ctx context.Context, formID int64, year int) ([]models.ExtendedProfile, error) {
	query := `SELECT ` + extendedProfileColumns + ` FROM extended_profile WHERE iiqa_form_id = $1`
	args := []interface{}{formID}
	if year > 0 {
		query += ` AND year = $2`
		args = append(args, year)
	}
	query += ` ORDER BY year ASC`
	var profiles []models.ExtendedProfile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("list extended profiles: %w", err)
	}
	return profiles, nil
}
