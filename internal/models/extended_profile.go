package models

import "time"

// ExtendedProfile holds the yearly institutional figures used as scoring denominators.
type ExtendedProfile struct {
	ID                        int64     `db:"id" json:"id"`
	IIQAFormID                int64     `db:"iiqa_form_id" json:"iiqa_form_id"`
	Year                      int       `db:"year" json:"year"`
	NumberOfCoursesOffered    int       `db:"number_of_courses_offered" json:"number_of_courses_offered"`
	TotalStudents             int       `db:"total_students" json:"total_students"`
	ReservedCategorySeats     int       `db:"reserved_category_seats" json:"reserved_category_seats"`
	OutgoingFinalYearStudents int       `db:"outgoing_final_year_students" json:"outgoing_final_year_students"`
	FullTimeTeachers          int       `db:"full_time_teachers" json:"full_time_teachers"`
	SanctionedPosts           int       `db:"sanctioned_posts" json:"sanctioned_posts"`
	TotalClassrooms           int       `db:"total_classrooms" json:"total_classrooms"`
	TotalSeminarHalls         int       `db:"total_seminar_halls" json:"total_seminar_halls"`
	TotalComputers            int       `db:"total_computers" json:"total_computers"`
	ExpenditureInLakhs        float64   `db:"expenditure_in_lakhs" json:"expenditure_in_lakhs"`
	CreatedAt                 time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time `db:"updated_at" json:"updated_at"`
}
