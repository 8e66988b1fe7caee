package models

import "time"

// IIQAStatus tracks the lifecycle of an IIQA form.
type IIQAStatus string

const (
	IIQAStatusDraft     IIQAStatus = "draft"
	IIQAStatusSubmitted IIQAStatus = "submitted"
)

// IIQAForm declares the assessment cycle an institution is reporting on.
type IIQAForm struct {
	ID               int64      `db:"id" json:"id"`
	InstitutionID    int64      `db:"institution_id" json:"institution_id"`
	SessionStartYear int        `db:"session_start_year" json:"session_start_year"`
	SessionEndYear   int        `db:"session_end_year" json:"session_end_year"`
	YearFilled       int        `db:"year_filled" json:"year_filled"`
	NAACCycle        int        `db:"naac_cycle" json:"naac_cycle"`
	DesiredGrade     string     `db:"desired_grade" json:"desired_grade"`
	HasMOU           bool       `db:"has_mou" json:"has_mou"`
	MOUFileURL       *string    `db:"mou_file_url" json:"mou_file_url,omitempty"`
	Status           IIQAStatus `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// IIQAProgrammeCount is the number of programmes offered per level.
type IIQAProgrammeCount struct {
	IIQAFormID   int64 `db:"iiqa_form_id" json:"iiqa_form_id"`
	UG           int   `db:"ug" json:"ug"`
	PG           int   `db:"pg" json:"pg"`
	PostMasters  int   `db:"post_masters" json:"post_masters"`
	PreDoctoral  int   `db:"pre_doctoral" json:"pre_doctoral"`
	Doctoral     int   `db:"doctoral" json:"doctoral"`
	PostDoctoral int   `db:"post_doctoral" json:"post_doctoral"`
	PGDiploma    int   `db:"pg_diploma" json:"pg_diploma"`
	Diploma      int   `db:"diploma" json:"diploma"`
	Certificate  int   `db:"certificate" json:"certificate"`
}

// Total sums every programme level.
func (p IIQAProgrammeCount) Total() int {
	return p.UG + p.PG + p.PostMasters + p.PreDoctoral + p.Doctoral + p.PostDoctoral + p.PGDiploma + p.Diploma + p.Certificate
}

// IIQADepartment is one department row of an IIQA form.
type IIQADepartment struct {
	ID                int64  `db:"id" json:"id"`
	IIQAFormID        int64  `db:"iiqa_form_id" json:"iiqa_form_id"`
	Department        string `db:"department" json:"department"`
	Program           string `db:"program" json:"program"`
	University        string `db:"university" json:"university"`
	AffiliationStatus string `db:"affiliation_status" json:"affiliation_status"`
}

// IIQAStaffDetails is the staff strength split by appointment and gender.
type IIQAStaffDetails struct {
	IIQAFormID  int64 `db:"iiqa_form_id" json:"iiqa_form_id"`
	PermMale    int   `db:"perm_male" json:"perm_male"`
	PermFemale  int   `db:"perm_female" json:"perm_female"`
	PermTrans   int   `db:"perm_trans" json:"perm_trans"`
	OtherMale   int   `db:"other_male" json:"other_male"`
	OtherFemale int   `db:"other_female" json:"other_female"`
	OtherTrans  int   `db:"other_trans" json:"other_trans"`
	NonMale     int   `db:"non_male" json:"non_male"`
	NonFemale   int   `db:"non_female" json:"non_female"`
	NonTrans    int   `db:"non_trans" json:"non_trans"`
}

// Teachers counts permanent and other teaching staff.
func (s IIQAStaffDetails) Teachers() int {
	return s.PermMale + s.PermFemale + s.PermTrans + s.OtherMale + s.OtherFemale + s.OtherTrans
}

// IIQAStudentDetails is the regular student strength by gender.
type IIQAStudentDetails struct {
	IIQAFormID    int64 `db:"iiqa_form_id" json:"iiqa_form_id"`
	RegularMale   int   `db:"regular_male" json:"regular_male"`
	RegularFemale int   `db:"regular_female" json:"regular_female"`
	RegularTrans  int   `db:"regular_trans" json:"regular_trans"`
}

// Students counts regular students.
func (s IIQAStudentDetails) Students() int {
	return s.RegularMale + s.RegularFemale + s.RegularTrans
}

// IIQAFormDetails bundles a form with its child rows.
type IIQAFormDetails struct {
	IIQAForm
	ProgrammeCount *IIQAProgrammeCount `json:"programme_count,omitempty"`
	Departments    []IIQADepartment    `json:"departments"`
	StaffDetails   *IIQAStaffDetails   `json:"staff_details,omitempty"`
	StudentDetails *IIQAStudentDetails `json:"student_details,omitempty"`
}

// IIQASession is one distinct reporting cycle.
type IIQASession struct {
	SessionStartYear int    `db:"session_start_year" json:"session_start_year"`
	SessionEndYear   int    `db:"session_end_year" json:"session_end_year"`
	YearFilled       int    `db:"year_filled" json:"year_filled"`
	DesiredGrade     string `db:"desired_grade" json:"desired_grade"`
}

// AssessmentCycle is the part of the latest IIQA form that submissions and scoring depend on.
type AssessmentCycle struct {
	FormID           int64  `json:"form_id"`
	InstitutionID    int64  `json:"institution_id"`
	SessionStartYear int    `json:"session_start_year"`
	SessionEndYear   int    `json:"session_end_year"`
	YearFilled       int    `json:"year_filled"`
	NAACCycle        int    `json:"naac_cycle"`
	DesiredGrade     string `json:"desired_grade"`
}
