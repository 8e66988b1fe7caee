package dto

// IIQADepartmentRequest is one department offered by the institution.
type IIQADepartmentRequest struct {
	Department        string `json:"department" validate:"required"`
	Program           string `json:"program" validate:"required"`
	University        string `json:"university" validate:"required"`
	AffiliationStatus string `json:"affiliation_status" validate:"required"`
}

// IIQAProgrammeCountRequest counts programmes per level.
type IIQAProgrammeCountRequest struct {
	UG           int `json:"ug" validate:"gte=0"`
	PG           int `json:"pg" validate:"gte=0"`
	PostMasters  int `json:"post_masters" validate:"gte=0"`
	PreDoctoral  int `json:"pre_doctoral" validate:"gte=0"`
	Doctoral     int `json:"doctoral" validate:"gte=0"`
	PostDoctoral int `json:"post_doctoral" validate:"gte=0"`
	PGDiploma    int `json:"pg_diploma" validate:"gte=0"`
	Diploma      int `json:"diploma" validate:"gte=0"`
	Certificate  int `json:"certificate" validate:"gte=0"`
}

// IIQAStaffRequest is the staff strength by appointment and gender.
type IIQAStaffRequest struct {
	PermMale    int `json:"perm_male" validate:"gte=0"`
	PermFemale  int `json:"perm_female" validate:"gte=0"`
	PermTrans   int `json:"perm_trans" validate:"gte=0"`
	OtherMale   int `json:"other_male" validate:"gte=0"`
	OtherFemale int `json:"other_female" validate:"gte=0"`
	OtherTrans  int `json:"other_trans" validate:"gte=0"`
	NonMale     int `json:"non_male" validate:"gte=0"`
	NonFemale   int `json:"non_female" validate:"gte=0"`
	NonTrans    int `json:"non_trans" validate:"gte=0"`
}

// IIQAStudentRequest is the regular student strength by gender.
type IIQAStudentRequest struct {
	RegularMale   int `json:"regular_male" validate:"gte=0"`
	RegularFemale int `json:"regular_female" validate:"gte=0"`
	RegularTrans  int `json:"regular_trans" validate:"gte=0"`
}

// CreateIIQARequest is the payload of POST /iiqa/createIIQAForm.
type CreateIIQARequest struct {
	InstitutionID    int64                      `json:"institution_id" validate:"required,gt=0"`
	SessionStartYear int                        `json:"session_start_year" validate:"required,gte=1990"`
	SessionEndYear   int                        `json:"session_end_year" validate:"required,gtfield=SessionStartYear"`
	YearFilled       int                        `json:"year_filled" validate:"required,gte=1990"`
	NAACCycle        int                        `json:"naac_cycle" validate:"required,gte=1"`
	DesiredGrade     string                     `json:"desired_grade" validate:"required"`
	HasMOU           *bool                      `json:"has_mou" validate:"required"`
	MOUFileURL       string                     `json:"mou_file_url" validate:"omitempty,url"`
	Status           string                     `json:"status" validate:"omitempty,oneof=draft submitted"`
	ProgrammeCount   *IIQAProgrammeCountRequest `json:"programme_count" validate:"omitempty"`
	Departments      []IIQADepartmentRequest    `json:"departments" validate:"required,min=1,dive"`
	StaffDetails     *IIQAStaffRequest          `json:"staff_details" validate:"omitempty"`
	StudentDetails   *IIQAStudentRequest        `json:"student_details" validate:"omitempty"`
}
