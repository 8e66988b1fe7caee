package dto

// CreateExtendedProfileRequest is the payload of POST /extendedprofile/createExtendedProfile.
type CreateExtendedProfileRequest struct {
	Year                      int     `json:"year" validate:"required,gte=1990"`
	NumberOfCoursesOffered    int     `json:"number_of_courses_offered" validate:"gte=0"`
	TotalStudents             int     `json:"total_students" validate:"gte=0"`
	ReservedCategorySeats     int     `json:"reserved_category_seats" validate:"gte=0"`
	OutgoingFinalYearStudents int     `json:"outgoing_final_year_students" validate:"gte=0"`
	FullTimeTeachers          int     `json:"full_time_teachers" validate:"gte=0"`
	SanctionedPosts           int     `json:"sanctioned_posts" validate:"gte=0"`
	TotalClassrooms           int     `json:"total_classrooms" validate:"gte=0"`
	TotalSeminarHalls         int     `json:"total_seminar_halls" validate:"gte=0"`
	TotalComputers            int     `json:"total_computers" validate:"gte=0"`
	ExpenditureInLakhs        float64 `json:"expenditure_in_lakhs" validate:"gte=0"`
}
