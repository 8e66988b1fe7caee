package criteria

import "strings"

func text(name string) Field    { return Field{Name: name, Kind: KindString, Required: true} }
func optText(name string) Field { return Field{Name: name, Kind: KindString} }
func year(name string) Field    { return Field{Name: name, Kind: KindYear, Required: true} }
func optYear(name string) Field { return Field{Name: name, Kind: KindYear} }
func count(name string) Field   { return Field{Name: name, Kind: KindInt, Required: true} }
func amount(name string) Field  { return Field{Name: name, Kind: KindNumber, Required: true} }
func option(name string) Field  { return Field{Name: name, Kind: KindOption, Required: true} }
func date(name string) Field    { return Field{Name: name, Kind: KindDate, Required: true} }
func yesNo(name string) Field   { return Field{Name: name, Kind: KindYesNo, Required: true} }
func email(name string) Field   { return Field{Name: name, Kind: KindEmail, Required: true} }

func examCount(name string) Field {
	return Field{Name: name, Kind: KindInt, Default: int64(0)}
}

func key(columns ...string) []string {
	return append([]string{SessionField}, columns...)
}

func single(code Code, policy Policy, natural ...string) []Target {
	return []Target{{Code: code, Key: key(natural...), Policy: policy}}
}

// criterion 7 forms accept the upcoming session.
func seventh(f Form) Form {
	f.Criterion = 7
	f.SessionFloor = 2000
	f.SessionLead = 1
	return f
}

var examColumns = []string{
	"exam_net", "exam_slet", "exam_gate", "exam_gmat", "exam_cat", "exam_gre",
	"exam_jam", "exam_ielts", "exam_toefl", "exam_civil_services", "exam_state_services", "exam_other",
}

func examFields() []Field {
	fields := []Field{year("year"), text("registeration_number")}
	for _, c := range examColumns {
		fields = append(fields, examCount(c))
	}
	return fields
}

var teacherFields = []Field{
	text("name_of_the_full_time_teacher"),
	text("designation"),
	year("year_of_appointment"),
	text("nature_of_appointment"),
	text("name_of_department"),
	amount("total_number_of_years_of_experience_in_the_same_institution"),
	yesNo("is_the_teacher_still_serving_the_institution"),
}

var teacherKey = key("year_of_appointment", "lower(name_of_the_full_time_teacher)", "designation", "name_of_department")

var registry = []Form{
	// Criterion 1: curricular aspects.
	{Criterion: 1, Suffix: "113",
		Fields:  []Field{year("year"), text("teacher_name"), text("body_name"), option("option_selected")},
		Targets: single("1.1.3", Upsert, "year", "teacher_name", "body_name")},
	{Criterion: 1, Suffix: "121",
		Fields: []Field{
			text("programme_code"), text("programme_name"), year("year_of_introduction"),
			yesNo("status_of_implementation_of_cbcs"), year("year_of_implementation_of_cbcs"),
			year("year_of_revision"), amount("prc_content_added"),
		},
		Targets: []Target{{Code: "1.2.1", Key: key("programme_code"), Unique: [][]string{key("programme_name")}, Policy: Reject}}},
	{Criterion: 1, Suffix: "122_123",
		Fields: []Field{
			text("program_name"), text("course_code"), year("year_of_offering"), count("no_of_times_offered"),
			count("duration"), count("no_of_students_enrolled"), count("no_of_students_completed"),
		},
		Checks: []Check{NotGreater("no_of_students_completed", "no_of_students_enrolled")},
		Targets: []Target{
			{Code: "1.2.2", Key: key("year_of_offering", "program_name", "course_code"), Policy: Upsert},
			{Code: "1.2.3", Key: key("year_of_offering", "program_name", "course_code"), Policy: Upsert},
		}},
	{Criterion: 1, Suffix: "132",
		Fields: []Field{
			text("program_name"), text("program_code"), text("course_name"), text("course_code"),
			year("year_of_offering"), text("student_name"),
		},
		Targets: single("1.3.2", Reject, "program_name", "program_code", "course_name", "course_code", "year_of_offering", "student_name")},
	{Criterion: 1, Suffix: "133",
		Fields:  []Field{text("program_name"), text("program_code"), text("student_name")},
		Targets: single("1.3.3", Reject, "program_name", "student_name")},
	{Criterion: 1, Suffix: "141", Fields: []Field{option("option_selected")}, Targets: single("1.4.1", Upsert)},
	{Criterion: 1, Suffix: "142", Fields: []Field{option("option_selected")}, Targets: single("1.4.2", Upsert)},

	// Criterion 2: teaching-learning and evaluation.
	{Criterion: 2, Suffix: "211",
		Fields: []Field{
			year("year"), text("programme_name"), text("programme_code"), count("no_of_seats"), count("no_of_students"),
		},
		Checks:  []Check{NotGreater("no_of_students", "no_of_seats")},
		Targets: single("2.1.1", Reject, "year", "programme_code")},
	{Criterion: 2, Suffix: "212",
		Fields: []Field{
			year("year"),
			count("number_of_seats_earmarked_for_reserved_category_as_per_goi"),
			count("number_of_students_admitted_from_the_reserved_category"),
		},
		Checks: []Check{NotGreater(
			"number_of_students_admitted_from_the_reserved_category",
			"number_of_seats_earmarked_for_reserved_category_as_per_goi",
		)},
		Targets: single("2.1.2", Upsert, "year")},
	{Criterion: 2, Suffix: "222_241_243",
		Fields: teacherFields,
		Targets: []Target{
			{Code: "2.2.2", Key: teacherKey, Policy: Upsert},
			{Code: "2.4.1", Key: teacherKey, Policy: Upsert},
			{Code: "2.4.3", Key: teacherKey, Policy: Upsert},
		}},
	{Criterion: 2, Suffix: "233",
		Fields:  []Field{year("year"), count("no_of_mentors"), count("no_of_mentees")},
		Targets: single("2.3.3", Reject)},
	{Criterion: 2, Suffix: "242",
		Fields: []Field{
			count("number_of_full_time_teachers"), text("qualification"),
			year("year_of_obtaining_the_qualification"), yesNo("whether_recognised_as_research_guide"),
			optYear("year_of_recognition_as_research_guide"),
		},
		Checks:  []Check{YearNotBefore("year_of_recognition_as_research_guide", "year_of_obtaining_the_qualification")},
		Targets: single("2.4.2", Upsert)},
	{Criterion: 2, Suffix: "263",
		Fields: []Field{
			year("year"), text("program_code"), text("program_name"),
			count("number_of_students_appeared_in_the_final_year_examination"),
			count("number_of_students_passed_in_the_final_year_examination"),
		},
		Checks: []Check{NotGreater(
			"number_of_students_passed_in_the_final_year_examination",
			"number_of_students_appeared_in_the_final_year_examination",
		)},
		Targets: single("2.6.3", Upsert, "year", "program_code")},
	{Criterion: 2, Suffix: "271",
		Fields: []Field{
			text("name_of_the_student"), text("gender"), text("category"), text("state_of_domicile"),
			optText("nationality_if_other_than_indian"), email("email_id"), text("program_name"),
			text("unique_enrolment_id_college_id"), text("mobile_number"), year("year_of_joining"),
		},
		Targets: single("2.7.1", Reject, "unique_enrolment_id_college_id")},

	// Criterion 3: research, innovations and extension.
	{Criterion: 3, Suffix: "311_312",
		Fields: []Field{
			year("year"), text("name_of_principal_investigator"), text("department_of_principal_investigator"),
			count("duration_of_project"),
			{Name: "type", Kind: KindEnum, Required: true, Values: []string{"Government", "Non Government"}},
			text("name_of_project"), year("year_of_award"), amount("amount_sanctioned"), text("name_of_funding_agency"),
		},
		Targets: []Target{
			{Code: "3.1.1", Key: key("name_of_project", "name_of_principal_investigator"), Policy: Upsert},
			{Code: "3.1.2", Key: key("name_of_project", "name_of_principal_investigator"), Policy: Upsert},
		}},
	{Criterion: 3, Suffix: "313",
		Fields: []Field{
			year("year"), text("workshop_name"), count("participants"), date("date_from"), date("date_to"),
		},
		Checks:  []Check{NotBefore("date_to", "date_from")},
		Targets: single("3.1.3", Upsert, "workshop_name", "date_from")},
	{Criterion: 3, Suffix: "321",
		Fields: []Field{
			text("paper_title"), text("author_names"), text("department"), text("journal_name"),
			year("year_of_publication"), text("issn_number"), optText("indexation_status"),
		},
		Targets: single("3.2.1", Reject, "paper_title", "journal_name")},
	{Criterion: 3, Suffix: "322",
		Fields: []Field{
			text("teacher_name"), text("book_chapter_title"), optText("paper_title"), optText("conference_title"),
			year("year_of_publication"), text("isbn_issn_number"), yesNo("institution_affiliated"), text("publisher_name"),
		},
		Targets: single("3.2.2", Reject, "teacher_name", "book_chapter_title", "isbn_issn_number")},
	{Criterion: 3, Suffix: "332",
		Fields:  []Field{text("activity_name"), text("award_name"), text("awarding_body"), year("year_of_award")},
		Targets: single("3.3.2", Reject, "activity_name", "award_name")},
	{Criterion: 3, Suffix: "333",
		Fields: []Field{
			year("year"), text("activity_name"), text("collaborating_agency"), text("scheme_name"),
			text("activity_type"), count("student_count"),
		},
		Targets: single("3.3.3", Upsert, "activity_name", "collaborating_agency")},
	{Criterion: 3, Suffix: "341",
		Fields: []Field{
			text("title_of_activity"), text("collaborating_agency"), text("participant_name"),
			year("year_of_collaboration"), count("duration"), optText("document_link"),
		},
		Targets: single("3.4.1", Reject, "title_of_activity", "collaborating_agency", "participant_name")},
	{Criterion: 3, Suffix: "342",
		Fields:  []Field{text("institution_name"), year("year_of_mou"), count("duration"), text("activities_list")},
		Targets: single("3.4.2", Reject, "institution_name", "year_of_mou")},

	// Criterion 4: infrastructure and learning resources.
	{Criterion: 4, Suffix: "413",
		Fields:  []Field{text("room_identifier"), text("typeict_facility")},
		Targets: single("4.1.3", Upsert, "room_identifier")},
	{Criterion: 4, Suffix: "414",
		Fields: []Field{
			year("year"), amount("budget_allocated_infra_aug"), amount("expenditure_infra_aug"),
			amount("total_expenditure_excl_salary"), amount("expenditure_academic_maint"), amount("expenditure_physical_maint"),
		},
		Checks:  []Check{NotGreater("expenditure_infra_aug", "total_expenditure_excl_salary")},
		Targets: single("4.1.4", Upsert, "year")},
	{Criterion: 4, Suffix: "422_423",
		Fields: []Field{
			year("year"), text("resource_type"), text("subscription_detail"), amount("expenditure_lakhs"), amount("total_expenditure"),
		},
		Checks: []Check{NotGreater("expenditure_lakhs", "total_expenditure")},
		Targets: []Target{
			{Code: "4.2.2", Key: key("year", "resource_type"), Policy: Upsert},
			{Code: "4.2.3", Key: key("year", "resource_type"), Policy: Upsert},
		}},
	{Criterion: 4, Suffix: "424",
		Fields:  []Field{count("no_of_teachers_stds"), count("total_teachers_stds")},
		Checks:  []Check{NotGreater("no_of_teachers_stds", "total_teachers_stds")},
		Targets: single("4.2.4", Upsert)},
	{Criterion: 4, Suffix: "432",
		Fields:  []Field{year("academic_year"), count("total_students"), count("working_computers")},
		Targets: single("4.3.2", Upsert, "academic_year")},
	{Criterion: 4, Suffix: "441",
		Fields: []Field{
			year("year"), amount("budget_allocated_infra"), amount("expenditure_infra_lakhs"),
			amount("total_exp_infra_lakhs"), amount("exp_maintainance_acad"), amount("exp_maintainance_physical"),
		},
		Targets: single("4.4.1", Upsert, "year")},

	// Criterion 5: student support and progression.
	{Criterion: 5, Suffix: "511_512",
		Fields: []Field{
			year("year"), text("scheme_name"),
			count("gov_students_count"), amount("gov_amount"),
			count("non_gov_students_count"), amount("non_gov_amount"),
			count("inst_students_count"), amount("inst_amount"),
		},
		Targets: []Target{
			{Code: "5.1.1", Columns: []string{"year", "scheme_name", "gov_students_count", "gov_amount", "non_gov_students_count", "non_gov_amount"},
				Key: key("year", "scheme_name"), Policy: Upsert},
			{Code: "5.1.2", Columns: []string{"year", "scheme_name", "inst_students_count", "inst_amount"},
				Key: key("year", "scheme_name"), Policy: Upsert},
		}},
	{Criterion: 5, Suffix: "513",
		Fields: []Field{
			text("program_name"), date("implementation_date"), count("students_enrolled"), text("agency_name"),
		},
		Targets: single("5.1.3", Reject, "program_name")},
	{Criterion: 5, Suffix: "514",
		Fields:  []Field{year("year"), text("activity_name"), count("students_participated")},
		Targets: single("5.1.4", Reject, "year", "activity_name")},
	{Criterion: 5, Suffix: "521",
		Fields: []Field{
			year("year"), text("student_name_contact"), text("program_graduated_from"),
			text("employer_details"), amount("pay_package_inr"),
		},
		Targets: single("5.2.1", Reject, "year", "student_name_contact")},
	{Criterion: 5, Suffix: "522",
		Fields: []Field{
			year("year"), text("student_name"), text("program_graduated_from"),
			text("institution_joined"), text("program_admitted_to"),
		},
		Targets: single("5.2.2", Reject, "year", "student_name")},
	{Criterion: 5, Suffix: "523",
		Fields:  examFields(),
		Checks:  []Check{AnyPositive(examColumns...)},
		Targets: single("5.2.3", Reject, "year", "registeration_number")},

	// Criterion 6: governance, leadership and management.
	{Criterion: 6, Suffix: "623",
		Fields:  []Field{option("implimentation"), text("area_of_e_governance"), year("year_of_implementation")},
		Targets: single("6.2.3", Upsert, "area_of_e_governance", "year_of_implementation")},
	{Criterion: 6, Suffix: "632",
		Fields: []Field{
			year("year"), text("teacher_name"), text("conference_name"), text("professional_body"), amount("amt_of_spt_received"),
		},
		Targets: single("6.3.2", Upsert, "teacher_name", "conference_name")},
	{Criterion: 6, Suffix: "633",
		Fields:  []Field{text("from_to_date"), text("title_of_prof_dev"), text("title_of_add_training")},
		Targets: single("6.3.3", Reject, "from_to_date", "title_of_prof_dev")},
	{Criterion: 6, Suffix: "634",
		Fields:  []Field{text("teacher_name"), text("program_title"), text("from_to_date")},
		Targets: single("6.3.4", Reject, "teacher_name", "program_title")},
	{Criterion: 6, Suffix: "642",
		Fields:  []Field{year("year"), text("donor_name"), amount("grant_amount_lakhs")},
		Targets: single("6.4.2", Reject, "year", "donor_name")},
	{Criterion: 6, Suffix: "653",
		Fields: []Field{
			option("initiative_type"), year("year"),
			optText("reg_meetings_of_the_iqac_head"), optText("conf_seminar_workshops_on_quality_edu"),
			optText("collab_quality_initiatives"), optText("participation_in_nirf"),
			optText("from_to_date"), optText("other_quality_audit"),
		},
		Targets: single("6.5.3", Upsert)},

	// Criterion 7: institutional values and best practices.
	seventh(Form{Suffix: "712",
		Fields:  []Field{option("facility_type"), optText("photo_link"), optText("additional_info")},
		Targets: single("7.1.2", Upsert)}),
	seventh(Form{Suffix: "714",
		Fields:  []Field{option("facility_type"), optText("photo_link"), optText("additional_info")},
		Targets: single("7.1.4", Upsert)}),
	seventh(Form{Suffix: "715",
		Fields:  []Field{option("initiative"), optText("photo_link"), optText("document_link")},
		Targets: single("7.1.5", Upsert)}),
	seventh(Form{Suffix: "716",
		Fields:  []Field{option("audit_type"), optText("report_link"), optText("certification"), optText("additional_info")},
		Targets: single("7.1.6", Upsert)}),
	seventh(Form{Suffix: "717",
		Fields:  []Field{option("feature"), optText("photo_link"), optText("support_document"), optText("software_used")},
		Targets: single("7.1.7", Upsert)}),
	seventh(Form{Suffix: "7110",
		Fields: []Field{
			option("options"), optYear("year"), optText("code_published"), optText("monitoring_committee"),
			optText("ethics_programs"), optText("awareness_programs"), optText("additional_info"),
		},
		Targets: single("7.1.10", Upsert)}),
}

// Forms returns every registered submission form.
func Forms() []Form {
	out := make([]Form, len(registry))
	copy(out, registry)
	return out
}

// FormFor finds a form by criterion number and route suffix.
func FormFor(criterion int, suffix string) (Form, bool) {
	for _, f := range registry {
		if f.Criterion == criterion && f.Suffix == suffix {
			return f, true
		}
	}
	return Form{}, false
}

// FormByCode finds the form writing code and the matching target.
func FormByCode(code Code) (Form, Target, bool) {
	for _, f := range registry {
		if t, ok := f.Target(code); ok {
			return f, t, true
		}
	}
	return Form{}, Target{}, false
}

// KeyColumn strips a key expression to its column: lower(name) -> name.
func KeyColumn(entry string) string {
	if i := strings.Index(entry, "("); i >= 0 && strings.HasSuffix(entry, ")") {
		return entry[i+1 : len(entry)-1]
	}
	return entry
}
