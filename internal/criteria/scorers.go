package criteria

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/noah-isme/naac-sar-api/internal/models"
)

type measureFunc func(ctx context.Context, src Source, w Window) (Measurement, error)

func empty(inputs map[string]float64) Measurement {
	return Measurement{Empty: true, Inputs: inputs}
}

func ratio(num, den float64) (float64, bool) {
	if den <= 0 {
		return 0, false
	}
	return num / den, true
}

// counted grades a plain aggregate, optionally divided by the window length.
func counted(table string, fn AggFunc, perYear bool, columns ...string) measureFunc {
	return func(ctx context.Context, src Source, w Window) (Measurement, error) {
		total, err := src.Aggregate(ctx, Query{Table: table, Func: fn, Columns: columns}, w)
		if err != nil {
			return Measurement{}, err
		}
		inputs := map[string]float64{"total": total}
		if total == 0 {
			return empty(inputs), nil
		}
		value := total
		if perYear {
			years := float64(w.Len())
			inputs["years"] = years
			value = total / years
		}
		return Measurement{Value: value, Inputs: inputs}, nil
	}
}

func percentWhere(table, column, value string) measureFunc {
	return func(ctx context.Context, src Source, w Window) (Measurement, error) {
		total, err := src.Aggregate(ctx, Query{Table: table, Func: Count}, w)
		if err != nil {
			return Measurement{}, err
		}
		matched, err := src.Aggregate(ctx, Query{Table: table, Func: Count, Where: &Equals{Column: column, Value: value}}, w)
		if err != nil {
			return Measurement{}, err
		}
		inputs := map[string]float64{"total": total, "matched": matched}
		r, ok := ratio(matched, total)
		if !ok {
			return empty(inputs), nil
		}
		return Measurement{Value: r * 100, Inputs: inputs}, nil
	}
}

// latestOption grades the option stored in the newest session.
func latestOption(table, column string) measureFunc {
	return func(ctx context.Context, src Source, w Window) (Measurement, error) {
		row, found, err := src.Latest(ctx, LatestQuery{Table: table, Columns: []string{column}}, w)
		if err != nil {
			return Measurement{}, err
		}
		if !found {
			return empty(map[string]float64{}), nil
		}
		return Measurement{Value: row[column], Inputs: map[string]float64{column: row[column]}}, nil
	}
}

// latestRatio divides two columns of the newest row.
func latestRatio(table, orderBy, num, den string, percent, rounded bool) measureFunc {
	return func(ctx context.Context, src Source, w Window) (Measurement, error) {
		row, found, err := src.Latest(ctx, LatestQuery{Table: table, Columns: []string{num, den}, OrderBy: orderBy}, w)
		if err != nil {
			return Measurement{}, err
		}
		if !found {
			return empty(map[string]float64{}), nil
		}
		inputs := map[string]float64{num: row[num], den: row[den]}
		r, ok := ratio(row[num], row[den])
		if !ok {
			return empty(inputs), nil
		}
		if percent {
			r *= 100
		}
		if rounded {
			r = math.Round(r)
		}
		return Measurement{Value: r, Inputs: inputs}, nil
	}
}

// yearlyShare averages Σnum/Σden per year over the years where den > 0.
func yearlyShare(table, groupBy string, num, den []string) measureFunc {
	return func(ctx context.Context, src Source, w Window) (Measurement, error) {
		nums, err := src.AggregateBy(ctx, Query{Table: table, Func: Sum, Columns: num}, groupBy, w)
		if err != nil {
			return Measurement{}, err
		}
		dens, err := src.AggregateBy(ctx, Query{Table: table, Func: Sum, Columns: den}, groupBy, w)
		if err != nil {
			return Measurement{}, err
		}
		var sum float64
		var years float64
		for _, y := range sortedKeys(dens) {
			r, ok := ratio(nums[y], dens[y])
			if !ok {
				continue
			}
			sum += r * 100
			years++
		}
		inputs := map[string]float64{"years": years}
		if years == 0 {
			return empty(inputs), nil
		}
		return Measurement{Value: sum / years, Inputs: inputs}, nil
	}
}

// perProgramme averages yearly enrolment against the IIQA programme total.
func perProgramme(table string) measureFunc {
	return func(ctx context.Context, src Source, w Window) (Measurement, error) {
		programmes, err := src.ProgrammeTotal(ctx)
		if err != nil {
			return Measurement{}, err
		}
		enrolled, err := src.AggregateBy(ctx, Query{Table: table, Func: Sum, Columns: []string{"no_of_students_enrolled"}}, "year_of_offering", w)
		if err != nil {
			return Measurement{}, err
		}
		inputs := map[string]float64{"programmes": programmes}
		if len(enrolled) == 0 || programmes <= 0 {
			return empty(inputs), nil
		}
		var sum float64
		for _, y := range w.Years() {
			sum += enrolled[y] / programmes * 100
		}
		return Measurement{Value: sum / float64(w.Len()), Inputs: inputs}, nil
	}
}

func profiles(ctx context.Context, src Source) (Profiles, error) {
	p, err := src.Profiles(ctx)
	if err != nil {
		return Profiles{}, err
	}
	if p.Latest == nil {
		return Profiles{}, fmt.Errorf("%w: extended profile", ErrReferenceMissing)
	}
	return p, nil
}

type profileField func(models.ExtendedProfile) float64

func fullTimeTeachers(p models.ExtendedProfile) float64 { return float64(p.FullTimeTeachers) }
func totalStudents(p models.ExtendedProfile) float64    { return float64(p.TotalStudents) }
func outgoingStudents(p models.ExtendedProfile) float64 { return float64(p.OutgoingFinalYearStudents) }
func coursesOffered(p models.ExtendedProfile) float64   { return float64(p.NumberOfCoursesOffered) }

// profileShare compares a per-period aggregate with the profile of that year.
// With onlyObserved the average covers periods that have rows; otherwise every
// window year counts, missing years as 0.
func profileShare(q Query, groupBy string, field profileField, onlyObserved bool) measureFunc {
	return func(ctx context.Context, src Source, w Window) (Measurement, error) {
		p, err := profiles(ctx, src)
		if err != nil {
			return Measurement{}, err
		}
		values, err := src.AggregateBy(ctx, q, groupBy, w)
		if err != nil {
			return Measurement{}, err
		}
		inputs := map[string]float64{"periods": float64(len(values))}
		if len(values) == 0 {
			return empty(inputs), nil
		}
		years := w.Years()
		if onlyObserved {
			years = sortedKeys(values)
		}
		var sum float64
		var periods float64
		for _, y := range years {
			periods++
			profile, _ := p.For(y)
			r, ok := ratio(values[y], field(profile))
			if ok {
				sum += r * 100
			}
		}
		if periods == 0 {
			return empty(inputs), nil
		}
		return Measurement{Value: sum / periods, Inputs: inputs}, nil
	}
}

// perLatestProfile divides an aggregate by a field of the latest profile.
func perLatestProfile(q Query, field profileField, percent bool) measureFunc {
	return func(ctx context.Context, src Source, w Window) (Measurement, error) {
		p, err := profiles(ctx, src)
		if err != nil {
			return Measurement{}, err
		}
		total, err := src.Aggregate(ctx, q, w)
		if err != nil {
			return Measurement{}, err
		}
		den := field(*p.Latest)
		inputs := map[string]float64{"total": total, "denominator": den}
		r, ok := ratio(total, den)
		if !ok || total == 0 {
			return empty(inputs), nil
		}
		if percent {
			r *= 100
		}
		return Measurement{Value: r, Inputs: inputs}, nil
	}
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func measureStudentShare(ctx context.Context, src Source, w Window) (Measurement, error) {
	p, err := profiles(ctx, src)
	if err != nil {
		return Measurement{}, err
	}
	students, err := src.AggregateBy(ctx, Query{Table: Code("1.3.3").Table(), Func: CountDistinct, Columns: []string{"student_name"}}, SessionField, w)
	if err != nil {
		return Measurement{}, err
	}
	var num, den float64
	for _, session := range sortedKeys(students) {
		num += students[session]
		profile, _ := p.For(session)
		den += float64(profile.TotalStudents)
	}
	inputs := map[string]float64{"students": num, "enrolled": den}
	r, ok := ratio(num, den)
	if !ok || num == 0 {
		return empty(inputs), nil
	}
	return Measurement{Value: r * 100, Inputs: inputs}, nil
}

func measureStudentTeacherRatio(ctx context.Context, src Source, _ Window) (Measurement, error) {
	h, err := src.Headcount(ctx)
	if err != nil {
		return Measurement{}, err
	}
	inputs := map[string]float64{"students": h.Students, "teachers": h.Teachers}
	r, ok := ratio(h.Students, h.Teachers)
	if !ok {
		return empty(inputs), nil
	}
	return Measurement{Value: math.Round(r), Inputs: inputs}, nil
}

func measureSanctionedPosts(ctx context.Context, src Source, w Window) (Measurement, error) {
	p, err := profiles(ctx, src)
	if err != nil {
		return Measurement{}, err
	}
	var sum, years float64
	for _, y := range w.Years() {
		profile, ok := p.ByYear[y]
		if !ok {
			continue
		}
		r, ok := ratio(float64(profile.FullTimeTeachers), float64(profile.SanctionedPosts))
		if !ok {
			continue
		}
		sum += r * 100
		years++
	}
	inputs := map[string]float64{"years": years}
	if years == 0 {
		return empty(inputs), nil
	}
	return Measurement{Value: sum / years, Inputs: inputs}, nil
}

func measureResearchFunding(ctx context.Context, src Source, w Window) (Measurement, error) {
	departments, err := src.DepartmentCount(ctx)
	if err != nil {
		return Measurement{}, err
	}
	funded, err := src.Aggregate(ctx, Query{Table: Code("3.1.2").Table(), Func: CountDistinct, Columns: []string{"department_of_principal_investigator"}}, w)
	if err != nil {
		return Measurement{}, err
	}
	inputs := map[string]float64{"funded_departments": funded, "departments": departments}
	r, ok := ratio(funded, departments)
	if !ok || funded == 0 {
		return empty(inputs), nil
	}
	return Measurement{Value: r * 100, Inputs: inputs}, nil
}

func measureICTRooms(ctx context.Context, src Source, w Window) (Measurement, error) {
	p, err := profiles(ctx, src)
	if err != nil {
		return Measurement{}, err
	}
	rooms, err := src.Aggregate(ctx, Query{Table: Code("4.1.3").Table(), Func: CountDistinct, Columns: []string{"room_identifier"}}, w)
	if err != nil {
		return Measurement{}, err
	}
	halls := float64(p.Latest.TotalClassrooms + p.Latest.TotalSeminarHalls)
	inputs := map[string]float64{"ict_rooms": rooms, "rooms": halls}
	r, ok := ratio(rooms, halls)
	if !ok || rooms == 0 {
		return empty(inputs), nil
	}
	return Measurement{Value: r * 100, Inputs: inputs}, nil
}

func scorer(code Code, metric string, measure measureFunc, ladder Ladder) Scorer {
	return Scorer{Code: code, Metric: metric, Measure: measure, Ladder: ladder}
}

func table(code Code) string { return code.Table() }

var scorers = []Scorer{
	scorer("1.1.3", "teachers on academic bodies", counted(table("1.1.3"), CountDistinct, false, "teacher_name"), AtLeast(30, 20, 10, 5)),
	scorer("1.2.1", "percent of programmes with CBCS", percentWhere(table("1.2.1"), "status_of_implementation_of_cbcs", "YES"), AtLeast(25, 15, 5, 1)),
	scorer("1.2.2", "add-on course enrolment per programme", perProgramme(table("1.2.2")), AtLeast(50, 35, 20, 10)),
	scorer("1.2.3", "students enrolled in add-on courses", perProgramme(table("1.2.3")), AtLeast(50, 35, 20, 10)),
	scorer("1.3.2", "courses with experiential learning",
		profileShare(Query{Table: table("1.3.2"), Func: CountDistinct, Columns: []string{"course_code"}}, "year_of_offering", coursesOffered, false),
		AtLeast(35, 20, 10, 5)),
	scorer("1.3.3", "students doing projects or internships", measureStudentShare, AtLeast(80, 60, 40, 20)),
	scorer("1.4.1", "feedback on syllabus", latestOption(table("1.4.1"), "option_selected"), OptionValue()),
	scorer("1.4.2", "feedback process", latestOption(table("1.4.2"), "option_selected"), OptionValue()),

	scorer("2.1.1", "enrolment against sanctioned seats",
		yearlyShare(table("2.1.1"), "year", []string{"no_of_students"}, []string{"no_of_seats"}), AtLeast(80, 60, 40, 30)),
	scorer("2.1.2", "reserved category seats filled",
		yearlyShare(table("2.1.2"), "year",
			[]string{"number_of_students_admitted_from_the_reserved_category"},
			[]string{"number_of_seats_earmarked_for_reserved_category_as_per_goi"}),
		AtLeast(80, 60, 40, 30)),
	scorer("2.2.2", "student to full time teacher ratio", measureStudentTeacherRatio, AtMost(20, 30, 40, 50)),
	scorer("2.3.3", "mentee to mentor ratio", latestRatio(table("2.3.3"), "", "no_of_mentees", "no_of_mentors", false, true), AtMost(20, 30, 40, 50)),
	scorer("2.4.1", "full time teachers against sanctioned posts", measureSanctionedPosts, AtLeast(75, 65, 50, 40)),
	scorer("2.4.2", "full time teachers with doctorate",
		profileShare(Query{Table: table("2.4.2"), Func: Sum, Columns: []string{"number_of_full_time_teachers"}}, SessionField, fullTimeTeachers, true),
		AtLeast(75, 60, 50, 30)),
	scorer("2.4.3", "average teaching experience",
		perLatestProfile(Query{Table: table("2.4.3"), Func: Sum, Columns: []string{"total_number_of_years_of_experience_in_the_same_institution"}}, fullTimeTeachers, false),
		AtLeast(15, 12, 9, 6)),
	scorer("2.6.3", "pass percentage",
		func(ctx context.Context, src Source, w Window) (Measurement, error) {
			t := table("2.6.3")
			passed, err := src.Aggregate(ctx, Query{Table: t, Func: Sum, Columns: []string{"number_of_students_passed_in_the_final_year_examination"}}, w)
			if err != nil {
				return Measurement{}, err
			}
			appeared, err := src.Aggregate(ctx, Query{Table: t, Func: Sum, Columns: []string{"number_of_students_appeared_in_the_final_year_examination"}}, w)
			if err != nil {
				return Measurement{}, err
			}
			inputs := map[string]float64{"passed": passed, "appeared": appeared}
			r, ok := ratio(passed, appeared)
			if !ok {
				return empty(inputs), nil
			}
			return Measurement{Value: r * 100, Inputs: inputs}, nil
		},
		AtLeast(90, 80, 70, 60)),

	scorer("3.1.1", "research grants per year (lakhs)", counted(table("3.1.1"), Sum, true, "amount_sanctioned"), AtLeast(50, 25, 10, 2)),
	scorer("3.1.2", "departments with funded research", measureResearchFunding, AtLeast(50, 30, 15, 5)),
	scorer("3.1.3", "workshops and seminars", counted(table("3.1.3"), Count, false), AtLeast(40, 30, 20, 5)),
	scorer("3.2.1", "papers per teacher", perLatestProfile(Query{Table: table("3.2.1"), Func: Count}, fullTimeTeachers, false), AtLeast(1, 0.5, 0.25, 0.1)),
	scorer("3.2.2", "books and chapters per teacher", perLatestProfile(Query{Table: table("3.2.2"), Func: Count}, fullTimeTeachers, false), AtLeast(1, 0.75, 0.5, 0.25)),
	scorer("3.3.2", "extension awards", counted(table("3.3.2"), Count, false), AtLeast(10, 6, 3, 1)),
	scorer("3.3.3", "extension activities", counted(table("3.3.3"), Count, false), AtLeast(40, 25, 12, 5)),
	scorer("3.4.1", "collaborative activities per year", counted(table("3.4.1"), Count, true), AtLeast(5, 3, 2, 1)),
	scorer("3.4.2", "functional MoUs", counted(table("3.4.2"), Count, false), AtLeast(15, 10, 5, 2)),

	scorer("4.1.3", "ICT enabled rooms", measureICTRooms, AtLeast(90, 70, 50, 30)),
	scorer("4.1.4", "infrastructure augmentation expenditure",
		yearlyShare(table("4.1.4"), "year", []string{"expenditure_infra_aug"}, []string{"total_expenditure_excl_salary"}), AtLeast(25, 15, 10, 5)),
	scorer("4.2.2", "e-resource expenditure per year (lakhs)", counted(table("4.2.2"), Sum, true, "expenditure_lakhs"), AtLeast(5, 3, 2, 1)),
	scorer("4.2.3", "library expenditure per year (lakhs)", counted(table("4.2.3"), Sum, true, "total_expenditure"), AtLeast(15, 10, 5, 2)),
	scorer("4.2.4", "library usage", latestRatio(table("4.2.4"), "", "no_of_teachers_stds", "total_teachers_stds", true, false), AtLeast(50, 35, 20, 10)),
	scorer("4.3.2", "students per computer", latestRatio(table("4.3.2"), "academic_year", "total_students", "working_computers", false, false), AtMost(20, 30, 40, 50)),
	scorer("4.4.1", "maintenance expenditure",
		yearlyShare(table("4.4.1"), "year", []string{"exp_maintainance_acad", "exp_maintainance_physical"}, []string{"total_exp_infra_lakhs"}), AtLeast(30, 20, 10, 5)),

	scorer("5.1.1", "government scholarship beneficiaries",
		profileShare(Query{Table: table("5.1.1"), Func: Sum, Columns: []string{"gov_students_count", "non_gov_students_count"}}, "year", totalStudents, false),
		AtLeast(50, 30, 20, 5)),
	scorer("5.1.2", "institutional scholarship beneficiaries",
		profileShare(Query{Table: table("5.1.2"), Func: Sum, Columns: []string{"inst_students_count"}}, "year", totalStudents, false),
		AtLeast(10, 5, 2, 1)),
	scorer("5.1.3", "capacity building programmes", counted(table("5.1.3"), CountDistinct, false, "program_name"), AtLeast(10, 7, 4, 1)),
	scorer("5.1.4", "career guidance participation",
		profileShare(Query{Table: table("5.1.4"), Func: Sum, Columns: []string{"students_participated"}}, SessionField, totalStudents, false),
		AtLeast(20, 15, 10, 5)),
	scorer("5.2.1", "placement percentage",
		profileShare(Query{Table: table("5.2.1"), Func: Count}, SessionField, outgoingStudents, false), AtLeast(60, 45, 30, 15)),
	scorer("5.2.2", "progression to higher education",
		profileShare(Query{Table: table("5.2.2"), Func: Count}, SessionField, outgoingStudents, false), AtLeast(30, 20, 10, 5)),
	scorer("5.2.3", "students qualifying competitive exams",
		profileShare(Query{Table: table("5.2.3"), Func: Count}, SessionField, outgoingStudents, false), AtLeast(15, 10, 5, 2)),

	scorer("6.2.3", "e-governance implementation", latestOption(table("6.2.3"), "implimentation"), OptionValue()),
	scorer("6.3.2", "teachers supported for conferences",
		profileShare(Query{Table: table("6.3.2"), Func: CountDistinct, Columns: []string{"teacher_name"}}, SessionField, fullTimeTeachers, false),
		AtLeast(50, 40, 20, 5)),
	scorer("6.3.3", "professional development programmes per year", counted(table("6.3.3"), Count, true), AtLeast(50, 40, 20, 5)),
	scorer("6.3.4", "teachers attending development programmes",
		profileShare(Query{Table: table("6.3.4"), Func: CountDistinct, Columns: []string{"teacher_name"}}, SessionField, fullTimeTeachers, false),
		AtLeast(50, 40, 20, 5)),
	scorer("6.4.2", "grants received per year (lakhs)", counted(table("6.4.2"), Sum, true, "grant_amount_lakhs"), AtLeast(100, 80, 60, 30)),
	scorer("6.5.3", "quality assurance initiatives", latestOption(table("6.5.3"), "initiative_type"), OptionValue()),

	scorer("7.1.2", "green energy facilities", latestOption(table("7.1.2"), "facility_type"), OptionValue()),
	scorer("7.1.4", "water conservation facilities", latestOption(table("7.1.4"), "facility_type"), OptionValue()),
	scorer("7.1.5", "green campus initiatives", latestOption(table("7.1.5"), "initiative"), OptionValue()),
	scorer("7.1.6", "environment and energy audits", latestOption(table("7.1.6"), "audit_type"), OptionValue()),
	scorer("7.1.7", "disabled-friendly campus", latestOption(table("7.1.7"), "feature"), OptionValue()),
	scorer("7.1.10", "code of conduct", latestOption(table("7.1.10"), "options"), OptionValue()),
}

var scorerIndex = func() map[Code]Scorer {
	idx := make(map[Code]Scorer, len(scorers))
	for _, s := range scorers {
		idx[s.Code] = s
	}
	return idx
}()

// Scorers returns every scoring rule in code order.
func Scorers() []Scorer {
	out := make([]Scorer, len(scorers))
	copy(out, scorers)
	return out
}

// ScorerFor looks up the rule for code.
func ScorerFor(code Code) (Scorer, bool) {
	s, ok := scorerIndex[code]
	return s, ok
}
