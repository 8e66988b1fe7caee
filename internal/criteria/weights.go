package criteria

import "sort"

var subCriterionWeights = map[Code]float64{
	"1.1": 5, "1.2": 30, "1.3": 20, "1.4": 20,
	"2.1": 40, "2.2": 20, "2.3": 15, "2.4": 60, "2.6": 30, "2.7": 60,
	"3.1": 20, "3.2": 30, "3.3": 40, "3.4": 20,
	"4.1": 30, "4.2": 20, "4.3": 20, "4.4": 30,
	"5.1": 50, "5.2": 40,
	"6.2": 10, "6.3": 40, "6.4": 10, "6.5": 20,
	"7.1": 100,
}

var criterionWeights = map[int]float64{1: 0.1, 2: 0.3, 3: 0.2, 4: 0.1, 5: 0.1, 6: 0.1, 7: 0.1}

var criterionNames = map[int]string{
	1: "Curricular Aspects",
	2: "Teaching-Learning and Evaluation",
	3: "Research, Innovations and Extension",
	4: "Infrastructure and Learning Resources",
	5: "Student Support and Progression",
	6: "Governance, Leadership and Management",
	7: "Institutional Values and Best Practices",
}

// Criteria lists the criterion numbers 1-7.
func Criteria() []int {
	out := make([]int, 0, len(criterionWeights))
	for n := range criterionWeights {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// CriterionName is the NAAC title of criterion n.
func CriterionName(n int) string {
	return criterionNames[n]
}

// CriterionWeight is the share of criterion n in the institutional score.
func CriterionWeight(n int) float64 {
	return criterionWeights[n]
}

// SubCriterionWeight returns the weight of a sub-criterion code such as 3.1.
func SubCriterionWeight(code Code) (float64, bool) {
	w, ok := subCriterionWeights[code]
	return w, ok
}

// SubCriteria lists the weighted sub-criteria of criterion n.
func SubCriteria(n int) []Code {
	var out []Code
	for code := range subCriterionWeights {
		if code.Criterion() == n {
			out = append(out, code)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Padded() < out[j].Padded() })
	return out
}

// CriterionDenominator is Σ weight of criterion n's sub-criteria.
func CriterionDenominator(n int) float64 {
	var total float64
	for _, code := range SubCriteria(n) {
		total += subCriterionWeights[code]
	}
	return total
}

// Grades in descending order.
var Grades = []string{"A++", "A+", "A", "B++", "B+", "B", "C", "D"}

var gradeBands = []struct {
	min   float64
	grade string
}{
	{2.29, "A++"}, {2.12, "A+"}, {1.96, "A"}, {1.8, "B++"},
	{1.63, "B+"}, {1.31, "B"}, {0.98, "C"},
}

// LetterGrade maps an institutional GPA to its letter band.
func LetterGrade(gpa float64) string {
	for _, band := range gradeBands {
		if gpa >= band.min {
			return band.grade
		}
	}
	return "D"
}

var targetGPA = map[string]float64{
	"A++": 2.455, "A+": 2.205, "A": 2.04, "B++": 1.88,
	"B+": 1.715, "B": 1.47, "C": 1.145, "D": 0.49,
}

// TargetGPA returns the GPA aimed for by a desired grade; unknown grades target A.
func TargetGPA(grade string) float64 {
	if v, ok := targetGPA[grade]; ok {
		return v
	}
	return targetGPA["A"]
}

// ValidGrade reports whether grade is a NAAC letter grade.
func ValidGrade(grade string) bool {
	_, ok := targetGPA[grade]
	return ok
}
