package models

import "time"

// TotalCode is the criteria_code of the institution-wide score row.
const TotalCode = "00"

// Score is one computed row of the scores table.
type Score struct {
	SlNo                int64     `db:"sl_no" json:"sl_no"`
	CriteriaCode        string    `db:"criteria_code" json:"criteria_code"`
	CriteriaID          string    `db:"criteria_id" json:"criteria_id"`
	SubCriteriaID       string    `db:"sub_criteria_id" json:"sub_criteria_id"`
	SubSubCriteriaID    string    `db:"sub_sub_criteria_id" json:"sub_sub_criteria_id"`
	ScoreCriteria       float64   `db:"score_criteria" json:"score_criteria"`
	ScoreSubCriteria    float64   `db:"score_sub_criteria" json:"score_sub_criteria"`
	ScoreSubSubCriteria float64   `db:"score_sub_sub_criteria" json:"score_sub_sub_criteria"`
	SubSubCrGrade       int       `db:"sub_sub_cr_grade" json:"sub_sub_cr_grade"`
	WeightedCrScore     float64   `db:"weighted_cr_score" json:"weighted_cr_score"`
	Session             int       `db:"session" json:"session"`
	CycleYear           int       `db:"cycle_year" json:"cycle_year"`
	ComputedAt          time.Time `db:"computed_at" json:"computed_at"`
}

// ScoreFilter narrows score listings.
type ScoreFilter struct {
	Session     int
	CriterionID string
}

// ScoreResult is returned by a single metric computation.
type ScoreResult struct {
	CriteriaCode string             `json:"criteria_code"`
	Session      int                `json:"session"`
	Metric       float64            `json:"metric"`
	Grade        int                `json:"grade"`
	Empty        bool               `json:"empty"`
	Inputs       map[string]float64 `json:"inputs"`
	Created      bool               `json:"created"`
}

// SubCriterionScore is the rolled-up score of a sub-criterion.
type SubCriterionScore struct {
	Code         string  `json:"code"`
	Session      int     `json:"session"`
	Weight       float64 `json:"weight"`
	AverageGrade float64 `json:"average_grade"`
	Score        float64 `json:"score"`
	Metrics      int     `json:"metrics"`
}

// CriterionScore is the rolled-up score of a criterion.
type CriterionScore struct {
	CriterionID   string  `json:"criterion_id"`
	Session       int     `json:"session"`
	ScoreCriteria float64 `json:"score_criteria"`
	Weighted      float64 `json:"weighted_cr_score"`
	Denominator   float64 `json:"denominator"`
}

// TotalScore is the institutional CGPA.
type TotalScore struct {
	Session int     `json:"session"`
	Total   float64 `json:"total"`
	GPA     float64 `json:"gpa"`
	Grade   string  `json:"grade"`
}

// SubCriterionSummary compares one sub-criterion with its target.
type SubCriterionSummary struct {
	Code          string  `json:"code"`
	Score         float64 `json:"score"`
	Target        float64 `json:"target"`
	TargetPercent float64 `json:"target_percent"`
}

// CriterionSummary compares one criterion with its target.
type CriterionSummary struct {
	CriterionID  string                `json:"criterion_id"`
	Name         string                `json:"name"`
	Score        float64               `json:"score"`
	Target       float64               `json:"target"`
	Status       string                `json:"status"`
	AverageGrade float64               `json:"average_grade"`
	SubCriteria  []SubCriterionSummary `json:"sub_criteria"`
}

// CollegeSummary is the dashboard view of the institution's standing.
type CollegeSummary struct {
	Session      int                `json:"session"`
	DesiredGrade string             `json:"desired_grade"`
	CurrentGPA   float64            `json:"current_gpa"`
	TargetGPA    float64            `json:"target_gpa"`
	Grade        string             `json:"grade"`
	Criteria     []CriterionSummary `json:"criteria"`
}

// RadarPoint is one spoke of the criterion radar chart.
type RadarPoint struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Max     float64 `json:"max"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}
