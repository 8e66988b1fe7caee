package models

import "time"

// CriteriaType distinguishes quantitative and qualitative metrics.
type CriteriaType string

const (
	CriteriaTypeQuantitative CriteriaType = "Qn"
	CriteriaTypeQualitative  CriteriaType = "Ql"
)

// CriteriaMaster is a static reference row describing one NAAC metric.
type CriteriaMaster struct {
	ID                  int64        `db:"id" json:"id"`
	CriteriaCode        string       `db:"criteria_code" json:"criteria_code"`
	CriterionID         string       `db:"criterion_id" json:"criterion_id"`
	SubCriterionID      string       `db:"sub_criterion_id" json:"sub_criterion_id"`
	SubSubCriterionID   string       `db:"sub_sub_criterion_id" json:"sub_sub_criterion_id"`
	CriterionName       string       `db:"criterion_name" json:"criterion_name"`
	SubCriterionName    string       `db:"sub_criterion_name" json:"sub_criterion_name"`
	SubSubCriterionName string       `db:"sub_sub_criterion_name" json:"sub_sub_criterion_name"`
	CriteriaType        CriteriaType `db:"criteria_type" json:"criteria_type"`
	Requirements        *string      `db:"requirements" json:"requirements,omitempty"`
	LastReviewed        *time.Time   `db:"last_reviewed" json:"last_reviewed,omitempty"`
	CreatedAt           time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time    `db:"updated_at" json:"updated_at"`
}

// CriteriaMasterFilter narrows criteria listings.
type CriteriaMasterFilter struct {
	CriterionID string
}
