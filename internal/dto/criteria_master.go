package dto

// CriteriaMasterRequest creates or replaces a criteria master row. Hierarchical ids are derived from the code.
type CriteriaMasterRequest struct {
	CriteriaCode        string  `json:"criteria_code" validate:"required"`
	CriterionName       string  `json:"criterion_name" validate:"required"`
	SubCriterionName    string  `json:"sub_criterion_name"`
	SubSubCriterionName string  `json:"sub_sub_criterion_name"`
	CriteriaType        string  `json:"criteria_type" validate:"required,oneof=Qn Ql"`
	Requirements        *string `json:"requirements"`
}
