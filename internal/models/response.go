package models

// ResponseRow is a stored submission. Columns differ per criterion.
type ResponseRow map[string]interface{}

// ResponseFilter narrows generic retrieval by criteria code.
type ResponseFilter struct {
	Session  int
	Page     int
	PageSize int
}

// ResponseWrite is the outcome of writing one target of a submission.
type ResponseWrite struct {
	CriteriaCode string      `json:"criteria_code"`
	Created      bool        `json:"created"`
	Row          ResponseRow `json:"row"`
}
