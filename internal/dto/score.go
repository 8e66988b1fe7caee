package dto

// RecomputeRequest selects the metric codes of a bulk recompute. Empty means every scored code.
type RecomputeRequest struct {
	Codes []string `json:"codes" validate:"omitempty,dive,required"`
}

// ScoreExportQuery binds GET /scores/export.
type ScoreExportQuery struct {
	Format  string `form:"format" validate:"omitempty,oneof=csv pdf"`
	Session int    `form:"session" validate:"omitempty,gte=1990"`
}
