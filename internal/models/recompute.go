package models

import "time"

// RecomputeStatus captures background recompute lifecycle states.
type RecomputeStatus string

const (
	RecomputeQueued    RecomputeStatus = "queued"
	RecomputeRunning   RecomputeStatus = "running"
	RecomputeCompleted RecomputeStatus = "completed"
	RecomputeFailed    RecomputeStatus = "failed"
)

// RecomputeOutcome records how one code fared in a recompute run.
type RecomputeOutcome struct {
	CriteriaCode string  `json:"criteria_code"`
	Metric       float64 `json:"metric"`
	Grade        int     `json:"grade"`
	Error        string  `json:"error,omitempty"`
}

// RecomputeJob tracks a bulk score recompute.
type RecomputeJob struct {
	ID         string             `json:"id"`
	Status     RecomputeStatus    `json:"status"`
	Codes      []string           `json:"codes"`
	Session    int                `json:"session"`
	Results    []RecomputeOutcome `json:"results"`
	Total      *TotalScore        `json:"total,omitempty"`
	Error      string             `json:"error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
}
