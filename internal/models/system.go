package models

import "time"

// SystemMetrics is a lightweight snapshot of service counters.
type SystemMetrics struct {
	RequestsTotal     uint64    `json:"requests_total"`
	SubmissionsTotal  uint64    `json:"submissions_total"`
	ComputationsTotal uint64    `json:"computations_total"`
	CacheHitRatio     float64   `json:"cache_hit_ratio"`
	Goroutines        int       `json:"goroutines"`
	GeneratedAt       time.Time `json:"generated_at"`
}
