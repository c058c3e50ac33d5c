package reports

import "time"

// EntitySummary is the pending workload of one pipeline.
type EntitySummary struct {
	Entity       string      `json:"entity"`
	StageCounts  map[int]int `json:"stage_counts"`
	TotalPending int         `json:"total_pending"`
}

// DashboardSummary is the landing-page view: pending work across every
// pipeline for the firms the caller can see.
type DashboardSummary struct {
	Entities   []EntitySummary `json:"entities"`
	ComputedAt time.Time       `json:"computed_at"`
}

// Snapshot is one persisted aggregate row, written by the workers binary
// so trend charts survive restarts.
type Snapshot struct {
	Entity       string    `db:"entity" json:"entity"`
	Stage        int       `db:"stage" json:"stage"`
	PendingCount int       `db:"pending_count" json:"pending_count"`
	ComputedAt   time.Time `db:"computed_at" json:"computed_at"`
}
