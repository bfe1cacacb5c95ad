package stores

import (
	"time"
)

// RunRecord is one persisted run.
type RunRecord struct {
	// ID is the run's uuid.
	ID string `json:"id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall-clock run time.
	Duration time.Duration `json:"duration"`

	// Status is "ok" or "failed".
	Status string `json:"status"`

	// Degraded reports whether dependency scheduling fell back to
	// sequential registration order.
	Degraded bool `json:"degraded"`

	// Total is the number of scheduled tasks.
	Total int `json:"total"`

	// Ok counts tasks that completed successfully.
	Ok int `json:"ok"`

	// Skipped counts tasks skipped before or during execution.
	Skipped int `json:"skipped"`

	// DryRun counts tasks that previewed changes without applying.
	DryRun int `json:"dry_run"`

	// Failed counts tasks whose body returned an error.
	Failed int `json:"failed"`
}

// TaskRow is one persisted per-task record within a run.
type TaskRow struct {
	// RunID is the owning run's uuid.
	RunID string `json:"run_id"`

	// Name is the task name.
	Name string `json:"name"`

	// Status is the terminal task status.
	Status string `json:"status"`

	// Reason explains a skip, if any.
	Reason string `json:"reason,omitempty"`

	// Error is the rendered task error, if any.
	Error string `json:"error,omitempty"`

	// Duration is the task's wall-clock time.
	Duration time.Duration `json:"duration"`
}
