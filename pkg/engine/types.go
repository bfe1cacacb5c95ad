package engine

import (
	"time"
)

// TaskStatus represents the lifecycle state of a task within one run.
type TaskStatus string

const (
	// TaskPending indicates the task has not started yet.
	TaskPending TaskStatus = "pending"

	// TaskRunning indicates the task body is currently executing.
	TaskRunning TaskStatus = "running"

	// TaskOk indicates the task completed its work (or found nothing to do).
	TaskOk TaskStatus = "ok"

	// TaskSkipped indicates the task deliberately did not run.
	TaskSkipped TaskStatus = "skipped"

	// TaskDryRun indicates the task previewed changes without applying them.
	TaskDryRun TaskStatus = "dry-run"

	// TaskFailed indicates the task body returned an error. This status is
	// assigned by the scheduler only; task bodies never return it themselves.
	TaskFailed TaskStatus = "failed"
)

// TaskResult is the outcome a task body reports back to the scheduler.
// A body reports Ok, Skipped or DryRun; Failed is reserved for the scheduler
// so "did work, but deliberately no-op" stays distinct from "crashed".
type TaskResult struct {
	// Status is the reported outcome.
	Status TaskStatus

	// Reason explains a Skipped outcome. Empty otherwise.
	Reason string
}

// ResultOk reports that the task did its work.
func ResultOk() TaskResult {
	return TaskResult{Status: TaskOk}
}

// ResultSkipped reports that the task deliberately did nothing.
func ResultSkipped(reason string) TaskResult {
	return TaskResult{Status: TaskSkipped, Reason: reason}
}

// ResultDryRun reports that the task previewed at least one change.
func ResultDryRun() TaskResult {
	return TaskResult{Status: TaskDryRun}
}

// TaskRecord is the per-task status record emitted after a run.
type TaskRecord struct {
	// ID is the task identifier.
	ID TaskID `json:"id"`

	// Name is the human-readable task name.
	Name string `json:"name"`

	// Status is the terminal status of the task.
	Status TaskStatus `json:"status"`

	// Reason explains a skip, if any.
	Reason string `json:"reason,omitempty"`

	// Err is the error string for a failed task.
	Err string `json:"error,omitempty"`

	// Duration is how long the task body ran.
	Duration time.Duration `json:"duration"`
}

// RunSummary provides per-status counts for a completed run.
type RunSummary struct {
	// Total is the number of tasks in the active set.
	Total int `json:"total"`

	// Ok is the number of tasks that completed their work.
	Ok int `json:"ok"`

	// Skipped is the number of tasks that deliberately did nothing.
	Skipped int `json:"skipped"`

	// DryRun is the number of tasks that previewed changes.
	DryRun int `json:"dry_run"`

	// Failed is the number of tasks whose body returned an error.
	Failed int `json:"failed"`
}

// RunReport aggregates everything the scheduler learned during one run.
type RunReport struct {
	// Records lists the terminal record for every task, in completion order.
	Records []TaskRecord `json:"records"`

	// Summary provides per-status counts.
	Summary RunSummary `json:"summary"`

	// Degraded is true when a dependency cycle forced the scheduler to fall
	// back to sequential registration-order execution.
	Degraded bool `json:"degraded"`

	// StartedAt is when the run started.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// Failed returns true if any task in the run ended Failed.
// The process exit code is derived from this.
func (r *RunReport) Failed() bool {
	return r.Summary.Failed > 0
}

// StateKind classifies the current state of a resource.
type StateKind string

const (
	// StateMissing indicates the resource does not exist and can be created.
	StateMissing StateKind = "missing"

	// StateCorrect indicates the resource already matches the desired state.
	// Apply must not be called on a Correct resource.
	StateCorrect StateKind = "correct"

	// StateIncorrect indicates the resource exists but differs from the
	// desired state and can be corrected.
	StateIncorrect StateKind = "incorrect"

	// StateInvalid indicates reconciliation is impossible in principle on
	// this platform or environment. Invalid resources are never retried.
	StateInvalid StateKind = "invalid"
)

// ResourceState is the result of inspecting a resource.
type ResourceState struct {
	// Kind classifies the state.
	Kind StateKind

	// Current describes the observed state for an Incorrect resource,
	// e.g. the target an existing symlink actually points at.
	Current string

	// Reason explains an Invalid state.
	Reason string
}

// Missing builds a Missing state.
func Missing() ResourceState {
	return ResourceState{Kind: StateMissing}
}

// Correct builds a Correct state.
func Correct() ResourceState {
	return ResourceState{Kind: StateCorrect}
}

// IncorrectState builds an Incorrect state carrying the observed value.
func IncorrectState(current string) ResourceState {
	return ResourceState{Kind: StateIncorrect, Current: current}
}

// InvalidState builds an Invalid state carrying the reason.
func InvalidState(reason string) ResourceState {
	return ResourceState{Kind: StateInvalid, Reason: reason}
}

// Actionable returns true if the state can be reconciled by Apply.
func (s ResourceState) Actionable() bool {
	return s.Kind == StateMissing || s.Kind == StateIncorrect
}

// ChangeKind classifies the outcome of an Apply or Remove call.
type ChangeKind string

const (
	// ChangeApplied indicates the mutation was performed.
	ChangeApplied ChangeKind = "applied"

	// ChangeAlreadyCorrect indicates no mutation was needed.
	ChangeAlreadyCorrect ChangeKind = "already-correct"

	// ChangeSkipped indicates the resource chose not to mutate.
	ChangeSkipped ChangeKind = "skipped"
)

// ResourceChange is the outcome of reconciling a single resource.
type ResourceChange struct {
	// Kind classifies the outcome.
	Kind ChangeKind

	// Reason explains a Skipped outcome.
	Reason string
}

// Applied reports a performed mutation.
func Applied() ResourceChange {
	return ResourceChange{Kind: ChangeApplied}
}

// AlreadyCorrect reports that no mutation was needed.
func AlreadyCorrect() ResourceChange {
	return ResourceChange{Kind: ChangeAlreadyCorrect}
}

// ChangeSkippedBecause reports a deliberate non-mutation.
func ChangeSkippedBecause(reason string) ResourceChange {
	return ResourceChange{Kind: ChangeSkipped, Reason: reason}
}

// ProcessOpts configures one invocation of the resource driver.
type ProcessOpts struct {
	// Verb is the label used in log lines, e.g. "link" or "install".
	Verb string

	// FixMissing controls whether Missing resources are created.
	FixMissing bool

	// FixIncorrect controls whether Incorrect resources are corrected.
	FixIncorrect bool

	// BailOnError controls whether an Apply failure aborts the batch (true)
	// or is logged as a warning and counted as skipped (false).
	BailOnError bool
}

// DefaultOpts returns the options most resource kinds use: create what is
// missing, correct what drifted, keep going past individual failures.
func DefaultOpts(verb string) ProcessOpts {
	return ProcessOpts{Verb: verb, FixMissing: true, FixIncorrect: true}
}

// BatchStats aggregates per-resource outcomes for one driver invocation.
type BatchStats struct {
	// Applied is the number of resources that were mutated.
	Applied int `json:"applied"`

	// AlreadyCorrect is the number of resources needing no change.
	AlreadyCorrect int `json:"already_correct"`

	// Skipped is the number of resources skipped (invalid, out of fix
	// scope, or downgraded apply failures).
	Skipped int `json:"skipped"`

	// WouldApply is the number of actionable resources previewed in a
	// dry run.
	WouldApply int `json:"would_apply"`
}
