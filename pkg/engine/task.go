package engine

// TaskID is the opaque, stable identifier of a task kind. It is used only
// as a graph-node key for dependency references, never shown to users.
type TaskID string

// Task is a named unit of orchestration with a run predicate, a dependency
// set and a body that typically reconciles a batch of resources built from
// the run context's configuration.
//
// Tasks are constructed once per invocation into a fixed ordered list and
// are immutable during execution. The scheduler borrows them for the
// duration of one run.
type Task interface {
	// Name returns the human-readable task name.
	Name() string

	// ID returns the stable identifier of this task kind.
	ID() TaskID

	// Dependencies returns the identifiers of tasks that must complete
	// before this one. An identifier that matches no task in the active
	// set is treated as already satisfied.
	Dependencies() []TaskID

	// ShouldRun is a pure predicate over the run context, evaluated fresh
	// each run and never cached. Platform capability checks live here.
	ShouldRun(ctx *RunContext) bool

	// Run executes the task body. Bodies return Ok, Skipped or DryRun;
	// an error is recorded by the scheduler as Failed.
	Run(ctx *RunContext) (TaskResult, error)
}

// Uninstaller is implemented by tasks that support uninstall-style runs.
// Uninstall removes the task's resources instead of reconciling them.
type Uninstaller interface {
	Task

	// Uninstall removes the task's resources. Only resources currently in
	// their Correct state are removed.
	Uninstall(ctx *RunContext) (TaskResult, error)
}
