package engine

// Resource is a single desired-state assertion that can be inspected and
// reconciled independently of others, e.g. "this path is a symlink to that
// target". Implementations hold only configuration values and a borrowed
// executor; they carry no mutable state across calls.
type Resource interface {
	// Description returns a human-readable identifier for log lines.
	Description() string

	// CurrentState inspects the system and classifies the resource.
	// It fails only on I/O errors unrelated to the resource's own
	// correctness; a resource that simply does not exist reports Missing,
	// not an error.
	CurrentState() (ResourceState, error)

	// Apply performs the mutation that brings the resource to its desired
	// state. It must be idempotent: calling it twice in a row must not
	// error, and the second call's net effect must be a no-op. Apply is
	// only called after CurrentState reported Missing or Incorrect.
	Apply() (ResourceChange, error)
}

// Removable is implemented by resources that support uninstall-style
// removal. Resources without it are skipped by removal runs.
type Removable interface {
	Resource

	// Remove undoes the resource. It is only called on resources whose
	// most recent state was Correct; removal never "fixes" a resource
	// into existence first.
	Remove() (ResourceChange, error)
}

// NeedsChange reports whether the resource's current state is actionable.
// Invalid resources report false: they cannot be acted on.
func NeedsChange(r Resource) (bool, error) {
	state, err := r.CurrentState()
	if err != nil {
		return false, err
	}
	return state.Actionable(), nil
}

// ResourceWithState pairs a resource with a pre-computed state, for kinds
// whose state must be queried once in bulk (e.g. one installed-package
// listing instead of one query per package).
type ResourceWithState struct {
	// Resource is the resource to reconcile.
	Resource Resource

	// State is its pre-computed current state.
	State ResourceState
}
