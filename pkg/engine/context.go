package engine

import (
	"github.com/homeforge/homeforge/pkg/config"
	"github.com/homeforge/homeforge/pkg/executor"
	"github.com/homeforge/homeforge/pkg/platform"
	"github.com/homeforge/homeforge/pkg/policy"
	"github.com/homeforge/homeforge/pkg/telemetry"
)

// RunContext is the immutable per-run bundle threaded through every task and
// resource call. Tasks and resources borrow it read-only; the logger and
// executor provide their own internal synchronization for mutation.
type RunContext struct {
	// Config is the parsed, profile-filtered configuration.
	Config *config.Config

	// Platform exposes read-only capability flags for the host.
	Platform platform.Platform

	// Logger is the run's log sink. Internally synchronized.
	Logger *telemetry.Logger

	// DryRun disables all mutations; planned changes are logged instead.
	DryRun bool

	// Home is the user's home directory.
	Home string

	// Exec is the shared command executor. Safe for concurrent use.
	Exec executor.Executor

	// Parallel enables the bounded worker pool for both task-level and
	// resource-level execution.
	Parallel bool

	// Policy is the optional safety-policy gate evaluated over planned
	// changes before apply. Nil disables policy checks.
	Policy *policy.Engine

	// Metrics is the optional metrics collector fed per-resource outcome
	// counts by the driver. Nil disables resource metrics.
	Metrics *telemetry.Metrics
}

// WithLogger returns a shallow copy of the context routed through a
// different log sink. The scheduler uses this to hand each concurrently
// running task its own buffered sink.
func (c *RunContext) WithLogger(logger *telemetry.Logger) *RunContext {
	cp := *c
	cp.Logger = logger
	return &cp
}
