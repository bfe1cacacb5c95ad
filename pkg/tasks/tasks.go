// Package tasks wires the configured resource batches into the engine's
// task contract. One task exists per resource kind; dependencies between
// them order the run (packages before the extensions and services that
// need them), and each task defers everything else to the reconciliation
// driver.
package tasks

import (
	"context"

	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/policy"
)

// Task IDs are stable graph-node keys, one per task kind.
const (
	TaskSymlinks    engine.TaskID = "symlinks"
	TaskPermissions engine.TaskID = "permissions"
	TaskPackages    engine.TaskID = "packages"
	TaskExtensions  engine.TaskID = "extensions"
	TaskRegistry    engine.TaskID = "registry"
	TaskServices    engine.TaskID = "services"
)

// Default returns the full task list in registration order. Registration
// order is the fallback execution order when dependency scheduling is
// degraded, so it is itself a valid sequential ordering.
func Default() []engine.Task {
	return []engine.Task{
		NewPackagesTask(),
		NewSymlinksTask(),
		NewPermissionsTask(),
		NewExtensionsTask(),
		NewRegistryTask(),
		NewServicesTask(),
	}
}

// gate evaluates the policy engine over planned changes. Denied changes
// fail the batch before any apply happens; in dry-run mode a denial is
// reported as a warning so the plan still renders.
func gate(ctx *engine.RunContext, inputs []policy.ChangeInput) error {
	if ctx.Policy == nil {
		return nil
	}
	for _, in := range inputs {
		result, err := ctx.Policy.Check(context.Background(), in)
		if err != nil {
			return engine.NewApplyError("policy evaluation failed", err).
				WithResource(in.Resource)
		}
		for _, v := range result.Violations {
			if v.Severity != policy.SeverityError {
				ctx.Logger.Warnf("policy %s: %s", v.Policy, v.Message)
			}
		}
		if !result.Allowed {
			v := firstError(result.Violations)
			if ctx.DryRun {
				ctx.Logger.Warnf("policy %s would deny: %s", v.Policy, v.Message)
				continue
			}
			return engine.NewApplyError("policy denied: "+v.Message, nil).
				WithResource(in.Resource).
				WithOperation(in.Operation).
				WithCode(engine.ErrCodePolicyDenied)
		}
	}
	return nil
}

// firstError returns the first error-severity violation.
func firstError(violations []policy.Violation) policy.Violation {
	for _, v := range violations {
		if v.Severity == policy.SeverityError {
			return v
		}
	}
	return policy.Violation{}
}

// batchOpts builds the driver options for one task, resolving the
// fix-incorrect setting from configuration.
func batchOpts(ctx *engine.RunContext, verb string, bail bool) engine.ProcessOpts {
	return engine.ProcessOpts{
		Verb:         verb,
		FixMissing:   true,
		FixIncorrect: ctx.Config.Settings.FixIncorrectEnabled(),
		BailOnError:  bail,
	}
}
