package engine

import (
	"sync"
)

// defaultMaxParallel bounds the worker pool used for resource-level
// dispatch when the run context enables parallelism.
const defaultMaxParallel = 10

// batchItem is one classified resource awaiting action.
type batchItem struct {
	resource Resource
	state    ResourceState
}

// ProcessResources is the generic reconciliation loop. It queries each
// resource's current state, classifies it, filters it through the fix
// scope, then applies changes (or previews them in dry-run mode) and
// aggregates statistics.
//
// A state-query failure aborts the batch immediately: correctness cannot
// be determined. An apply failure is governed by opts.BailOnError.
func ProcessResources(ctx *RunContext, resources []Resource, opts ProcessOpts) (TaskResult, error) {
	pairs := make([]ResourceWithState, 0, len(resources))
	for _, r := range resources {
		state, err := r.CurrentState()
		if err != nil {
			return TaskResult{}, NewStateQueryError("failed to determine current state", err).
				WithResource(r.Description()).
				WithOperation(opts.Verb)
		}
		pairs = append(pairs, ResourceWithState{Resource: r, State: state})
	}
	return ProcessResourceStates(ctx, pairs, opts)
}

// ProcessResourceStates is ProcessResources for resource kinds whose state
// must be queried once in bulk for performance. It consumes pre-computed
// (resource, state) pairs and skips the per-resource state query.
//
// Parallel dispatch requires that no resource's Apply depends on another's
// completion within the same batch. That independence is a precondition of
// using the driver, not something it verifies.
func ProcessResourceStates(ctx *RunContext, pairs []ResourceWithState, opts ProcessOpts) (TaskResult, error) {
	var stats BatchStats
	actionable := make([]batchItem, 0, len(pairs))

	for _, p := range pairs {
		switch p.State.Kind {
		case StateCorrect:
			stats.AlreadyCorrect++
			ctx.Logger.Debugf("%s: already correct", p.Resource.Description())
		case StateInvalid:
			stats.Skipped++
			ctx.Logger.Warnf("%s: cannot %s: %s", p.Resource.Description(), opts.Verb, p.State.Reason)
		case StateMissing:
			if !opts.FixMissing {
				stats.Skipped++
				ctx.Logger.Debugf("%s: missing, not in fix scope", p.Resource.Description())
				continue
			}
			actionable = append(actionable, batchItem{p.Resource, p.State})
		case StateIncorrect:
			if !opts.FixIncorrect {
				stats.Skipped++
				ctx.Logger.Debugf("%s: incorrect, not in fix scope", p.Resource.Description())
				continue
			}
			actionable = append(actionable, batchItem{p.Resource, p.State})
		}
	}

	if ctx.DryRun {
		for _, item := range actionable {
			stats.WouldApply++
			ctx.Logger.DryRun(opts.Verb, item.resource.Description())
		}
		logBatchStats(ctx, opts.Verb, stats)
		if stats.WouldApply > 0 {
			return ResultDryRun(), nil
		}
		return ResultOk(), nil
	}

	var err error
	if ctx.Parallel && len(actionable) > 1 {
		err = applyParallel(ctx, actionable, opts, &stats)
	} else {
		err = applySequential(ctx, actionable, opts, &stats)
	}

	logBatchStats(ctx, opts.Verb, stats)
	if err != nil {
		return TaskResult{}, err
	}
	return ResultOk(), nil
}

// applySequential reconciles actionable resources in iteration order.
func applySequential(ctx *RunContext, items []batchItem, opts ProcessOpts, stats *BatchStats) error {
	for _, item := range items {
		if err := applyOne(ctx, item, opts, stats, nil); err != nil {
			return err
		}
	}
	return nil
}

// applyParallel dispatches actionable resources across a bounded worker
// pool. With bail-on-error set, already-dispatched applies run to
// completion but no new ones are started once the first failure lands.
func applyParallel(ctx *RunContext, items []batchItem, opts ProcessOpts, stats *BatchStats) error {
	workers := defaultMaxParallel
	if len(items) < workers {
		workers = len(items)
	}

	queue := make(chan batchItem, len(items))
	for _, item := range items {
		queue <- item
	}
	close(queue)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	bailed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return opts.BailOnError && firstErr != nil
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				if bailed() {
					return
				}
				if err := applyOne(ctx, item, opts, stats, &mu); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					if opts.BailOnError {
						return
					}
				}
			}
		}()
	}

	wg.Wait()
	return firstErr
}

// applyOne reconciles a single actionable resource and updates stats.
// A non-nil mu serializes stat updates for parallel dispatch.
func applyOne(ctx *RunContext, item batchItem, opts ProcessOpts, stats *BatchStats, mu *sync.Mutex) error {
	record := func(f func()) {
		if mu != nil {
			mu.Lock()
			defer mu.Unlock()
		}
		f()
	}

	change, err := item.resource.Apply()
	if err != nil {
		countOutcome(ctx, opts.Verb, "failed")
		wrapped := NewApplyError("apply failed", err).
			WithResource(item.resource.Description()).
			WithOperation(opts.Verb)
		if opts.BailOnError {
			return wrapped
		}
		ctx.Logger.Warnf("failed to %s %s: %v", opts.Verb, item.resource.Description(), err)
		record(func() { stats.Skipped++ })
		return nil
	}

	switch change.Kind {
	case ChangeApplied:
		ctx.Logger.Infof("%s %s", pastTense(opts.Verb), item.resource.Description())
		countOutcome(ctx, opts.Verb, "applied")
		record(func() { stats.Applied++ })
	case ChangeAlreadyCorrect:
		countOutcome(ctx, opts.Verb, "already-correct")
		record(func() { stats.AlreadyCorrect++ })
	case ChangeSkipped:
		ctx.Logger.Debugf("%s: skipped: %s", item.resource.Description(), change.Reason)
		countOutcome(ctx, opts.Verb, "skipped")
		record(func() { stats.Skipped++ })
	}
	return nil
}

// countOutcome feeds one reconciliation outcome into the run's metrics
// collector, when one is attached.
func countOutcome(ctx *RunContext, verb, outcome string) {
	if ctx.Metrics != nil {
		ctx.Metrics.ResourceOutcome(verb, outcome)
	}
}

// ProcessResourcesRemove removes resources currently in their Correct
// state. All other states are skipped: removal must never attempt to fix
// a resource into existence. Failures are logged and counted as skipped;
// removal batches never bail.
func ProcessResourcesRemove(ctx *RunContext, resources []Resource, verb string) (TaskResult, error) {
	var stats BatchStats
	anyActionable := false

	for _, r := range resources {
		state, err := r.CurrentState()
		if err != nil {
			return TaskResult{}, NewStateQueryError("failed to determine current state", err).
				WithResource(r.Description()).
				WithOperation(verb)
		}
		if state.Kind != StateCorrect {
			stats.Skipped++
			ctx.Logger.Debugf("%s: not installed, nothing to %s", r.Description(), verb)
			continue
		}

		removable, ok := r.(Removable)
		if !ok {
			stats.Skipped++
			ctx.Logger.Debugf("%s: does not support removal", r.Description())
			continue
		}

		anyActionable = true
		if ctx.DryRun {
			stats.WouldApply++
			ctx.Logger.DryRun(verb, r.Description())
			continue
		}

		change, err := removable.Remove()
		if err != nil {
			ctx.Logger.Warnf("failed to %s %s: %v", verb, r.Description(), err)
			countOutcome(ctx, verb, "failed")
			stats.Skipped++
			continue
		}
		if change.Kind == ChangeApplied {
			ctx.Logger.Infof("%s %s", pastTense(verb), r.Description())
			countOutcome(ctx, verb, "applied")
			stats.Applied++
		} else {
			countOutcome(ctx, verb, "skipped")
			stats.Skipped++
		}
	}

	logBatchStats(ctx, verb, stats)
	if ctx.DryRun && anyActionable {
		return ResultDryRun(), nil
	}
	return ResultOk(), nil
}

// logBatchStats emits the one-line batch summary the reporting layer
// renders under each stage header.
func logBatchStats(ctx *RunContext, verb string, stats BatchStats) {
	ctx.Logger.Debugf("%s batch: applied=%d correct=%d skipped=%d would-apply=%d",
		verb, stats.Applied, stats.AlreadyCorrect, stats.Skipped, stats.WouldApply)
}

// pastTense turns a verb label into its log form, e.g. "link" -> "linked".
func pastTense(verb string) string {
	if len(verb) == 0 {
		return verb
	}
	if verb[len(verb)-1] == 'e' {
		return verb + "d"
	}
	return verb + "ed"
}
