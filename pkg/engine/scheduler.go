package engine

import (
	"sync"
	"time"

	"github.com/homeforge/homeforge/pkg/telemetry"
)

// Scheduler resolves execution order from declared task dependencies and
// drives task execution, sequentially or with bounded concurrency,
// recording outcomes.
//
// A single task failure never aborts the run: the failure is recorded and
// scheduling continues. A dependency cycle abandons dependency-based
// ordering for the run and falls back to sequential registration order,
// since dependency declarations are a hint for concurrency, not a
// correctness requirement.
type Scheduler struct {
	// maxParallel is the maximum number of concurrently running tasks.
	maxParallel int

	// metrics records per-task outcomes. Nil disables metrics.
	metrics *telemetry.Metrics

	// tracer produces one span per task. Nil disables tracing.
	tracer *telemetry.Tracer
}

// NewScheduler creates a scheduler with the given worker bound.
func NewScheduler(maxParallel int) *Scheduler {
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}
	return &Scheduler{maxParallel: maxParallel}
}

// WithMetrics attaches a metrics collector.
func (s *Scheduler) WithMetrics(m *telemetry.Metrics) *Scheduler {
	s.metrics = m
	return s
}

// WithTracer attaches a tracer.
func (s *Scheduler) WithTracer(t *telemetry.Tracer) *Scheduler {
	s.tracer = t
	return s
}

// Run executes the registered task list and returns the run report.
// The report lists a terminal record for every task; the summary is also
// replayed through the context's logger.
func (s *Scheduler) Run(ctx *RunContext, tasks []Task) *RunReport {
	report := &RunReport{
		StartedAt: time.Now(),
		Summary:   RunSummary{Total: len(tasks)},
	}

	graph := buildTaskGraph(tasks)
	cyclic, stuck := graph.hasCycle()
	if cyclic {
		ctx.Logger.Warnf("dependency cycle involving %s; executing in registration order", stuck)
		report.Degraded = true
	}

	if ctx.Parallel && !cyclic {
		s.runGraph(ctx, tasks, graph, report)
	} else {
		s.runSequential(ctx, tasks, report)
	}

	for _, rec := range report.Records {
		switch rec.Status {
		case TaskOk:
			report.Summary.Ok++
		case TaskSkipped:
			report.Summary.Skipped++
		case TaskDryRun:
			report.Summary.DryRun++
		case TaskFailed:
			report.Summary.Failed++
		}
	}
	report.Duration = time.Since(report.StartedAt)

	if s.metrics != nil {
		result := "ok"
		if report.Failed() {
			result = "failed"
		}
		s.metrics.RunCompleted(result, report.Duration)
	}

	ctx.Logger.PrintSummary()
	return report
}

// runSequential executes tasks strictly in registration order. This is
// both the parallel=false path and the cycle-fallback path.
func (s *Scheduler) runSequential(ctx *RunContext, tasks []Task, report *RunReport) {
	for _, t := range tasks {
		report.Records = append(report.Records, s.runTask(ctx, t))
	}
}

// runGraph executes tasks with a ready-queue topological scheduler: a task
// enters the ready set the instant its in-degree reaches zero, and a
// bounded worker pool consumes the ready set. Only the dependency graph's
// partial order is guaranteed, not registration order.
func (s *Scheduler) runGraph(ctx *RunContext, tasks []Task, graph *taskGraph, report *RunReport) {
	byID := make(map[TaskID]Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID()] = t
	}

	workers := s.maxParallel
	if len(tasks) < workers {
		workers = len(tasks)
	}

	// Buffered to the task count so enqueues never block a worker.
	readyCh := make(chan Task, len(tasks))

	var mu sync.Mutex
	remaining := len(tasks)

	for _, id := range graph.ready() {
		readyCh <- byID[id]
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range readyCh {
				// Each concurrently running task logs into its own buffer,
				// flushed block-atomically on completion so interleaved
				// task output never corrupts a single task's log block.
				taskLogger := ctx.Logger.Buffered()
				rec := s.runTask(ctx.WithLogger(taskLogger), t)
				taskLogger.Flush()

				mu.Lock()
				report.Records = append(report.Records, rec)
				released := graph.complete(t.ID())
				remaining--
				last := remaining == 0
				mu.Unlock()

				for _, id := range released {
					readyCh <- byID[id]
				}
				if last {
					close(readyCh)
				}
			}
		}()
	}
	wg.Wait()
}

// runTask drives the per-task state machine:
// Pending -> {Skipped | Running -> {Ok | Skipped | DryRun | Failed}}.
func (s *Scheduler) runTask(ctx *RunContext, t Task) TaskRecord {
	rec := TaskRecord{ID: t.ID(), Name: t.Name()}

	// ShouldRun is evaluated fresh each run, never cached.
	if !t.ShouldRun(ctx) {
		rec.Status = TaskSkipped
		rec.Reason = "not applicable"
		ctx.Logger.RecordTask(rec.Name, string(rec.Status), rec.Reason)
		s.observe(rec)
		return rec
	}

	ctx.Logger.Stage(t.Name())
	endSpan := func() {}
	if s.tracer != nil {
		endSpan = s.tracer.StartTask(t.Name())
	}

	start := time.Now()
	result, err := t.Run(ctx)
	rec.Duration = time.Since(start)
	endSpan()

	if err != nil {
		rec.Status = TaskFailed
		rec.Err = err.Error()
		ctx.Logger.Errorf("task %s failed: %v", t.Name(), err)
	} else {
		rec.Status = result.Status
		rec.Reason = result.Reason
	}

	ctx.Logger.RecordTask(rec.Name, string(rec.Status), rec.Reason)
	s.observe(rec)
	return rec
}

// observe feeds a terminal record into the metrics collector.
func (s *Scheduler) observe(rec TaskRecord) {
	if s.metrics == nil {
		return
	}
	s.metrics.TaskCompleted(rec.Name, string(rec.Status), rec.Duration)
}
