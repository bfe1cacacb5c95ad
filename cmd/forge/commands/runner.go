package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/homeforge/homeforge/pkg/config"
	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/executor"
	"github.com/homeforge/homeforge/pkg/platform"
	"github.com/homeforge/homeforge/pkg/policy"
	"github.com/homeforge/homeforge/pkg/stores"
	"github.com/homeforge/homeforge/pkg/telemetry"
)

// runner bundles everything one CLI run needs: the telemetry stack, the
// detected platform, the loaded config and the run context handed to the
// scheduler.
type runner struct {
	logger  *telemetry.Logger
	exec    executor.Executor
	plat    platform.Platform
	cfg     *config.Config
	runCtx  *engine.RunContext
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
}

// setup builds the run environment from the global flags.
func setup(dryRun bool) (*runner, error) {
	tcfg := telemetry.DefaultConfig()
	if verbose {
		tcfg.Logging.Level = "debug"
	}
	if jsonLogs {
		tcfg.Logging.Format = "json"
	}
	if metricsListen != "" {
		tcfg.Metrics.Enabled = true
		tcfg.Metrics.ListenAddress = metricsListen
	}
	if traceExporter != "" {
		tcfg.Tracing.Enabled = true
		tcfg.Tracing.Exporter = traceExporter
		tcfg.Tracing.Endpoint = traceEndpoint
		tcfg.Tracing.Insecure = true
	}

	logger, err := telemetry.NewLogger(tcfg.Logging)
	if err != nil {
		return nil, err
	}

	exec := executor.NewLocal(*logger.Z())
	plat := platform.Detect(exec)

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.NewLoader().Load(path, profile, plat.Facts())
	if err != nil {
		return nil, err
	}

	pol := policy.NewEngine(*logger.Z())
	if policyDir != "" {
		if err := pol.LoadDir(policyDir); err != nil {
			return nil, err
		}
	}

	metrics, err := telemetry.NewMetrics(tcfg.Metrics)
	if err != nil {
		return nil, err
	}
	var tracer *telemetry.Tracer
	if tcfg.Tracing.Enabled {
		tracer, err = telemetry.NewTracer(tcfg.Tracing, tcfg.ServiceName, tcfg.ServiceVersion)
		if err != nil {
			return nil, err
		}
	}

	r := &runner{
		logger:  logger,
		exec:    exec,
		plat:    plat,
		cfg:     cfg,
		metrics: metrics,
		tracer:  tracer,
	}
	r.runCtx = &engine.RunContext{
		Config:   cfg,
		Platform: plat,
		Logger:   logger,
		DryRun:   dryRun,
		Home:     home,
		Exec:     exec,
		Parallel: parallel || cfg.Settings.Parallel,
		Policy:   pol,
		Metrics:  metrics,
	}
	return r, nil
}

// execute schedules the task list and reports the outcome. A run with any
// failed task returns an error so the process exits non-zero.
func (r *runner) execute(ctx context.Context, tasks []engine.Task) (err error) {
	if r.metrics != nil && metricsListen != "" {
		server := r.metrics.StartServer()
		if server != nil {
			defer func() { _ = server.Shutdown(ctx) }()
		}
	}
	if r.tracer != nil {
		defer func() { _ = r.tracer.Shutdown(ctx) }()

		spanCtx, span := r.tracer.StartRun(ctx, uuid.NewString())
		ctx = spanCtx
		defer func() {
			telemetry.RecordError(span, err)
			span.End()
		}()
	}

	sched := engine.NewScheduler(maxParallel).
		WithMetrics(r.metrics).
		WithTracer(r.tracer)
	report := sched.Run(r.runCtx, tasks)

	r.persist(ctx, report)

	if report.Failed() {
		return fmt.Errorf("%d of %d tasks failed", report.Summary.Failed, report.Summary.Total)
	}
	return nil
}

// persist saves the run report to the run-log store. Store failures are
// logged, not fatal: the run already happened.
func (r *runner) persist(ctx context.Context, report *engine.RunReport) {
	if noStore || r.runCtx.DryRun {
		return
	}
	path := storePath
	if path == "" {
		path = stores.DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.logger.Warnf("run log unavailable: %v", err)
		return
	}
	store, err := stores.Open(ctx, path)
	if err != nil {
		r.logger.Warnf("run log unavailable: %v", err)
		return
	}
	defer func() { _ = store.Close() }()

	runID, err := store.SaveReport(ctx, report)
	if err != nil {
		r.logger.Warnf("failed to save run log: %v", err)
		return
	}
	r.logger.Debugf("run recorded as %s", runID)
}
