package telemetry

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TaskRecord is one entry in the run's status record, fed to
// PrintSummary and to the run-log store.
type TaskRecord struct {
	// Name is the task name.
	Name string `json:"name"`

	// Status is the terminal task status.
	Status string `json:"status"`

	// Reason explains a skip, if any.
	Reason string `json:"reason,omitempty"`
}

// loggerCore is the state shared between a root logger and every buffered
// or component logger derived from it. The mutex serializes both raw log
// writes and buffer flushes, so concurrent task completions never
// interleave their log output.
type loggerCore struct {
	mu      sync.Mutex
	out     io.Writer
	records []TaskRecord
	cfg     LoggingConfig
}

// lockedWriter serializes unbuffered writes through the core lock.
type lockedWriter struct {
	core *loggerCore
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.core.mu.Lock()
	defer w.core.mu.Unlock()
	return w.core.out.Write(p)
}

// bufferedSink is the in-memory writer behind a buffered logger. The
// driver logs through one sink from several apply workers at once, so
// writes carry their own lock.
type bufferedSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *bufferedSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

// drain returns the buffered bytes and resets the buffer.
func (s *bufferedSink) drain() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, s.buf.Len())
	copy(out, s.buf.Bytes())
	s.buf.Reset()
	return out
}

// Logger wraps zerolog with the run-facing operations the engine needs:
// stage headers, dry-run previews, task status records and a final
// summary. It is internally synchronized; Buffered derives a sink whose
// output is held back until Flush.
type Logger struct {
	zlog zerolog.Logger
	core *loggerCore

	// buf is non-nil for buffered loggers.
	buf *bufferedSink
}

// NewLogger creates the run's root logger.
func NewLogger(cfg LoggingConfig) (*Logger, error) {
	var out io.Writer
	switch cfg.Output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		out = file
	}

	core := &loggerCore{out: out, cfg: cfg}
	l := &Logger{core: core}
	l.zlog = buildZerolog(lockedWriter{core}, cfg)
	return l, nil
}

// NewTestLogger creates a logger capturing output into the given writer,
// for tests.
func NewTestLogger(out io.Writer) *Logger {
	cfg := LoggingConfig{Level: "debug", Format: "json"}
	core := &loggerCore{out: out, cfg: cfg}
	return &Logger{
		core: core,
		zlog: buildZerolog(lockedWriter{core}, cfg),
	}
}

// buildZerolog assembles a zerolog.Logger writing to w per the config.
func buildZerolog(w io.Writer, cfg LoggingConfig) zerolog.Logger {
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: consoleTimeFormat(cfg.TimeFormat),
		}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(parseLogLevel(cfg.Level))
}

// Component creates a child logger scoped to a component. It shares the
// parent's sink and records.
func (l *Logger) Component(name string) *Logger {
	return &Logger{
		zlog: l.zlog.With().Str("component", name).Logger(),
		core: l.core,
		buf:  l.buf,
	}
}

// Z exposes the underlying zerolog logger for collaborators that want
// structured fields directly.
func (l *Logger) Z() *zerolog.Logger {
	return &l.zlog
}

// Buffered derives a logger whose output is held in memory until Flush.
// The scheduler hands one to each concurrently running task; status
// records still land in the shared record list immediately.
func (l *Logger) Buffered() *Logger {
	sink := &bufferedSink{}
	return &Logger{
		zlog: buildZerolog(sink, l.core.cfg),
		core: l.core,
		buf:  sink,
	}
}

// Flush replays a buffered logger's lines to the real sink in order,
// atomically under the shared lock. A no-op on unbuffered loggers.
func (l *Logger) Flush() {
	if l.buf == nil {
		return
	}
	lines := l.buf.drain()
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	_, _ = l.core.out.Write(lines)
}

// Stage logs the stage header that opens a task's log block.
func (l *Logger) Stage(name string) {
	l.zlog.Info().Str("stage", name).Msg("starting stage")
}

// DryRun logs the preview line for one planned, unapplied change.
func (l *Logger) DryRun(verb, description string) {
	l.zlog.Info().Bool("dry_run", true).Msgf("would %s %s", verb, description)
}

// RecordTask appends one task's terminal status to the run record.
func (l *Logger) RecordTask(name, status, reason string) {
	l.core.mu.Lock()
	l.core.records = append(l.core.records, TaskRecord{Name: name, Status: status, Reason: reason})
	l.core.mu.Unlock()

	ev := l.zlog.Debug().Str("task", name).Str("status", status)
	if reason != "" {
		ev = ev.Str("reason", reason)
	}
	ev.Msg("task recorded")
}

// Records returns a copy of the task records collected so far.
func (l *Logger) Records() []TaskRecord {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	out := make([]TaskRecord, len(l.core.records))
	copy(out, l.core.records)
	return out
}

// PrintSummary emits the consolidated per-status counts for the run,
// then one line per non-ok task.
func (l *Logger) PrintSummary() {
	records := l.Records()

	counts := map[string]int{}
	for _, r := range records {
		counts[r.Status]++
	}

	l.zlog.Info().
		Int("total", len(records)).
		Int("ok", counts["ok"]).
		Int("skipped", counts["skipped"]).
		Int("dry_run", counts["dry-run"]).
		Int("failed", counts["failed"]).
		Msg("run summary")

	for _, r := range records {
		switch r.Status {
		case "failed":
			l.zlog.Error().Str("task", r.Name).Msg("task failed")
		case "skipped":
			l.zlog.Info().Str("task", r.Name).Str("reason", r.Reason).Msg("task skipped")
		}
	}
}

// Trace logs a trace-level message.
func (l *Logger) Trace(msg string) { l.zlog.Trace().Msg(msg) }

// Tracef logs a formatted trace-level message.
func (l *Logger) Tracef(format string, args ...interface{}) { l.zlog.Trace().Msgf(format, args...) }

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string) { l.zlog.Debug().Msg(msg) }

// Debugf logs a formatted debug-level message.
func (l *Logger) Debugf(format string, args ...interface{}) { l.zlog.Debug().Msgf(format, args...) }

// Info logs an info-level message.
func (l *Logger) Info(msg string) { l.zlog.Info().Msg(msg) }

// Infof logs a formatted info-level message.
func (l *Logger) Infof(format string, args ...interface{}) { l.zlog.Info().Msgf(format, args...) }

// Warn logs a warning-level message.
func (l *Logger) Warn(msg string) { l.zlog.Warn().Msg(msg) }

// Warnf logs a formatted warning-level message.
func (l *Logger) Warnf(format string, args ...interface{}) { l.zlog.Warn().Msgf(format, args...) }

// Error logs an error-level message.
func (l *Logger) Error(msg string) { l.zlog.Error().Msg(msg) }

// Errorf logs a formatted error-level message.
func (l *Logger) Errorf(format string, args ...interface{}) { l.zlog.Error().Msgf(format, args...) }

// parseLogLevel converts a string log level to zerolog.Level.
func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// consoleTimeFormat returns the timestamp format for console output.
func consoleTimeFormat(format string) string {
	switch format {
	case "unix":
		return zerolog.TimeFormatUnix
	default:
		return time.RFC3339
	}
}
