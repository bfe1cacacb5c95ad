package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"

	"github.com/homeforge/homeforge/pkg/engine"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunStore persists runs and their task records in SQLite.
type RunStore struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the XDG-resolved default database path.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "homeforge", "runs.db")
}

// Open opens the database at path, creating and migrating it as needed.
func Open(ctx context.Context, path string) (*RunStore, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open run database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping run database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &RunStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// migrate applies the embedded schema migrations.
func (s *RunStore) migrate() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}
	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SaveReport persists one run report and returns the assigned run ID.
func (s *RunStore) SaveReport(ctx context.Context, report *engine.RunReport) (string, error) {
	runID := uuid.NewString()
	status := "ok"
	if report.Failed() {
		status = "failed"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, duration_ms, status, degraded,
			total, ok, skipped, dry_run, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, report.StartedAt.UTC(), report.Duration.Milliseconds(), status,
		report.Degraded, report.Summary.Total, report.Summary.Ok,
		report.Summary.Skipped, report.Summary.DryRun, report.Summary.Failed)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for _, rec := range report.Records {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO task_records (run_id, name, status, reason, error, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, rec.Name, string(rec.Status), rec.Reason, rec.Err,
			rec.Duration.Milliseconds())
		if err != nil {
			return "", fmt.Errorf("failed to insert task record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, duration_ms, status, degraded,
			total, ok, skipped, dry_run, failed
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.StartedAt, &durationMS, &r.Status, &r.Degraded,
			&r.Total, &r.Ok, &r.Skipped, &r.DryRun, &r.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run and its task records.
func (s *RunStore) GetRun(ctx context.Context, id string) (RunRecord, []TaskRow, error) {
	var r RunRecord
	var durationMS int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, duration_ms, status, degraded,
			total, ok, skipped, dry_run, failed
		FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.StartedAt, &durationMS, &r.Status, &r.Degraded,
			&r.Total, &r.Ok, &r.Skipped, &r.DryRun, &r.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, nil, engine.NewPermanentError("run not found", nil).
			WithResource(id).WithCode(engine.ErrCodeNotFound)
	}
	if err != nil {
		return RunRecord{}, nil, fmt.Errorf("failed to load run: %w", err)
	}
	r.Duration = time.Duration(durationMS) * time.Millisecond

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, name, status, reason, error, duration_ms
		FROM task_records WHERE run_id = ? ORDER BY id`, id)
	if err != nil {
		return RunRecord{}, nil, fmt.Errorf("failed to load task records: %w", err)
	}
	defer rows.Close()

	var tasks []TaskRow
	for rows.Next() {
		var t TaskRow
		var taskMS int64
		if err := rows.Scan(&t.RunID, &t.Name, &t.Status, &t.Reason, &t.Error, &taskMS); err != nil {
			return RunRecord{}, nil, fmt.Errorf("failed to scan task record: %w", err)
		}
		t.Duration = time.Duration(taskMS) * time.Millisecond
		tasks = append(tasks, t)
	}
	return r, tasks, rows.Err()
}
