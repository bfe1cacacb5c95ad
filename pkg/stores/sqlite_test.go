package stores

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeforge/homeforge/pkg/engine"
)

func openTestStore(t *testing.T) *RunStore {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleReport() *engine.RunReport {
	return &engine.RunReport{
		StartedAt: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Records: []engine.TaskRecord{
			{ID: "packages", Name: "Packages", Status: engine.TaskOk, Duration: 900 * time.Millisecond},
			{ID: "symlinks", Name: "Symlinks", Status: engine.TaskSkipped, Reason: "not applicable"},
			{ID: "services", Name: "Services", Status: engine.TaskFailed, Err: "unit not found"},
		},
		Summary: engine.RunSummary{Total: 3, Ok: 1, Skipped: 1, Failed: 1},
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening must not attempt to re-run the migrations.
	s, err = Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestSaveReportRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveReport(ctx, sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, tasks, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "failed", run.Status)
	assert.Equal(t, 1500*time.Millisecond, run.Duration)
	assert.Equal(t, 3, run.Total)
	assert.Equal(t, 1, run.Ok)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, 1, run.Failed)
	assert.False(t, run.Degraded)

	require.Len(t, tasks, 3)
	assert.Equal(t, "Packages", tasks[0].Name)
	assert.Equal(t, string(engine.TaskOk), tasks[0].Status)
	assert.Equal(t, 900*time.Millisecond, tasks[0].Duration)
	assert.Equal(t, "not applicable", tasks[1].Reason)
	assert.Equal(t, "unit not found", tasks[2].Error)
}

func TestSaveReportOkStatus(t *testing.T) {
	s := openTestStore(t)
	report := &engine.RunReport{
		StartedAt: time.Now().UTC(),
		Summary:   engine.RunSummary{Total: 1, Ok: 1},
		Records:   []engine.TaskRecord{{ID: "symlinks", Name: "Symlinks", Status: engine.TaskOk}},
	}

	id, err := s.SaveReport(context.Background(), report)
	require.NoError(t, err)

	run, _, err := s.GetRun(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "ok", run.Status)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := sampleReport()
	newer := sampleReport()
	newer.StartedAt = older.StartedAt.Add(time.Hour)

	olderID, err := s.SaveReport(ctx, older)
	require.NoError(t, err)
	newerID, err := s.SaveReport(ctx, newer)
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newerID, runs[0].ID)
	assert.Equal(t, olderID, runs[1].ID)
}

func TestListRunsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		report := sampleReport()
		report.StartedAt = report.StartedAt.Add(time.Duration(i) * time.Minute)
		_, err := s.SaveReport(ctx, report)
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, _, err := s.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.True(t, engine.IsPermanent(err))

	var engineErr *engine.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, engine.ErrCodeNotFound, engineErr.Code)
}
