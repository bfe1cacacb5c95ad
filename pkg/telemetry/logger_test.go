package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(raw), &entry), raw)
		lines = append(lines, entry)
	}
	return lines
}

func TestDryRunLineShape(t *testing.T) {
	var buf bytes.Buffer
	l := NewTestLogger(&buf)

	l.DryRun("link", "symlink ~/.vimrc -> dotfiles/vimrc")

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, true, lines[0]["dry_run"])
	assert.Equal(t, "would link symlink ~/.vimrc -> dotfiles/vimrc", lines[0]["message"])
}

func TestRecordTaskAndRecords(t *testing.T) {
	l := NewTestLogger(&bytes.Buffer{})

	l.RecordTask("symlinks", "ok", "")
	l.RecordTask("registry", "skipped", "not applicable")

	records := l.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "symlinks", records[0].Name)
	assert.Equal(t, "not applicable", records[1].Reason)
}

func TestBufferedHoldsOutputUntilFlush(t *testing.T) {
	var buf bytes.Buffer
	root := NewTestLogger(&buf)

	task := root.Buffered()
	task.Info("inside the task")
	assert.Empty(t, buf.String(), "buffered output stays in memory until Flush")

	task.Flush()
	assert.Contains(t, buf.String(), "inside the task")
}

func TestBufferedSharesRecords(t *testing.T) {
	root := NewTestLogger(&bytes.Buffer{})

	task := root.Buffered()
	task.RecordTask("packages", "ok", "")

	require.Len(t, root.Records(), 1, "records bypass the buffer")
}

// Each task's flushed block must land contiguously even when many tasks
// flush concurrently.
func TestConcurrentFlushBlocksStayContiguous(t *testing.T) {
	var buf bytes.Buffer
	root := NewTestLogger(&buf)

	const tasks = 8
	const linesPerTask = 20

	var wg sync.WaitGroup
	for i := 0; i < tasks; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			task := root.Buffered()
			name := string(rune('a' + n))
			for j := 0; j < linesPerTask; j++ {
				task.Infof("task-%s line", name)
			}
			task.Flush()
		}(i)
	}
	wg.Wait()

	lines := logLines(t, &buf)
	require.Len(t, lines, tasks*linesPerTask)

	// Within the serialized output, each task's lines must be adjacent.
	seen := map[string]int{}
	last := ""
	for _, entry := range lines {
		msg := entry["message"].(string)
		if msg != last {
			seen[msg]++
			last = msg
		}
	}
	for msg, blocks := range seen {
		assert.Equal(t, 1, blocks, "%s was interleaved across blocks", msg)
	}
}

// One buffered logger is shared by every apply worker within a task, so
// its sink must take concurrent writes without corruption.
func TestBufferedSinkConcurrentWriters(t *testing.T) {
	var buf bytes.Buffer
	root := NewTestLogger(&buf)
	task := root.Buffered()

	const workers = 10
	const linesPerWorker = 100

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < linesPerWorker; j++ {
				task.Infof("worker %d line %d", n, j)
			}
		}(i)
	}
	wg.Wait()
	task.Flush()

	// Every line must survive as intact JSON.
	lines := logLines(t, &buf)
	assert.Len(t, lines, workers*linesPerWorker)
}

func TestComponentLoggerSharesSink(t *testing.T) {
	var buf bytes.Buffer
	root := NewTestLogger(&buf)

	root.Component("scheduler").Info("ready")

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "scheduler", lines[0]["component"])
}

func TestPrintSummaryCounts(t *testing.T) {
	var buf bytes.Buffer
	l := NewTestLogger(&buf)
	l.RecordTask("a", "ok", "")
	l.RecordTask("b", "failed", "")
	l.RecordTask("c", "skipped", "not applicable")

	l.PrintSummary()

	lines := logLines(t, &buf)
	var summary map[string]interface{}
	for _, entry := range lines {
		if entry["message"] == "run summary" {
			summary = entry
		}
	}
	require.NotNil(t, summary)
	assert.Equal(t, float64(3), summary["total"])
	assert.Equal(t, float64(1), summary["ok"])
	assert.Equal(t, float64(1), summary["failed"])
	assert.Equal(t, float64(1), summary["skipped"])
}

func TestParseLogLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, "info", parseLogLevel("nonsense").String())
	assert.Equal(t, "debug", parseLogLevel("debug").String())
}
