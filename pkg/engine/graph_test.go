package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphTasks(specs map[TaskID][]TaskID, order ...TaskID) []Task {
	out := make([]Task, 0, len(order))
	for _, id := range order {
		out = append(out, &fakeTask{id: id, name: string(id), deps: specs[id], shouldRun: true})
	}
	return out
}

func TestBuildTaskGraphDropsUnknownDependencies(t *testing.T) {
	tasks := graphTasks(map[TaskID][]TaskID{
		"b": {"a", "ghost"},
	}, "a", "b")

	g := buildTaskGraph(tasks)

	assert.Equal(t, 0, g.inDegree["a"])
	assert.Equal(t, 1, g.inDegree["b"], "only the active dependency counts")
}

func TestTaskGraphNoCycle(t *testing.T) {
	tasks := graphTasks(map[TaskID][]TaskID{
		"b": {"a"},
		"c": {"a", "b"},
	}, "a", "b", "c")

	cyclic, stuck := buildTaskGraph(tasks).hasCycle()

	assert.False(t, cyclic)
	assert.Empty(t, stuck)
}

func TestTaskGraphDetectsCycle(t *testing.T) {
	tasks := graphTasks(map[TaskID][]TaskID{
		"a": {"c"},
		"b": {"a"},
		"c": {"b"},
	}, "a", "b", "c")

	cyclic, stuck := buildTaskGraph(tasks).hasCycle()

	assert.True(t, cyclic)
	assert.Equal(t, "a, b, c", stuck)
}

func TestTaskGraphReadyAndComplete(t *testing.T) {
	tasks := graphTasks(map[TaskID][]TaskID{
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
	}, "a", "b", "c", "d")

	g := buildTaskGraph(tasks)
	require.Equal(t, []TaskID{"a"}, g.ready())

	released := g.complete("a")
	assert.Equal(t, []TaskID{"b", "c"}, released)

	assert.Empty(t, g.complete("b"), "d still waits on c")
	assert.Equal(t, []TaskID{"d"}, g.complete("c"))
}
