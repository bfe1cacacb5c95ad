package engine

import (
	"sort"
	"strings"
)

// taskGraph is the dependency graph over one run's active task set.
// Dependency identifiers that match no active task are silently dropped:
// a task whose dependency was filtered out of the run schedules as if it
// had no such dependency.
type taskGraph struct {
	// tasks is the active set in registration order.
	tasks []Task

	// dependents maps a task ID to the IDs of tasks waiting on it.
	dependents map[TaskID][]TaskID

	// inDegree tracks the number of unsatisfied dependencies per task.
	inDegree map[TaskID]int
}

// buildTaskGraph constructs the dependency graph for the active task set.
func buildTaskGraph(tasks []Task) *taskGraph {
	g := &taskGraph{
		tasks:      tasks,
		dependents: make(map[TaskID][]TaskID, len(tasks)),
		inDegree:   make(map[TaskID]int, len(tasks)),
	}

	active := make(map[TaskID]bool, len(tasks))
	for _, t := range tasks {
		active[t.ID()] = true
		g.inDegree[t.ID()] = 0
	}

	for _, t := range tasks {
		for _, dep := range t.Dependencies() {
			if !active[dep] {
				// Filtered out of the active set: treated as satisfied.
				continue
			}
			g.dependents[dep] = append(g.dependents[dep], t.ID())
			g.inDegree[t.ID()]++
		}
	}

	return g
}

// hasCycle runs Kahn's algorithm over a copy of the in-degree map and
// reports whether any task could not be ordered. The returned string names
// the tasks stuck in the cycle, for the degrade-to-sequential log line.
func (g *taskGraph) hasCycle() (bool, string) {
	inDegree := make(map[TaskID]int, len(g.inDegree))
	for id, d := range g.inDegree {
		inDegree[id] = d
	}

	queue := make([]TaskID, 0, len(g.tasks))
	for _, t := range g.tasks {
		if inDegree[t.ID()] == 0 {
			queue = append(queue, t.ID())
		}
	}

	processed := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		processed++
		for _, dep := range g.dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if processed == len(g.tasks) {
		return false, ""
	}

	stuck := make([]string, 0)
	for id, d := range inDegree {
		if d > 0 {
			stuck = append(stuck, string(id))
		}
	}
	sort.Strings(stuck)
	return true, strings.Join(stuck, ", ")
}

// ready returns the IDs whose in-degree is currently zero, in registration
// order so sequential scheduling stays deterministic.
func (g *taskGraph) ready() []TaskID {
	ids := make([]TaskID, 0)
	for _, t := range g.tasks {
		if g.inDegree[t.ID()] == 0 {
			ids = append(ids, t.ID())
		}
	}
	return ids
}

// complete marks a task complete and returns the IDs that became ready.
// Any terminal status counts as completion: a failed or skipped dependency
// still releases its dependents (isolation between tasks is a hard
// invariant; ordering is all the graph guarantees).
func (g *taskGraph) complete(id TaskID) []TaskID {
	released := make([]TaskID, 0)
	for _, dep := range g.dependents[id] {
		g.inDegree[dep]--
		if g.inDegree[dep] == 0 {
			released = append(released, dep)
		}
	}
	return released
}
