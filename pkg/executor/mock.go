package executor

import (
	"fmt"
	"strings"
	"sync"
)

// Call records one invocation observed by the mock executor.
type Call struct {
	// Program is the invoked program.
	Program string

	// Args are the invocation arguments.
	Args []string

	// Dir is the working directory, if any.
	Dir string

	// Env are the environment overrides, if any.
	Env map[string]string
}

// String renders the call the way it would appear on a shell line.
func (c Call) String() string {
	parts := append([]string{c.Program}, c.Args...)
	return strings.Join(parts, " ")
}

// Mock is a scripted executor for tests. It records every invocation and
// returns results scripted per command line, so tasks and resources can be
// unit-tested without touching the real system. Safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// calls holds every invocation in order.
	calls []Call

	// results maps a rendered command line to its scripted result.
	results map[string]ExecResult

	// startErrs maps a rendered command line to a scripted spawn failure.
	startErrs map[string]error

	// missing holds programs Which reports as absent.
	missing map[string]bool
}

// NewMock creates an empty scripted executor. Unscripted commands succeed
// with empty output.
func NewMock() *Mock {
	return &Mock{
		results:   make(map[string]ExecResult),
		startErrs: make(map[string]error),
		missing:   make(map[string]bool),
	}
}

// Script registers the result returned for an exact command line.
func (m *Mock) Script(line string, result ExecResult) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[line] = result
	return m
}

// ScriptError registers a spawn failure for an exact command line.
func (m *Mock) ScriptError(line string, err error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startErrs[line] = err
	return m
}

// MarkMissing makes Which report the program as absent.
func (m *Mock) MarkMissing(program string) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.missing[program] = true
	return m
}

// Calls returns a copy of every recorded invocation.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallLines returns the recorded invocations rendered as shell lines.
func (m *Mock) CallLines() []string {
	calls := m.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// Run executes a scripted command, failing on non-zero exit.
func (m *Mock) Run(program string, args ...string) (ExecResult, error) {
	result, err := m.record(Call{Program: program, Args: args})
	if err != nil {
		return result, err
	}
	if result.ExitCode != 0 {
		return result, fmt.Errorf("%s exited with code %d: %s",
			program, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return result, nil
}

// RunUnchecked executes a scripted command; exit codes are carried in the
// result.
func (m *Mock) RunUnchecked(program string, args ...string) (ExecResult, error) {
	return m.record(Call{Program: program, Args: args})
}

// RunIn is Run with a working directory.
func (m *Mock) RunIn(dir, program string, args ...string) (ExecResult, error) {
	result, err := m.record(Call{Program: program, Args: args, Dir: dir})
	if err != nil {
		return result, err
	}
	if result.ExitCode != 0 {
		return result, fmt.Errorf("%s exited with code %d", program, result.ExitCode)
	}
	return result, nil
}

// RunInWithEnv is RunIn with environment overrides.
func (m *Mock) RunInWithEnv(dir string, env map[string]string, program string, args ...string) (ExecResult, error) {
	result, err := m.record(Call{Program: program, Args: args, Dir: dir, Env: env})
	if err != nil {
		return result, err
	}
	if result.ExitCode != 0 {
		return result, fmt.Errorf("%s exited with code %d", program, result.ExitCode)
	}
	return result, nil
}

// Which reports scripted program presence.
func (m *Mock) Which(program string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.missing[program]
}

// record appends the call and resolves its scripted outcome.
func (m *Mock) record(call Call) (ExecResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)

	line := call.String()
	if err, ok := m.startErrs[line]; ok {
		return ExecResult{}, err
	}
	if result, ok := m.results[line]; ok {
		return result, nil
	}
	return ExecResult{}, nil
}
