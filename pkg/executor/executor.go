// Package executor abstracts external command execution behind an
// interface so every side-effecting call is interceptable and mockable.
// Implementations must be safe for concurrent use: multiple resources
// invoke the executor concurrently during parallel reconciliation.
package executor

import (
	"strings"
)

// ExecResult captures the observable outcome of one spawned process.
type ExecResult struct {
	// Stdout is the captured standard output.
	Stdout string `json:"stdout"`

	// Stderr is the captured standard error.
	Stderr string `json:"stderr"`

	// ExitCode is the process exit code.
	ExitCode int `json:"exit_code"`
}

// Lines splits the trimmed stdout into lines, dropping empty ones.
func (r ExecResult) Lines() []string {
	out := make([]string, 0)
	for _, line := range strings.Split(r.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Executor is the process-execution boundary. Run enforces success,
// RunUnchecked leaves exit-code inspection to the caller.
type Executor interface {
	// Run executes a program and fails if it cannot start or exits
	// non-zero.
	Run(program string, args ...string) (ExecResult, error)

	// RunUnchecked executes a program and never fails on a non-zero exit;
	// the caller inspects the result. It still fails if the process
	// cannot start at all.
	RunUnchecked(program string, args ...string) (ExecResult, error)

	// RunIn is Run with a working directory.
	RunIn(dir, program string, args ...string) (ExecResult, error)

	// RunInWithEnv is RunIn with environment variable overrides layered
	// over the inherited environment.
	RunInWithEnv(dir string, env map[string]string, program string, args ...string) (ExecResult, error)

	// Which reports whether a program exists on the search path. Used as
	// a guard before any task that depends on an external tool.
	Which(program string) bool
}
