package executor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Local executes commands on the local host. It holds no per-call mutable
// state, so a single instance is safely shared across concurrent callers.
type Local struct {
	logger zerolog.Logger
}

// NewLocal creates a local executor.
func NewLocal(logger zerolog.Logger) *Local {
	return &Local{
		logger: logger.With().Str("component", "executor").Logger(),
	}
}

// Run executes a program and fails if it cannot start or exits non-zero.
func (l *Local) Run(program string, args ...string) (ExecResult, error) {
	result, err := l.spawn("", nil, program, args...)
	if err != nil {
		return result, err
	}
	if result.ExitCode != 0 {
		return result, fmt.Errorf("%s exited with code %d: %s",
			program, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return result, nil
}

// RunUnchecked executes a program; a non-zero exit is reported through the
// result, not as an error.
func (l *Local) RunUnchecked(program string, args ...string) (ExecResult, error) {
	return l.spawn("", nil, program, args...)
}

// RunIn is Run with a working directory.
func (l *Local) RunIn(dir, program string, args ...string) (ExecResult, error) {
	result, err := l.spawn(dir, nil, program, args...)
	if err != nil {
		return result, err
	}
	if result.ExitCode != 0 {
		return result, fmt.Errorf("%s exited with code %d: %s",
			program, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return result, nil
}

// RunInWithEnv is RunIn with environment overrides layered over the
// inherited environment.
func (l *Local) RunInWithEnv(dir string, env map[string]string, program string, args ...string) (ExecResult, error) {
	result, err := l.spawn(dir, env, program, args...)
	if err != nil {
		return result, err
	}
	if result.ExitCode != 0 {
		return result, fmt.Errorf("%s exited with code %d: %s",
			program, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return result, nil
}

// Which reports whether a program exists on the search path.
func (l *Local) Which(program string) bool {
	_, err := exec.LookPath(program)
	return err == nil
}

// spawn runs the process and captures its output. Only a failure to start
// the process at all is an error; exit codes are carried in the result.
func (l *Local) spawn(dir string, env map[string]string, program string, args ...string) (ExecResult, error) {
	cmd := exec.Command(program, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if len(env) > 0 {
		merged := os.Environ()
		for k, v := range env {
			merged = append(merged, fmt.Sprintf("%s=%s", k, v))
		}
		cmd.Env = merged
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	l.logger.Debug().
		Str("program", program).
		Strs("args", args).
		Str("dir", dir).
		Msg("executing command")

	err := cmd.Run()
	result := ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("failed to execute %s: %w", program, err)
	}

	return result, nil
}
