package executor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecResultLines(t *testing.T) {
	res := ExecResult{Stdout: "git\n\n  ripgrep  \nzsh\n"}
	assert.Equal(t, []string{"git", "ripgrep", "zsh"}, res.Lines())

	assert.Empty(t, ExecResult{}.Lines())
}

func TestMockScriptedResult(t *testing.T) {
	mock := NewMock().
		Script("systemctl --user is-enabled foo.service", ExecResult{Stdout: "enabled\n"})

	res, err := mock.Run("systemctl", "--user", "is-enabled", "foo.service")
	require.NoError(t, err)
	assert.Equal(t, "enabled\n", res.Stdout)
}

func TestMockRunFailsOnNonZeroExit(t *testing.T) {
	mock := NewMock().
		Script("apt-get install -y ghost", ExecResult{ExitCode: 100, Stderr: "E: Unable to locate package"})

	res, err := mock.Run("apt-get", "install", "-y", "ghost")
	require.Error(t, err)
	assert.Equal(t, 100, res.ExitCode)
	assert.Contains(t, err.Error(), "exited with code 100")
}

func TestMockRunUncheckedCarriesExitCode(t *testing.T) {
	mock := NewMock().
		Script("reg query HKCU /v Gone", ExecResult{ExitCode: 1})

	res, err := mock.RunUnchecked("reg", "query", "HKCU", "/v", "Gone")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
}

func TestMockScriptedSpawnFailure(t *testing.T) {
	spawnErr := errors.New("executable file not found")
	mock := NewMock().ScriptError("ghost --version", spawnErr)

	_, err := mock.RunUnchecked("ghost", "--version")
	assert.ErrorIs(t, err, spawnErr)
}

func TestMockRecordsCallsInOrder(t *testing.T) {
	mock := NewMock()
	_, _ = mock.Run("first", "a")
	_, _ = mock.RunIn("/tmp", "second", "b")

	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "first a", calls[0].String())
	assert.Equal(t, "/tmp", calls[1].Dir)
	assert.Equal(t, []string{"first a", "second b"}, mock.CallLines())
}

func TestMockWhich(t *testing.T) {
	mock := NewMock().MarkMissing("choco")

	assert.True(t, mock.Which("apt"))
	assert.False(t, mock.Which("choco"))
}
