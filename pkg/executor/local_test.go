package executor

import (
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localForTest() *Local {
	return NewLocal(zerolog.Nop())
}

func TestLocalRunCapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX tools")
	}

	res, err := localForTest().Run("echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}

func TestLocalRunNonZeroExitIsError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX tools")
	}

	res, err := localForTest().Run("false")
	require.Error(t, err)
	assert.NotEqual(t, 0, res.ExitCode)
}

func TestLocalRunUncheckedNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX tools")
	}

	res, err := localForTest().RunUnchecked("false")
	require.NoError(t, err, "a non-zero exit is a result, not an error")
	assert.Equal(t, 1, res.ExitCode)
}

func TestLocalRunUncheckedMissingProgram(t *testing.T) {
	_, err := localForTest().RunUnchecked("definitely-not-a-real-program-xyz")
	assert.Error(t, err, "a program that cannot start at all is still an error")
}

func TestLocalRunInWithEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX tools")
	}

	res, err := localForTest().RunInWithEnv(t.TempDir(), map[string]string{"FORGE_TEST_VAR": "42"},
		"sh", "-c", "echo $FORGE_TEST_VAR && pwd")
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "42")
}

func TestLocalWhich(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX tools")
	}

	l := localForTest()
	assert.True(t, l.Which("sh"))
	assert.False(t, l.Which("definitely-not-a-real-program-xyz"))
}
