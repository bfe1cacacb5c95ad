package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/executor"
)

const regQueryOutput = `
HKEY_CURRENT_USER\Software\HomeForge
    Theme    REG_SZ    dark
`

func TestRegistryValueOffWindowsIsInvalid(t *testing.T) {
	value := NewRegistryValue(`HKCU\Software\HomeForge`, "Theme", "REG_SZ", "dark", "linux", executor.NewMock())

	state, err := value.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, engine.StateInvalid, state.Kind)

	change, err := value.Apply()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeSkipped, change.Kind)
}

func TestRegistryValueCorrect(t *testing.T) {
	mock := executor.NewMock().
		Script(`reg query HKCU\Software\HomeForge /v Theme`, executor.ExecResult{Stdout: regQueryOutput})
	value := NewRegistryValue(`HKCU\Software\HomeForge`, "Theme", "REG_SZ", "dark", "windows", mock)

	state, err := value.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, engine.StateCorrect, state.Kind)
}

func TestRegistryValueIncorrect(t *testing.T) {
	mock := executor.NewMock().
		Script(`reg query HKCU\Software\HomeForge /v Theme`, executor.ExecResult{Stdout: regQueryOutput})
	value := NewRegistryValue(`HKCU\Software\HomeForge`, "Theme", "REG_SZ", "light", "windows", mock)

	state, err := value.CurrentState()
	require.NoError(t, err)
	require.Equal(t, engine.StateIncorrect, state.Kind)
	assert.Contains(t, state.Current, "dark")
}

func TestRegistryValueMissing(t *testing.T) {
	mock := executor.NewMock().
		Script(`reg query HKCU\Software\HomeForge /v Gone`,
			executor.ExecResult{ExitCode: 1, Stderr: "ERROR: The system was unable to find the specified registry key or value."})
	value := NewRegistryValue(`HKCU\Software\HomeForge`, "Gone", "REG_SZ", "x", "windows", mock)

	state, err := value.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, engine.StateMissing, state.Kind)
}

func TestRegistryValueApplyAndRemove(t *testing.T) {
	mock := executor.NewMock()
	value := NewRegistryValue(`HKCU\Software\HomeForge`, "Theme", "REG_SZ", "dark", "windows", mock)

	change, err := value.Apply()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeApplied, change.Kind)

	change, err = value.Remove()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeApplied, change.Kind)

	assert.Equal(t, []string{
		`reg add HKCU\Software\HomeForge /v Theme /t REG_SZ /d dark /f`,
		`reg delete HKCU\Software\HomeForge /v Theme /f`,
	}, mock.CallLines())
}
