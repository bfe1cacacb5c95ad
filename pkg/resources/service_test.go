package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/executor"
)

func TestServiceUnitNoSystemdIsInvalid(t *testing.T) {
	unit := NewServiceUnit("syncthing.service", true, false, false, executor.NewMock())

	state, err := unit.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, engine.StateInvalid, state.Kind)
}

func TestServiceUnitEnabledCorrect(t *testing.T) {
	mock := executor.NewMock().
		Script("systemctl --user is-enabled syncthing.service", executor.ExecResult{Stdout: "enabled\n"})
	unit := NewServiceUnit("syncthing.service", true, false, true, mock)

	state, err := unit.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, engine.StateCorrect, state.Kind)
}

func TestServiceUnitDisabledIsIncorrect(t *testing.T) {
	mock := executor.NewMock().
		Script("systemctl --user is-enabled syncthing.service",
			executor.ExecResult{Stdout: "disabled\n", ExitCode: 1})
	unit := NewServiceUnit("syncthing.service", true, false, true, mock)

	state, err := unit.CurrentState()
	require.NoError(t, err)
	require.Equal(t, engine.StateIncorrect, state.Kind)
	assert.Equal(t, "disabled", state.Current)
}

func TestServiceUnitUnknownUnitIsInvalid(t *testing.T) {
	mock := executor.NewMock().
		Script("systemctl --user is-enabled ghost.service",
			executor.ExecResult{ExitCode: 1, Stderr: "Failed to get unit file state for ghost.service: No such file or directory"})
	unit := NewServiceUnit("ghost.service", true, false, true, mock)

	state, err := unit.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, engine.StateInvalid, state.Kind)
}

func TestServiceUnitApplyEnableNow(t *testing.T) {
	mock := executor.NewMock()
	unit := NewServiceUnit("syncthing.service", true, true, true, mock)

	change, err := unit.Apply()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeApplied, change.Kind)
	assert.Equal(t, []string{"systemctl --user enable --now syncthing.service"}, mock.CallLines())
}

func TestServiceUnitApplyDisable(t *testing.T) {
	mock := executor.NewMock()
	unit := NewServiceUnit("tracker.service", false, false, true, mock)

	_, err := unit.Apply()
	require.NoError(t, err)
	assert.Equal(t, []string{"systemctl --user disable tracker.service"}, mock.CallLines())
}

func TestServiceUnitRemoveDisablesNow(t *testing.T) {
	mock := executor.NewMock()
	unit := NewServiceUnit("syncthing.service", true, false, true, mock)

	change, err := unit.Remove()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeApplied, change.Kind)
	assert.Equal(t, []string{"systemctl --user disable --now syncthing.service"}, mock.CallLines())
}
