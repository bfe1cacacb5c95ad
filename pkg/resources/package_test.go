package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/executor"
)

const dpkgListLine = "dpkg-query -W -f ${Package}\\n"

func TestPackageStatesBulkQuery(t *testing.T) {
	mock := executor.NewMock().
		Script(dpkgListLine, executor.ExecResult{Stdout: "git\nripgrep\nzsh\n"})

	pkgs := []*Package{
		NewPackage("git", "apt", mock),
		NewPackage("neovim", "apt", mock),
	}
	pairs, err := PackageStates(mock, "apt", pkgs)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, engine.StateCorrect, pairs[0].State.Kind)
	assert.Equal(t, engine.StateMissing, pairs[1].State.Kind)
	assert.Len(t, mock.Calls(), 1, "the installed set is listed exactly once")
}

func TestPackageApplyRunsInstall(t *testing.T) {
	mock := executor.NewMock()
	pkg := NewPackage("ripgrep", "apt", mock)

	change, err := pkg.Apply()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeApplied, change.Kind)
	assert.Equal(t, []string{"apt-get install -y ripgrep"}, mock.CallLines())
}

func TestPackageApplyCommandFailure(t *testing.T) {
	mock := executor.NewMock().
		Script("pacman -S --noconfirm ghost", executor.ExecResult{ExitCode: 1, Stderr: "target not found"})
	pkg := NewPackage("ghost", "pacman", mock)

	_, err := pkg.Apply()
	require.Error(t, err)
	assert.True(t, engine.IsApply(err))
}

func TestPackageRemove(t *testing.T) {
	mock := executor.NewMock()
	pkg := NewPackage("zsh", "brew", mock)

	change, err := pkg.Remove()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeApplied, change.Kind)
	assert.Equal(t, []string{"brew uninstall zsh"}, mock.CallLines())
}

func TestPackageUnknownManagerIsInvalid(t *testing.T) {
	mock := executor.NewMock()
	pkg := NewPackage("git", "portage", mock)

	state := pkg.StateIn(map[string]bool{})
	assert.Equal(t, engine.StateInvalid, state.Kind)
}

func TestInstalledPackagesListFailure(t *testing.T) {
	mock := executor.NewMock().
		Script("pacman -Qq", executor.ExecResult{ExitCode: 1, Stderr: "database locked"})

	_, err := InstalledPackages(mock, "pacman")
	require.Error(t, err)
	assert.True(t, engine.IsStateQuery(err))
}

func TestChocoListParsing(t *testing.T) {
	mock := executor.NewMock().
		Script("choco list --local-only --limit-output", executor.ExecResult{Stdout: "Git|2.44.0\n7zip|23.1\n"})

	installed, err := InstalledPackages(mock, "choco")
	require.NoError(t, err)
	assert.True(t, installed["git"], "names compare case-insensitively")
	assert.True(t, installed["7zip"])
}
