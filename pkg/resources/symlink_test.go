package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeforge/homeforge/pkg/engine"
)

func TestSymlinkLifecycle(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dotfiles", "vimrc")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("set nocompatible\n"), 0o644))

	link := NewSymlink(filepath.Join(dir, ".vimrc"), target)

	state, err := link.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, engine.StateMissing, state.Kind)

	change, err := link.Apply()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeApplied, change.Kind)

	state, err = link.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, engine.StateCorrect, state.Kind)

	// Second apply is a no-op.
	change, err = link.Apply()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeAlreadyCorrect, change.Kind)

	change, err = link.Remove()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeApplied, change.Kind)
	_, err = os.Lstat(link.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestSymlinkReplacesWrongTarget(t *testing.T) {
	dir := t.TempDir()
	link := NewSymlink(filepath.Join(dir, "link"), filepath.Join(dir, "right"))
	require.NoError(t, os.Symlink(filepath.Join(dir, "wrong"), link.Path))

	state, err := link.CurrentState()
	require.NoError(t, err)
	require.Equal(t, engine.StateIncorrect, state.Kind)
	assert.Contains(t, state.Current, "wrong")

	change, err := link.Apply()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeApplied, change.Kind)

	dest, err := os.Readlink(link.Path)
	require.NoError(t, err)
	assert.Equal(t, link.Target, dest)
}

func TestSymlinkExistingFileIsIncorrect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conflict")
	require.NoError(t, os.WriteFile(path, []byte("real file"), 0o644))

	link := NewSymlink(path, filepath.Join(dir, "target"))
	state, err := link.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, engine.StateIncorrect, state.Kind)
	assert.Contains(t, state.Current, "not a symlink")
}

func TestSymlinkRemoveRefusesRealFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "precious")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	link := NewSymlink(path, filepath.Join(dir, "target"))
	change, err := link.Remove()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeSkipped, change.Kind)

	_, err = os.Stat(path)
	assert.NoError(t, err, "the real file must survive a removal run")
}

func TestSymlinkRemoveMissingIsNoop(t *testing.T) {
	dir := t.TempDir()
	link := NewSymlink(filepath.Join(dir, "missing"), filepath.Join(dir, "target"))

	change, err := link.Remove()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeAlreadyCorrect, change.Kind)
}

func TestSymlinkCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	link := NewSymlink(filepath.Join(dir, ".config", "nvim", "init.lua"), filepath.Join(dir, "init.lua"))

	change, err := link.Apply()
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeApplied, change.Kind)
}
