package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/homeforge/homeforge/pkg/engine"
)

// Symlink asserts that Path is a symbolic link pointing at Target. Both
// paths are absolute, expanded by the config layer.
type Symlink struct {
	// Path is the link location.
	Path string

	// Target is the link destination.
	Target string
}

// NewSymlink creates a symlink resource.
func NewSymlink(path, target string) *Symlink {
	return &Symlink{Path: path, Target: target}
}

// Description identifies the link for log lines.
func (s *Symlink) Description() string {
	return fmt.Sprintf("symlink %s -> %s", s.Path, s.Target)
}

// CurrentState classifies the link location.
func (s *Symlink) CurrentState() (engine.ResourceState, error) {
	info, err := os.Lstat(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return engine.Missing(), nil
	}
	if err != nil {
		return engine.ResourceState{}, engine.NewStateQueryError("failed to stat link path", err).
			WithResource(s.Path)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		kind := "file"
		if info.IsDir() {
			kind = "directory"
		}
		return engine.IncorrectState(fmt.Sprintf("existing %s, not a symlink", kind)), nil
	}

	dest, err := os.Readlink(s.Path)
	if err != nil {
		return engine.ResourceState{}, engine.NewStateQueryError("failed to read link", err).
			WithResource(s.Path)
	}
	if dest != s.Target {
		return engine.IncorrectState(fmt.Sprintf("points at %s", dest)), nil
	}
	return engine.Correct(), nil
}

// Apply creates the link, replacing whatever currently occupies the path.
func (s *Symlink) Apply() (engine.ResourceChange, error) {
	state, err := s.CurrentState()
	if err != nil {
		return engine.ResourceChange{}, err
	}
	if state.Kind == engine.StateCorrect {
		return engine.AlreadyCorrect(), nil
	}

	if state.Kind == engine.StateIncorrect {
		if err := os.Remove(s.Path); err != nil {
			return engine.ResourceChange{}, engine.NewApplyError("failed to remove existing path", err).
				WithResource(s.Path).WithOperation("symlink")
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("failed to create parent directory", err).
			WithResource(s.Path).WithOperation("symlink")
	}
	if err := os.Symlink(s.Target, s.Path); err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("failed to create symlink", err).
			WithResource(s.Path).WithOperation("symlink")
	}
	return engine.Applied(), nil
}

// Remove deletes the link. It refuses to delete anything that is not a
// symlink, so a removal run never destroys a real file at the path.
func (s *Symlink) Remove() (engine.ResourceChange, error) {
	info, err := os.Lstat(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return engine.AlreadyCorrect(), nil
	}
	if err != nil {
		return engine.ResourceChange{}, engine.NewStateQueryError("failed to stat link path", err).
			WithResource(s.Path)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return engine.ChangeSkippedBecause("path is not a symlink"), nil
	}
	if err := os.Remove(s.Path); err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("failed to remove symlink", err).
			WithResource(s.Path).WithOperation("remove")
	}
	return engine.Applied(), nil
}
