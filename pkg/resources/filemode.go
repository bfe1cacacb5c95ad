package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/homeforge/homeforge/pkg/engine"
)

// FileMode asserts that the file at Path carries the given permission
// bits. It never creates the file: a missing path is invalid, not
// missing, because there is nothing sensible to create.
type FileMode struct {
	// Path is the file whose mode is asserted.
	Path string

	// Mode is the desired permission bits.
	Mode os.FileMode
}

// NewFileMode creates a file-mode resource from an octal mode string such
// as "0644".
func NewFileMode(path, mode string) (*FileMode, error) {
	bits, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return nil, engine.NewPermanentError("invalid octal mode "+mode, err).
			WithResource(path).WithCode(engine.ErrCodeValidation)
	}
	return &FileMode{Path: path, Mode: os.FileMode(bits)}, nil
}

// Description identifies the file and mode for log lines.
func (f *FileMode) Description() string {
	return fmt.Sprintf("mode %04o on %s", f.Mode.Perm(), f.Path)
}

// CurrentState compares the on-disk permission bits with the desired ones.
func (f *FileMode) CurrentState() (engine.ResourceState, error) {
	info, err := os.Stat(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return engine.InvalidState("file does not exist"), nil
	}
	if err != nil {
		return engine.ResourceState{}, engine.NewStateQueryError("failed to stat file", err).
			WithResource(f.Path)
	}

	if info.Mode().Perm() == f.Mode.Perm() {
		return engine.Correct(), nil
	}
	return engine.IncorrectState(fmt.Sprintf("%04o", info.Mode().Perm())), nil
}

// Apply chmods the file to the desired bits.
func (f *FileMode) Apply() (engine.ResourceChange, error) {
	state, err := f.CurrentState()
	if err != nil {
		return engine.ResourceChange{}, err
	}
	switch state.Kind {
	case engine.StateCorrect:
		return engine.AlreadyCorrect(), nil
	case engine.StateInvalid:
		return engine.ChangeSkippedBecause(state.Reason), nil
	}

	if err := os.Chmod(f.Path, f.Mode.Perm()); err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("failed to chmod file", err).
			WithResource(f.Path).WithOperation("chmod")
	}
	return engine.Applied(), nil
}
