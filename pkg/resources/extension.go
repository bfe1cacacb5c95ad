package resources

import (
	"fmt"
	"strings"

	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/executor"
)

// Extension asserts that an editor extension is installed. Extension IDs
// are compared case-insensitively, matching how the editors themselves
// treat them.
type Extension struct {
	// ID is the extension identifier, e.g. "golang.go".
	ID string

	// Editor is the editor binary managing extensions.
	Editor string

	exec executor.Executor
}

// NewExtension creates an extension resource bound to an editor binary.
func NewExtension(id, editor string, exec executor.Executor) *Extension {
	return &Extension{ID: id, Editor: editor, exec: exec}
}

// Description identifies the extension for log lines.
func (e *Extension) Description() string {
	return fmt.Sprintf("extension %s (%s)", e.ID, e.Editor)
}

// CurrentState queries the editor's installed extensions for this one ID.
// Batches should prefer InstalledExtensions plus ExtensionStates so the
// listing runs once.
func (e *Extension) CurrentState() (engine.ResourceState, error) {
	installed, err := InstalledExtensions(e.exec, e.Editor)
	if err != nil {
		return engine.ResourceState{}, err
	}
	return e.StateIn(installed), nil
}

// StateIn classifies the extension against a pre-fetched installed set.
func (e *Extension) StateIn(installed map[string]bool) engine.ResourceState {
	if e.Editor == "" {
		return engine.InvalidState("no extension-capable editor detected")
	}
	if installed[strings.ToLower(e.ID)] {
		return engine.Correct()
	}
	return engine.Missing()
}

// Apply installs the extension.
func (e *Extension) Apply() (engine.ResourceChange, error) {
	if e.Editor == "" {
		return engine.ChangeSkippedBecause("no extension-capable editor detected"), nil
	}
	if _, err := e.exec.Run(e.Editor, "--install-extension", e.ID); err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("extension install failed", err).
			WithResource(e.ID).WithOperation("install").WithCode(engine.ErrCodeCommandFailed)
	}
	return engine.Applied(), nil
}

// Remove uninstalls the extension.
func (e *Extension) Remove() (engine.ResourceChange, error) {
	if e.Editor == "" {
		return engine.ChangeSkippedBecause("no extension-capable editor detected"), nil
	}
	if _, err := e.exec.Run(e.Editor, "--uninstall-extension", e.ID); err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("extension removal failed", err).
			WithResource(e.ID).WithOperation("remove").WithCode(engine.ErrCodeCommandFailed)
	}
	return engine.Applied(), nil
}

// InstalledExtensions runs the editor's listing command once and returns
// installed IDs keyed lowercased.
func InstalledExtensions(exec executor.Executor, editor string) (map[string]bool, error) {
	if editor == "" {
		return map[string]bool{}, nil
	}
	res, err := exec.Run(editor, "--list-extensions")
	if err != nil {
		return nil, engine.NewStateQueryError("failed to list extensions", err).
			WithOperation(editor).WithCode(engine.ErrCodeCommandFailed)
	}
	installed := make(map[string]bool)
	for _, line := range res.Lines() {
		installed[strings.ToLower(line)] = true
	}
	return installed, nil
}

// ExtensionStates pairs each extension with its state from one listing.
func ExtensionStates(exec executor.Executor, editor string, exts []*Extension) ([]engine.ResourceWithState, error) {
	installed, err := InstalledExtensions(exec, editor)
	if err != nil {
		return nil, err
	}
	pairs := make([]engine.ResourceWithState, 0, len(exts))
	for _, e := range exts {
		pairs = append(pairs, engine.ResourceWithState{Resource: e, State: e.StateIn(installed)})
	}
	return pairs, nil
}
