package resources

import (
	"fmt"
	"strings"

	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/executor"
)

// RegistryValue asserts that a named value under a Windows registry key
// holds the given type and data. Off Windows the resource is invalid and
// never acted on.
type RegistryValue struct {
	// Key is the full key path, e.g. `HKCU\Software\HomeForge`.
	Key string

	// Name is the value name under the key.
	Name string

	// Type is the registry value type, e.g. REG_SZ or REG_DWORD.
	Type string

	// Value is the desired data, rendered as reg.exe renders it.
	Value string

	// OS is the host operating system the resource runs on.
	OS string

	exec executor.Executor
}

// NewRegistryValue creates a registry resource for the given host OS.
func NewRegistryValue(key, name, typ, value, hostOS string, exec executor.Executor) *RegistryValue {
	return &RegistryValue{Key: key, Name: name, Type: typ, Value: value, OS: hostOS, exec: exec}
}

// Description identifies the value for log lines.
func (r *RegistryValue) Description() string {
	return fmt.Sprintf("registry %s\\%s", r.Key, r.Name)
}

// CurrentState queries the value through reg.exe.
func (r *RegistryValue) CurrentState() (engine.ResourceState, error) {
	if r.OS != "windows" {
		return engine.InvalidState("registry requires windows"), nil
	}

	res, err := r.exec.RunUnchecked("reg", "query", r.Key, "/v", r.Name)
	if err != nil {
		return engine.ResourceState{}, engine.NewStateQueryError("failed to query registry", err).
			WithResource(r.Key).WithCode(engine.ErrCodeCommandFailed)
	}
	if res.ExitCode != 0 {
		// reg query exits non-zero when the key or value does not exist.
		return engine.Missing(), nil
	}

	typ, data, ok := r.parseQuery(res)
	if !ok {
		return engine.Missing(), nil
	}
	if typ == r.Type && data == r.Value {
		return engine.Correct(), nil
	}
	return engine.IncorrectState(fmt.Sprintf("%s %s", typ, data)), nil
}

// parseQuery extracts this value's type and data from reg query output.
// The matching line has the shape "    <name>    <type>    <data>".
func (r *RegistryValue) parseQuery(res executor.ExecResult) (typ, data string, ok bool) {
	for _, line := range res.Lines() {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.EqualFold(fields[0], r.Name) {
			continue
		}
		typ = fields[1]
		if len(fields) > 2 {
			data = strings.Join(fields[2:], " ")
		}
		return typ, data, true
	}
	return "", "", false
}

// Apply writes the value with reg add, overwriting any existing data.
func (r *RegistryValue) Apply() (engine.ResourceChange, error) {
	if r.OS != "windows" {
		return engine.ChangeSkippedBecause("registry requires windows"), nil
	}
	_, err := r.exec.Run("reg", "add", r.Key, "/v", r.Name, "/t", r.Type, "/d", r.Value, "/f")
	if err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("failed to write registry value", err).
			WithResource(r.Key).WithOperation("reg add").WithCode(engine.ErrCodeCommandFailed)
	}
	return engine.Applied(), nil
}

// Remove deletes the value with reg delete.
func (r *RegistryValue) Remove() (engine.ResourceChange, error) {
	if r.OS != "windows" {
		return engine.ChangeSkippedBecause("registry requires windows"), nil
	}
	_, err := r.exec.Run("reg", "delete", r.Key, "/v", r.Name, "/f")
	if err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("failed to delete registry value", err).
			WithResource(r.Key).WithOperation("reg delete").WithCode(engine.ErrCodeCommandFailed)
	}
	return engine.Applied(), nil
}
