package resources

import (
	"fmt"
	"strings"

	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/executor"
)

// ServiceUnit asserts the enablement of a systemd user unit. It manages
// existing unit files only; a unit systemd does not know about is invalid.
type ServiceUnit struct {
	// Unit is the unit name, e.g. "syncthing.service".
	Unit string

	// Enabled is the desired enablement.
	Enabled bool

	// Now also starts (or stops) the unit when toggling enablement.
	Now bool

	// Systemd reports whether systemd user units are available.
	Systemd bool

	exec executor.Executor
}

// NewServiceUnit creates a service resource against the detected platform.
func NewServiceUnit(unit string, enabled, now, systemd bool, exec executor.Executor) *ServiceUnit {
	return &ServiceUnit{Unit: unit, Enabled: enabled, Now: now, Systemd: systemd, exec: exec}
}

// Description identifies the unit for log lines.
func (s *ServiceUnit) Description() string {
	verb := "disabled"
	if s.Enabled {
		verb = "enabled"
	}
	return fmt.Sprintf("service %s %s", s.Unit, verb)
}

// CurrentState asks systemd for the unit's enablement.
func (s *ServiceUnit) CurrentState() (engine.ResourceState, error) {
	if !s.Systemd {
		return engine.InvalidState("systemd user units unavailable"), nil
	}

	res, err := s.exec.RunUnchecked("systemctl", "--user", "is-enabled", s.Unit)
	if err != nil {
		return engine.ResourceState{}, engine.NewStateQueryError("failed to query unit state", err).
			WithResource(s.Unit).WithCode(engine.ErrCodeCommandFailed)
	}

	current := strings.TrimSpace(res.Stdout)
	if res.ExitCode != 0 && current == "" {
		// is-enabled prints nothing only when the unit file does not exist.
		return engine.InvalidState("unit not found"), nil
	}

	switch {
	case s.Enabled && current == "enabled":
		return engine.Correct(), nil
	case !s.Enabled && (current == "disabled" || current == "masked"):
		return engine.Correct(), nil
	default:
		return engine.IncorrectState(current), nil
	}
}

// Apply toggles the unit to the desired enablement.
func (s *ServiceUnit) Apply() (engine.ResourceChange, error) {
	if !s.Systemd {
		return engine.ChangeSkippedBecause("systemd user units unavailable"), nil
	}

	args := []string{"--user"}
	if s.Enabled {
		args = append(args, "enable")
	} else {
		args = append(args, "disable")
	}
	if s.Now {
		args = append(args, "--now")
	}
	args = append(args, s.Unit)

	if _, err := s.exec.Run("systemctl", args...); err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("failed to change unit enablement", err).
			WithResource(s.Unit).WithOperation("systemctl").WithCode(engine.ErrCodeCommandFailed)
	}
	return engine.Applied(), nil
}

// Remove disables the unit regardless of the desired enablement, stopping
// it as well. Uninstall runs leave no units active behind.
func (s *ServiceUnit) Remove() (engine.ResourceChange, error) {
	if !s.Systemd {
		return engine.ChangeSkippedBecause("systemd user units unavailable"), nil
	}
	if _, err := s.exec.Run("systemctl", "--user", "disable", "--now", s.Unit); err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("failed to disable unit", err).
			WithResource(s.Unit).WithOperation("systemctl").WithCode(engine.ErrCodeCommandFailed)
	}
	return engine.Applied(), nil
}
