// Package resources implements the concrete resource kinds reconciled by
// the engine driver: symlinks, file modes, packages, editor extensions,
// Windows registry values and systemd user units. Each kind holds only its
// desired-state configuration and a borrowed executor; state inspection
// and mutation go through the engine's check-then-apply contract.
package resources
