// Package config loads and validates the declarative TOML configuration
// describing the user's desired environment. Decoded items are validated
// structurally (validator tags), against the embedded CUE schema, and
// filtered by profile selection and per-item `when` predicates before the
// engine ever sees them.
package config

import (
	"slices"
)

// Config is the parsed, profile-filtered configuration consumed by tasks.
type Config struct {
	// Settings holds run-wide options.
	Settings Settings `toml:"settings" json:"settings"`

	// Symlinks lists desired symlinks.
	Symlinks []SymlinkItem `toml:"symlinks" json:"symlinks,omitempty" validate:"dive"`

	// Permissions lists desired file modes.
	Permissions []PermissionItem `toml:"permissions" json:"permissions,omitempty" validate:"dive"`

	// Packages lists desired packages.
	Packages []PackageItem `toml:"packages" json:"packages,omitempty" validate:"dive"`

	// Extensions lists desired editor extensions.
	Extensions []ExtensionItem `toml:"extensions" json:"extensions,omitempty" validate:"dive"`

	// Registry lists desired Windows registry values.
	Registry []RegistryItem `toml:"registry" json:"registry,omitempty" validate:"dive"`

	// Services lists desired systemd user units.
	Services []ServiceItem `toml:"services" json:"services,omitempty" validate:"dive"`
}

// Settings holds run-wide options.
type Settings struct {
	// Parallel enables concurrent task and resource execution.
	Parallel bool `toml:"parallel" json:"parallel"`

	// FixIncorrect controls whether drifted resources are corrected.
	// Defaults to true.
	FixIncorrect *bool `toml:"fix_incorrect" json:"fix_incorrect,omitempty"`
}

// FixIncorrectEnabled resolves the FixIncorrect default.
func (s Settings) FixIncorrectEnabled() bool {
	return s.FixIncorrect == nil || *s.FixIncorrect
}

// ItemMeta carries the selection fields shared by every item kind.
type ItemMeta struct {
	// Profiles restricts the item to the named profiles. Empty means all.
	Profiles []string `toml:"profiles" json:"profiles,omitempty"`

	// When is an optional Starlark predicate over platform facts,
	// e.g. `os == "linux" and pkg_manager != ""`.
	When string `toml:"when" json:"when,omitempty"`
}

// selected reports whether the item participates in a run for the given
// profile. The `when` predicate is evaluated separately by the loader.
func (m ItemMeta) selected(profile string) bool {
	if len(m.Profiles) == 0 {
		return true
	}
	return slices.Contains(m.Profiles, profile)
}

// SymlinkItem declares one desired symlink.
type SymlinkItem struct {
	ItemMeta

	// Path is the symlink location, usually under the home directory.
	Path string `toml:"path" json:"path" validate:"required"`

	// Target is the path the symlink points at, relative to the dotfiles
	// root unless absolute.
	Target string `toml:"target" json:"target" validate:"required"`
}

// PermissionItem declares one desired file mode.
type PermissionItem struct {
	ItemMeta

	// Path is the file or directory the mode applies to.
	Path string `toml:"path" json:"path" validate:"required"`

	// Mode is the octal mode string, e.g. "0700".
	Mode string `toml:"mode" json:"mode" validate:"required,len=4"`
}

// PackageItem declares one desired package.
type PackageItem struct {
	ItemMeta

	// Name is the package name as understood by the package manager.
	Name string `toml:"name" json:"name" validate:"required"`

	// Manager overrides the detected package manager for this item.
	Manager string `toml:"manager" json:"manager,omitempty"`
}

// ExtensionItem declares one desired editor extension.
type ExtensionItem struct {
	ItemMeta

	// ID is the extension identifier, e.g. "golang.go".
	ID string `toml:"id" json:"id" validate:"required"`
}

// RegistryItem declares one desired Windows registry value.
type RegistryItem struct {
	ItemMeta

	// Key is the full registry key path, e.g. `HKCU\Software\HomeForge`.
	Key string `toml:"key" json:"key" validate:"required"`

	// Name is the value name under the key.
	Name string `toml:"name" json:"name" validate:"required"`

	// Type is the registry value type.
	Type string `toml:"type" json:"type" validate:"required,oneof=REG_SZ REG_EXPAND_SZ REG_DWORD REG_QWORD"`

	// Value is the desired data, rendered as a string.
	Value string `toml:"value" json:"value" validate:"required"`
}

// ServiceItem declares one desired systemd user unit state.
type ServiceItem struct {
	ItemMeta

	// Unit is the unit name, e.g. "syncthing.service".
	Unit string `toml:"unit" json:"unit" validate:"required"`

	// Enabled is the desired enablement state.
	Enabled bool `toml:"enabled" json:"enabled"`

	// Now also starts or stops the unit when toggling enablement.
	Now bool `toml:"now" json:"now"`
}
