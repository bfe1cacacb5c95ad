package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Loader parses TOML configuration files and produces the
// profile-filtered Config consumed by tasks.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a config loader.
func NewLoader() *Loader {
	return &Loader{validate: validator.New()}
}

// DefaultPath returns the XDG-resolved default configuration path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "homeforge", "homeforge.toml")
}

// Load reads, decodes, validates and filters one configuration file.
// Filtering drops items outside the selected profile and items whose
// `when` predicate over the given facts evaluates false.
func (l *Loader) Load(path, profile string, facts map[string]interface{}) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := l.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	when, err := NewWhenEvaluator(facts)
	if err != nil {
		return nil, err
	}
	if err := cfg.filter(profile, when); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes and validates raw TOML without filtering. The validate
// command uses it to check a config against all profiles at once.
func (l *Loader) Parse(raw []byte) (*Config, error) {
	cfg := &Config{}

	dec := toml.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}

	if err := l.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := validateSchema(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// filter applies profile selection and `when` predicates in place.
func (c *Config) filter(profile string, when *WhenEvaluator) error {
	var err error
	if c.Symlinks, err = filterItems(c.Symlinks, func(i SymlinkItem) ItemMeta { return i.ItemMeta }, profile, when); err != nil {
		return err
	}
	if c.Permissions, err = filterItems(c.Permissions, func(i PermissionItem) ItemMeta { return i.ItemMeta }, profile, when); err != nil {
		return err
	}
	if c.Packages, err = filterItems(c.Packages, func(i PackageItem) ItemMeta { return i.ItemMeta }, profile, when); err != nil {
		return err
	}
	if c.Extensions, err = filterItems(c.Extensions, func(i ExtensionItem) ItemMeta { return i.ItemMeta }, profile, when); err != nil {
		return err
	}
	if c.Registry, err = filterItems(c.Registry, func(i RegistryItem) ItemMeta { return i.ItemMeta }, profile, when); err != nil {
		return err
	}
	if c.Services, err = filterItems(c.Services, func(i ServiceItem) ItemMeta { return i.ItemMeta }, profile, when); err != nil {
		return err
	}
	return nil
}

// filterItems keeps the items selected for the profile whose `when`
// predicate holds.
func filterItems[T any](items []T, meta func(T) ItemMeta, profile string, when *WhenEvaluator) ([]T, error) {
	kept := items[:0]
	for _, item := range items {
		m := meta(item)
		if !m.selected(profile) {
			continue
		}
		ok, err := when.Eval(m.When)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		kept = append(kept, item)
	}
	return kept, nil
}

// ExpandPath resolves a leading "~" or "~/" against the home directory.
func ExpandPath(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(home, path[2:])
	}
	return path
}
