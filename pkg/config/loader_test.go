package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linuxFacts = map[string]interface{}{
	"os":          "linux",
	"arch":        "amd64",
	"symlinks":    true,
	"registry":    false,
	"systemd":     true,
	"pkg_manager": "apt",
	"editor":      "code",
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "homeforge.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
[settings]
parallel = true

[[symlinks]]
path = "~/.vimrc"
target = "~/dotfiles/vimrc"

[[permissions]]
path = "~/.ssh/id_rsa"
mode = "0600"

[[packages]]
name = "git"

[[extensions]]
id = "golang.go"

[[registry]]
key = 'HKCU\Software\HomeForge'
name = "Theme"
type = "REG_SZ"
value = "dark"

[[services]]
unit = "syncthing.service"
enabled = true
now = true
`)

	cfg, err := NewLoader().Load(path, "", linuxFacts)
	require.NoError(t, err)

	assert.True(t, cfg.Settings.Parallel)
	assert.True(t, cfg.Settings.FixIncorrectEnabled())
	assert.Len(t, cfg.Symlinks, 1)
	assert.Len(t, cfg.Permissions, 1)
	assert.Len(t, cfg.Packages, 1)
	assert.Len(t, cfg.Extensions, 1)
	assert.Len(t, cfg.Registry, 1)
	assert.Len(t, cfg.Services, 1)
}

func TestLoadProfileFiltering(t *testing.T) {
	path := writeConfig(t, `
[[symlinks]]
path = "~/.vimrc"
target = "~/dotfiles/vimrc"

[[symlinks]]
path = "~/.work-gitconfig"
target = "~/dotfiles/work-gitconfig"
profiles = ["work"]
`)

	cfg, err := NewLoader().Load(path, "home", linuxFacts)
	require.NoError(t, err)
	require.Len(t, cfg.Symlinks, 1, "profile-restricted items drop out of other profiles")
	assert.Equal(t, "~/.vimrc", cfg.Symlinks[0].Path)

	cfg, err = NewLoader().Load(path, "work", linuxFacts)
	require.NoError(t, err)
	assert.Len(t, cfg.Symlinks, 2, "unrestricted items appear in every profile")
}

func TestLoadWhenPredicateFiltering(t *testing.T) {
	path := writeConfig(t, `
[[packages]]
name = "git"

[[packages]]
name = "powertoys"
when = 'os == "windows"'

[[services]]
unit = "syncthing.service"
enabled = true
when = "systemd"
`)

	cfg, err := NewLoader().Load(path, "", linuxFacts)
	require.NoError(t, err)
	require.Len(t, cfg.Packages, 1)
	assert.Equal(t, "git", cfg.Packages[0].Name)
	assert.Len(t, cfg.Services, 1)
}

func TestLoadBadWhenPredicate(t *testing.T) {
	path := writeConfig(t, `
[[packages]]
name = "git"
when = "os =="
`)

	_, err := NewLoader().Load(path, "", linuxFacts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "when predicate")
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := NewLoader().Parse([]byte(`
[[symlinks]]
path = "~/.vimrc"
target = "~/dotfiles/vimrc"
tarrget = "typo"
`))
	require.Error(t, err)
}

func TestParseRejectsMissingRequiredField(t *testing.T) {
	_, err := NewLoader().Parse([]byte(`
[[symlinks]]
path = "~/.vimrc"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestParseRejectsBadMode(t *testing.T) {
	_, err := NewLoader().Parse([]byte(`
[[permissions]]
path = "~/.ssh"
mode = "0999"
`))
	require.Error(t, err)
}

func TestParseRejectsBadRegistryKey(t *testing.T) {
	_, err := NewLoader().Parse([]byte(`
[[registry]]
key = 'NotAHive\Software'
name = "Theme"
type = "REG_SZ"
value = "dark"
`))
	require.Error(t, err)
}

func TestParseRejectsBadServiceUnit(t *testing.T) {
	_, err := NewLoader().Parse([]byte(`
[[services]]
unit = "syncthing"
enabled = true
`))
	require.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home := "/home/dev"

	assert.Equal(t, "/home/dev", ExpandPath("~", home))
	assert.Equal(t, filepath.Join(home, ".vimrc"), ExpandPath("~/.vimrc", home))
	assert.Equal(t, "/etc/hosts", ExpandPath("/etc/hosts", home))
	assert.Equal(t, "relative/path", ExpandPath("relative/path", home))
}
