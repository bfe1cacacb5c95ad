package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/homeforge/homeforge/pkg/executor"
)

func TestDetectPicksFirstAvailableManager(t *testing.T) {
	mock := executor.NewMock().
		MarkMissing("apt").
		MarkMissing("dnf").
		MarkMissing("yum").
		MarkMissing("zypper")

	p := Detect(mock)

	assert.Equal(t, runtime.GOOS, p.OS)
	assert.Equal(t, "pacman", p.PkgManager, "managers probe in detection order")
	assert.Equal(t, "code", p.Editor)
}

func TestDetectNoToolsAtAll(t *testing.T) {
	mock := executor.NewMock()
	for _, program := range []string{"apt", "dnf", "yum", "zypper", "pacman", "brew",
		"winget", "choco", "code", "codium", "code-insiders", "systemctl", "reg"} {
		mock.MarkMissing(program)
	}

	p := Detect(mock)

	assert.Empty(t, p.PkgManager)
	assert.Empty(t, p.Editor)
	if p.OS != "windows" {
		assert.False(t, p.Systemd)
	}
}

func TestFactsCoverEveryCapability(t *testing.T) {
	p := Platform{
		OS:         "linux",
		Arch:       "amd64",
		Symlinks:   true,
		Systemd:    true,
		PkgManager: "apt",
		Editor:     "code",
	}

	facts := p.Facts()

	assert.Equal(t, "linux", facts["os"])
	assert.Equal(t, true, facts["symlinks"])
	assert.Equal(t, false, facts["registry"])
	assert.Equal(t, "apt", facts["pkg_manager"])
	assert.Equal(t, "code", facts["editor"])
}
