// Package platform detects host capabilities. The resulting Platform value
// is read-only for the entire run; tasks consult it in their run
// predicates and resources use it to classify unsupported state as
// invalid rather than failing.
package platform

import (
	"runtime"

	"github.com/homeforge/homeforge/pkg/executor"
)

// Platform exposes boolean capability predicates for the host plus the
// detected external tooling.
type Platform struct {
	// OS is the runtime operating system, e.g. "linux" or "windows".
	OS string `json:"os" yaml:"os"`

	// Arch is the runtime architecture.
	Arch string `json:"arch" yaml:"arch"`

	// Symlinks is true when the host supports creating symlinks.
	Symlinks bool `json:"symlinks" yaml:"symlinks"`

	// Registry is true when the Windows registry is available.
	Registry bool `json:"registry" yaml:"registry"`

	// Systemd is true when systemd user units can be managed.
	Systemd bool `json:"systemd" yaml:"systemd"`

	// PkgManager is the detected package manager, empty if none.
	PkgManager string `json:"pkg_manager" yaml:"pkg_manager"`

	// Editor is the detected editor binary for extension management,
	// empty if none.
	Editor string `json:"editor" yaml:"editor"`
}

// pkgManagers lists supported package managers in detection order.
var pkgManagers = []string{"apt", "dnf", "yum", "zypper", "pacman", "brew", "winget", "choco"}

// editors lists supported extension-capable editor binaries in detection
// order.
var editors = []string{"code", "codium", "code-insiders"}

// Detect probes the host through the given executor. Every external probe
// goes through the executor so detection itself is mockable.
func Detect(exec executor.Executor) Platform {
	p := Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	switch p.OS {
	case "windows":
		p.Registry = exec.Which("reg")
		// Symlink creation on Windows needs developer mode or elevation;
		// the symlink resource reports Invalid when creation is refused.
		p.Symlinks = true
	default:
		p.Symlinks = true
		p.Systemd = exec.Which("systemctl")
	}

	for _, mgr := range pkgManagers {
		if exec.Which(mgr) {
			p.PkgManager = mgr
			break
		}
	}

	for _, ed := range editors {
		if exec.Which(ed) {
			p.Editor = ed
			break
		}
	}

	return p
}

// Facts flattens the platform into the predicate environment exposed to
// configuration `when` expressions.
func (p Platform) Facts() map[string]interface{} {
	return map[string]interface{}{
		"os":          p.OS,
		"arch":        p.Arch,
		"symlinks":    p.Symlinks,
		"registry":    p.Registry,
		"systemd":     p.Systemd,
		"pkg_manager": p.PkgManager,
		"editor":      p.Editor,
	}
}
