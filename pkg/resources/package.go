package resources

import (
	"fmt"
	"strings"

	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/executor"
)

// managerSpec describes how one package manager lists, installs and
// removes packages.
type managerSpec struct {
	// list is the command that prints installed package names.
	list []string

	// parse extracts installed package names from the list output.
	parse func(executor.ExecResult) map[string]bool

	// install builds the install command for one package.
	install func(name string) []string

	// remove builds the removal command for one package.
	remove func(name string) []string
}

// parseFirstField treats each output line's first whitespace-separated
// field as a package name.
func parseFirstField(res executor.ExecResult) map[string]bool {
	installed := make(map[string]bool)
	for _, line := range res.Lines() {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			installed[strings.ToLower(fields[0])] = true
		}
	}
	return installed
}

// parseDelimited treats each output line as name<sep>rest.
func parseDelimited(sep string) func(executor.ExecResult) map[string]bool {
	return func(res executor.ExecResult) map[string]bool {
		installed := make(map[string]bool)
		for _, line := range res.Lines() {
			name, _, _ := strings.Cut(line, sep)
			if name != "" {
				installed[strings.ToLower(name)] = true
			}
		}
		return installed
	}
}

// managers maps each supported package manager to its command shapes.
var managers = map[string]managerSpec{
	"apt": {
		list:    []string{"dpkg-query", "-W", "-f", "${Package}\\n"},
		parse:   parseFirstField,
		install: func(n string) []string { return []string{"apt-get", "install", "-y", n} },
		remove:  func(n string) []string { return []string{"apt-get", "remove", "-y", n} },
	},
	"dnf": {
		list:    []string{"rpm", "-qa", "--qf", "%{NAME}\\n"},
		parse:   parseFirstField,
		install: func(n string) []string { return []string{"dnf", "install", "-y", n} },
		remove:  func(n string) []string { return []string{"dnf", "remove", "-y", n} },
	},
	"yum": {
		list:    []string{"rpm", "-qa", "--qf", "%{NAME}\\n"},
		parse:   parseFirstField,
		install: func(n string) []string { return []string{"yum", "install", "-y", n} },
		remove:  func(n string) []string { return []string{"yum", "remove", "-y", n} },
	},
	"zypper": {
		list:    []string{"rpm", "-qa", "--qf", "%{NAME}\\n"},
		parse:   parseFirstField,
		install: func(n string) []string { return []string{"zypper", "--non-interactive", "install", n} },
		remove:  func(n string) []string { return []string{"zypper", "--non-interactive", "remove", n} },
	},
	"pacman": {
		list:    []string{"pacman", "-Qq"},
		parse:   parseFirstField,
		install: func(n string) []string { return []string{"pacman", "-S", "--noconfirm", n} },
		remove:  func(n string) []string { return []string{"pacman", "-R", "--noconfirm", n} },
	},
	"brew": {
		list:    []string{"brew", "list", "-1"},
		parse:   parseFirstField,
		install: func(n string) []string { return []string{"brew", "install", n} },
		remove:  func(n string) []string { return []string{"brew", "uninstall", n} },
	},
	"winget": {
		list:  []string{"winget", "list", "--disable-interactivity"},
		parse: parseFirstField,
		install: func(n string) []string {
			return []string{"winget", "install", "--exact", "--id", n,
				"--accept-package-agreements", "--accept-source-agreements"}
		},
		remove: func(n string) []string { return []string{"winget", "uninstall", "--exact", "--id", n} },
	},
	"choco": {
		list:    []string{"choco", "list", "--local-only", "--limit-output"},
		parse:   parseDelimited("|"),
		install: func(n string) []string { return []string{"choco", "install", "-y", n} },
		remove:  func(n string) []string { return []string{"choco", "uninstall", "-y", n} },
	},
}

// Package asserts that a package is installed through the host's package
// manager.
type Package struct {
	// Name is the package name as the manager knows it.
	Name string

	// Manager is the package manager driving this package.
	Manager string

	exec executor.Executor
}

// NewPackage creates a package resource bound to a manager.
func NewPackage(name, manager string, exec executor.Executor) *Package {
	return &Package{Name: name, Manager: manager, exec: exec}
}

// Description identifies the package for log lines.
func (p *Package) Description() string {
	return fmt.Sprintf("package %s (%s)", p.Name, p.Manager)
}

// CurrentState queries the manager's installed set for this one package.
// Batches should prefer InstalledPackages plus PackageStates so the
// listing runs once, not once per package.
func (p *Package) CurrentState() (engine.ResourceState, error) {
	installed, err := InstalledPackages(p.exec, p.Manager)
	if err != nil {
		return engine.ResourceState{}, err
	}
	return p.StateIn(installed), nil
}

// StateIn classifies the package against a pre-fetched installed set.
func (p *Package) StateIn(installed map[string]bool) engine.ResourceState {
	if _, ok := managers[p.Manager]; !ok {
		return engine.InvalidState("no supported package manager")
	}
	if installed[strings.ToLower(p.Name)] {
		return engine.Correct()
	}
	return engine.Missing()
}

// Apply installs the package.
func (p *Package) Apply() (engine.ResourceChange, error) {
	spec, ok := managers[p.Manager]
	if !ok {
		return engine.ChangeSkippedBecause("no supported package manager"), nil
	}
	cmd := spec.install(p.Name)
	if _, err := p.exec.Run(cmd[0], cmd[1:]...); err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("package install failed", err).
			WithResource(p.Name).WithOperation("install").WithCode(engine.ErrCodeCommandFailed)
	}
	return engine.Applied(), nil
}

// Remove uninstalls the package.
func (p *Package) Remove() (engine.ResourceChange, error) {
	spec, ok := managers[p.Manager]
	if !ok {
		return engine.ChangeSkippedBecause("no supported package manager"), nil
	}
	cmd := spec.remove(p.Name)
	if _, err := p.exec.Run(cmd[0], cmd[1:]...); err != nil {
		return engine.ResourceChange{}, engine.NewApplyError("package removal failed", err).
			WithResource(p.Name).WithOperation("remove").WithCode(engine.ErrCodeCommandFailed)
	}
	return engine.Applied(), nil
}

// InstalledPackages runs the manager's listing command once and returns
// the installed set keyed by lowercased name.
func InstalledPackages(exec executor.Executor, manager string) (map[string]bool, error) {
	spec, ok := managers[manager]
	if !ok {
		return map[string]bool{}, nil
	}
	res, err := exec.Run(spec.list[0], spec.list[1:]...)
	if err != nil {
		return nil, engine.NewStateQueryError("failed to list installed packages", err).
			WithOperation(manager).WithCode(engine.ErrCodeCommandFailed)
	}
	return spec.parse(res), nil
}

// PackageStates pairs each package with its state from one bulk listing.
func PackageStates(exec executor.Executor, manager string, pkgs []*Package) ([]engine.ResourceWithState, error) {
	installed, err := InstalledPackages(exec, manager)
	if err != nil {
		return nil, err
	}
	pairs := make([]engine.ResourceWithState, 0, len(pkgs))
	for _, p := range pkgs {
		pairs = append(pairs, engine.ResourceWithState{Resource: p, State: p.StateIn(installed)})
	}
	return pairs, nil
}
