package tasks

import (
	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/resources"
)

// PackagesTask reconciles the configured packages. Installed state is
// queried once per package manager, not once per package.
type PackagesTask struct{}

// NewPackagesTask creates the packages task.
func NewPackagesTask() *PackagesTask {
	return &PackagesTask{}
}

func (t *PackagesTask) Name() string { return "packages" }

func (t *PackagesTask) ID() engine.TaskID { return TaskPackages }

func (t *PackagesTask) Dependencies() []engine.TaskID { return nil }

// ShouldRun requires a usable package manager for at least one item.
func (t *PackagesTask) ShouldRun(ctx *engine.RunContext) bool {
	if len(ctx.Config.Packages) == 0 {
		return false
	}
	for _, item := range ctx.Config.Packages {
		if t.manager(ctx, item.Manager) != "" {
			return true
		}
	}
	return false
}

// Run installs missing packages, bulk-querying each manager once.
func (t *PackagesTask) Run(ctx *engine.RunContext) (engine.TaskResult, error) {
	pairs := make([]engine.ResourceWithState, 0, len(ctx.Config.Packages))
	for manager, pkgs := range t.byManager(ctx) {
		managerPairs, err := resources.PackageStates(ctx.Exec, manager, pkgs)
		if err != nil {
			return engine.TaskResult{}, err
		}
		pairs = append(pairs, managerPairs...)
	}
	return engine.ProcessResourceStates(ctx, pairs, batchOpts(ctx, "install", false))
}

// Uninstall removes the configured packages.
func (t *PackagesTask) Uninstall(ctx *engine.RunContext) (engine.TaskResult, error) {
	batch := make([]engine.Resource, 0, len(ctx.Config.Packages))
	for _, pkgs := range t.byManager(ctx) {
		for _, p := range pkgs {
			batch = append(batch, p)
		}
	}
	return engine.ProcessResourcesRemove(ctx, batch, "uninstall")
}

// byManager groups the configured packages by their resolved manager,
// dropping items with no usable manager.
func (t *PackagesTask) byManager(ctx *engine.RunContext) map[string][]*resources.Package {
	grouped := make(map[string][]*resources.Package)
	for _, item := range ctx.Config.Packages {
		manager := t.manager(ctx, item.Manager)
		if manager == "" {
			continue
		}
		grouped[manager] = append(grouped[manager], resources.NewPackage(item.Name, manager, ctx.Exec))
	}
	return grouped
}

// manager resolves an item's manager override against the detected one.
func (t *PackagesTask) manager(ctx *engine.RunContext, override string) string {
	if override != "" {
		return override
	}
	return ctx.Platform.PkgManager
}
