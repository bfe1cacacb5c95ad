package tasks

import (
	"github.com/homeforge/homeforge/pkg/config"
	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/policy"
	"github.com/homeforge/homeforge/pkg/resources"
)

// SymlinksTask reconciles the configured symlinks.
type SymlinksTask struct{}

// NewSymlinksTask creates the symlinks task.
func NewSymlinksTask() *SymlinksTask {
	return &SymlinksTask{}
}

func (t *SymlinksTask) Name() string { return "symlinks" }

func (t *SymlinksTask) ID() engine.TaskID { return TaskSymlinks }

func (t *SymlinksTask) Dependencies() []engine.TaskID { return nil }

// ShouldRun requires symlink support and at least one configured link.
func (t *SymlinksTask) ShouldRun(ctx *engine.RunContext) bool {
	return ctx.Platform.Symlinks && len(ctx.Config.Symlinks) > 0
}

// Run reconciles every configured symlink through the driver.
func (t *SymlinksTask) Run(ctx *engine.RunContext) (engine.TaskResult, error) {
	batch, inputs := t.batch(ctx, "apply")
	if err := gate(ctx, inputs); err != nil {
		return engine.TaskResult{}, err
	}
	return engine.ProcessResources(ctx, batch, batchOpts(ctx, "link", false))
}

// Uninstall removes the configured symlinks.
func (t *SymlinksTask) Uninstall(ctx *engine.RunContext) (engine.TaskResult, error) {
	batch, inputs := t.batch(ctx, "remove")
	if err := gate(ctx, inputs); err != nil {
		return engine.TaskResult{}, err
	}
	return engine.ProcessResourcesRemove(ctx, batch, "unlink")
}

// batch builds the resource list and the matching policy inputs.
func (t *SymlinksTask) batch(ctx *engine.RunContext, operation string) ([]engine.Resource, []policy.ChangeInput) {
	batch := make([]engine.Resource, 0, len(ctx.Config.Symlinks))
	inputs := make([]policy.ChangeInput, 0, len(ctx.Config.Symlinks))
	for _, item := range ctx.Config.Symlinks {
		path := config.ExpandPath(item.Path, ctx.Home)
		target := config.ExpandPath(item.Target, ctx.Home)
		link := resources.NewSymlink(path, target)
		batch = append(batch, link)
		inputs = append(inputs, policy.ChangeInput{
			Kind:      "symlink",
			Operation: operation,
			Resource:  link.Description(),
			Path:      path,
			Target:    target,
			Home:      ctx.Home,
		})
	}
	return batch, inputs
}
