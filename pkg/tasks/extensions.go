package tasks

import (
	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/resources"
)

// ExtensionsTask reconciles the configured editor extensions. Installed
// state is queried with one listing call.
type ExtensionsTask struct{}

// NewExtensionsTask creates the extensions task.
func NewExtensionsTask() *ExtensionsTask {
	return &ExtensionsTask{}
}

func (t *ExtensionsTask) Name() string { return "extensions" }

func (t *ExtensionsTask) ID() engine.TaskID { return TaskExtensions }

// Dependencies orders extensions after packages, since the editor itself
// is commonly installed as a package.
func (t *ExtensionsTask) Dependencies() []engine.TaskID {
	return []engine.TaskID{TaskPackages}
}

// ShouldRun requires a detected extension-capable editor.
func (t *ExtensionsTask) ShouldRun(ctx *engine.RunContext) bool {
	return ctx.Platform.Editor != "" && len(ctx.Config.Extensions) > 0
}

// Run installs missing extensions from one bulk listing.
func (t *ExtensionsTask) Run(ctx *engine.RunContext) (engine.TaskResult, error) {
	pairs, err := resources.ExtensionStates(ctx.Exec, ctx.Platform.Editor, t.batch(ctx))
	if err != nil {
		return engine.TaskResult{}, err
	}
	return engine.ProcessResourceStates(ctx, pairs, batchOpts(ctx, "install", false))
}

// Uninstall removes the configured extensions.
func (t *ExtensionsTask) Uninstall(ctx *engine.RunContext) (engine.TaskResult, error) {
	exts := t.batch(ctx)
	batch := make([]engine.Resource, 0, len(exts))
	for _, e := range exts {
		batch = append(batch, e)
	}
	return engine.ProcessResourcesRemove(ctx, batch, "uninstall")
}

// batch builds the extension resources from configuration.
func (t *ExtensionsTask) batch(ctx *engine.RunContext) []*resources.Extension {
	exts := make([]*resources.Extension, 0, len(ctx.Config.Extensions))
	for _, item := range ctx.Config.Extensions {
		exts = append(exts, resources.NewExtension(item.ID, ctx.Platform.Editor, ctx.Exec))
	}
	return exts
}
