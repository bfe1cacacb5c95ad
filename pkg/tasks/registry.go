package tasks

import (
	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/resources"
)

// RegistryTask reconciles the configured Windows registry values.
type RegistryTask struct{}

// NewRegistryTask creates the registry task.
func NewRegistryTask() *RegistryTask {
	return &RegistryTask{}
}

func (t *RegistryTask) Name() string { return "registry" }

func (t *RegistryTask) ID() engine.TaskID { return TaskRegistry }

func (t *RegistryTask) Dependencies() []engine.TaskID { return nil }

// ShouldRun requires registry availability.
func (t *RegistryTask) ShouldRun(ctx *engine.RunContext) bool {
	return ctx.Platform.Registry && len(ctx.Config.Registry) > 0
}

// Run reconciles every configured registry value through the driver.
func (t *RegistryTask) Run(ctx *engine.RunContext) (engine.TaskResult, error) {
	return engine.ProcessResources(ctx, t.batch(ctx), batchOpts(ctx, "set", false))
}

// Uninstall deletes the configured registry values.
func (t *RegistryTask) Uninstall(ctx *engine.RunContext) (engine.TaskResult, error) {
	return engine.ProcessResourcesRemove(ctx, t.batch(ctx), "delete")
}

// batch builds the registry resources from configuration.
func (t *RegistryTask) batch(ctx *engine.RunContext) []engine.Resource {
	batch := make([]engine.Resource, 0, len(ctx.Config.Registry))
	for _, item := range ctx.Config.Registry {
		batch = append(batch, resources.NewRegistryValue(
			item.Key, item.Name, item.Type, item.Value, ctx.Platform.OS, ctx.Exec))
	}
	return batch
}
