package tasks

import (
	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/resources"
)

// ServicesTask reconciles the configured systemd user units.
type ServicesTask struct{}

// NewServicesTask creates the services task.
func NewServicesTask() *ServicesTask {
	return &ServicesTask{}
}

func (t *ServicesTask) Name() string { return "services" }

func (t *ServicesTask) ID() engine.TaskID { return TaskServices }

// Dependencies orders services after packages, since unit files usually
// ship with the packages that provide them.
func (t *ServicesTask) Dependencies() []engine.TaskID {
	return []engine.TaskID{TaskPackages}
}

// ShouldRun requires systemd user units.
func (t *ServicesTask) ShouldRun(ctx *engine.RunContext) bool {
	return ctx.Platform.Systemd && len(ctx.Config.Services) > 0
}

// Run reconciles every configured unit through the driver.
func (t *ServicesTask) Run(ctx *engine.RunContext) (engine.TaskResult, error) {
	return engine.ProcessResources(ctx, t.batch(ctx), batchOpts(ctx, "enable", false))
}

// Uninstall disables the configured units.
func (t *ServicesTask) Uninstall(ctx *engine.RunContext) (engine.TaskResult, error) {
	return engine.ProcessResourcesRemove(ctx, t.batch(ctx), "disable")
}

// batch builds the service resources from configuration.
func (t *ServicesTask) batch(ctx *engine.RunContext) []engine.Resource {
	batch := make([]engine.Resource, 0, len(ctx.Config.Services))
	for _, item := range ctx.Config.Services {
		batch = append(batch, resources.NewServiceUnit(
			item.Unit, item.Enabled, item.Now, ctx.Platform.Systemd, ctx.Exec))
	}
	return batch
}
