package tasks

import (
	"github.com/homeforge/homeforge/pkg/config"
	"github.com/homeforge/homeforge/pkg/engine"
	"github.com/homeforge/homeforge/pkg/policy"
	"github.com/homeforge/homeforge/pkg/resources"
)

// PermissionsTask reconciles the configured file modes. Permission fixes
// bail on the first failure: a mode that cannot be tightened is worth
// stopping for.
type PermissionsTask struct{}

// NewPermissionsTask creates the permissions task.
func NewPermissionsTask() *PermissionsTask {
	return &PermissionsTask{}
}

func (t *PermissionsTask) Name() string { return "permissions" }

func (t *PermissionsTask) ID() engine.TaskID { return TaskPermissions }

// Dependencies orders permission fixes after symlink creation so modes
// land on the files the links expose.
func (t *PermissionsTask) Dependencies() []engine.TaskID {
	return []engine.TaskID{TaskSymlinks}
}

// ShouldRun excludes Windows, whose permission model chmod cannot express.
func (t *PermissionsTask) ShouldRun(ctx *engine.RunContext) bool {
	return ctx.Platform.OS != "windows" && len(ctx.Config.Permissions) > 0
}

// Run reconciles every configured file mode through the driver.
func (t *PermissionsTask) Run(ctx *engine.RunContext) (engine.TaskResult, error) {
	batch := make([]engine.Resource, 0, len(ctx.Config.Permissions))
	inputs := make([]policy.ChangeInput, 0, len(ctx.Config.Permissions))
	for _, item := range ctx.Config.Permissions {
		path := config.ExpandPath(item.Path, ctx.Home)
		mode, err := resources.NewFileMode(path, item.Mode)
		if err != nil {
			return engine.TaskResult{}, err
		}
		batch = append(batch, mode)
		inputs = append(inputs, policy.ChangeInput{
			Kind:      "filemode",
			Operation: "apply",
			Resource:  mode.Description(),
			Path:      path,
			Mode:      item.Mode,
			Home:      ctx.Home,
		})
	}
	if err := gate(ctx, inputs); err != nil {
		return engine.TaskResult{}, err
	}
	return engine.ProcessResources(ctx, batch, batchOpts(ctx, "chmod", true))
}
