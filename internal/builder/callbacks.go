package builder

import (
	"context"

	"pluginbuilder/internal/common/errs"
	"pluginbuilder/internal/common/fsutil"
)

// Host callback names accepted by Dispatch.
const (
	EventNameChanged        = "name_changed"
	EventSourceChanged      = "source_changed"
	EventBuildConfigChanged = "build_config_changed"
	EventArtifactChanged    = "artifact_changed"
	EventOutputModeChanged  = "output_mode_changed"
)

// Callbacks lists the callback names in a stable order.
func Callbacks() []string {
	return []string{EventNameChanged, EventSourceChanged, EventBuildConfigChanged, EventArtifactChanged, EventOutputModeChanged}
}

// OnNameChanged handles a new plugin name from the host.
func (b *Builder) OnNameChanged(ctx context.Context, name string) error {
	_, err := b.Open(ctx, name)
	return err
}

// OnSourceChanged recompiles after a source file changed.
func (b *Builder) OnSourceChanged() error {
	_, err := b.Compile()
	return err
}

// OnBuildConfigChanged reconfigures when the build configuration was edited.
// A deleted build configuration is ignored.
func (b *Builder) OnBuildConfigChanged() error {
	desc, ok := b.Project()
	if !ok || !fsutil.PathExists(desc.BuildConfig) {
		return nil
	}
	_, err := b.Configure()
	return err
}

// OnArtifactChanged reloads the plugin once the build wrote a new library.
func (b *Builder) OnArtifactChanged() error {
	_, err := b.Reload()
	return err
}

// OnOutputModeChanged restarts the session with the new output mode.
func (b *Builder) OnOutputModeChanged(mode string) error {
	return b.SetOutputMode(mode)
}

// Dispatch routes a named host callback.
func (b *Builder) Dispatch(ctx context.Context, event, value string) error {
	switch event {
	case EventNameChanged:
		return b.OnNameChanged(ctx, value)
	case EventSourceChanged:
		return b.OnSourceChanged()
	case EventBuildConfigChanged:
		return b.OnBuildConfigChanged()
	case EventArtifactChanged:
		return b.OnArtifactChanged()
	case EventOutputModeChanged:
		return b.OnOutputModeChanged(value)
	default:
		return errs.ErrUserInput("unknown callback %q", event)
	}
}
