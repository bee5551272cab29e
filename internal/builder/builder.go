package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pluginbuilder/internal/common/errs"
	"pluginbuilder/internal/common/fsutil"
	"pluginbuilder/internal/config"
	"pluginbuilder/internal/registry"
	"pluginbuilder/internal/reload"
	"pluginbuilder/internal/scaffold"
	"pluginbuilder/internal/session"
	"pluginbuilder/pkg/types"
)

// Builder owns the current plugin project and its build session.
type Builder struct {
	opts       Options
	cfg        config.Config
	host       Host
	pub        EventPublisher
	log        zerolog.Logger
	scaffolder *scaffold.Scaffolder
	notifier   *reload.Notifier
	shell      session.Shell
	startTime  time.Time

	mu       sync.Mutex
	project  *scaffold.ProjectDescriptor
	sess     *session.Session
	outputTo string
}

// New returns a Builder with no project selected. Relative project, plugin
// and template roots are resolved against the plugin builder directory and
// made absolute because the build shell runs inside the project.
func New(opts Options) (*Builder, error) {
	base := opts.Config.Paths.PluginBuilderDir
	if base != "" {
		abs, err := filepath.Abs(base)
		if err != nil {
			return nil, fmt.Errorf("abs path %s: %w", base, err)
		}
		base = abs
		opts.Config.Paths.PluginBuilderDir = abs
	}
	opts.applyDefaults()
	cfg := opts.Config
	for _, p := range []*string{&cfg.Paths.ProjectsDir, &cfg.Paths.PluginsDir, &cfg.Paths.TemplatesDir} {
		if *p == "" {
			continue
		}
		if base != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return nil, fmt.Errorf("abs path %s: %w", *p, err)
		}
		*p = abs
	}
	install, err := fsutil.ExpandUserPath(cfg.Paths.InstallDir)
	if err != nil {
		return nil, err
	}
	cfg.Paths.InstallDir = install
	if cfg.Build.OutputTo != config.OutputQueue && cfg.Build.OutputTo != config.OutputConsole {
		return nil, errs.ErrUserInput("unknown output mode %q", cfg.Build.OutputTo)
	}
	b := &Builder{
		opts: opts,
		cfg:  cfg,
		host: opts.Host,
		pub:  opts.Publisher,
		log:  opts.Logger,
		scaffolder: scaffold.New(scaffold.Options{
			ProjectsDir:  cfg.Paths.ProjectsDir,
			TemplatesDir: cfg.Paths.TemplatesDir,
			Author:       cfg.PluginInfo.Author,
			Email:        cfg.PluginInfo.Email,
			Namespace:    opts.Host,
			Logger:       opts.Logger,
		}),
		notifier:  reload.NewNotifier(opts.Host.Loader(), opts.Logger),
		shell:     opts.shell(),
		startTime: time.Now(),
		outputTo:  cfg.Build.OutputTo,
	}
	return b, nil
}

// Config returns the effective configuration with resolved paths.
func (b *Builder) Config() config.Config { return b.cfg }

// Host returns the injected host context.
func (b *Builder) Host() Host { return b.host }

// Project returns the current project, if any.
func (b *Builder) Project() (scaffold.ProjectDescriptor, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.project == nil {
		return scaffold.ProjectDescriptor{}, false
	}
	return *b.project, true
}

// Projects lists the projects under the projects root.
func (b *Builder) Projects() ([]types.Project, error) {
	return registry.LoadDir(b.cfg.Paths.ProjectsDir)
}

// Templates lists the templates that can be scaffolded.
func (b *Builder) Templates() []types.Template {
	kinds := scaffold.Kinds()
	out := make([]types.Template, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, types.Template{Name: string(k), OpType: string(k.OpType()), Blocks: k.Blocks().String()})
	}
	return out
}

// Create scaffolds a new project, makes it current, starts its build session
// and sends configure and compile. When the session cannot be started or the
// commands cannot be sent, the project tree is removed again.
func (b *Builder) Create(ctx context.Context, name string, kind scaffold.TemplateKind) (scaffold.ProjectDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return scaffold.ProjectDescriptor{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	desc, err := b.scaffolder.Scaffold(name, kind)
	if err != nil {
		projectsCreatedTotal.WithLabelValues(string(kind), "error").Inc()
		return scaffold.ProjectDescriptor{}, err
	}
	if err := b.bootstrapLocked(desc); err != nil {
		b.rollbackLocked(desc, err)
		projectsCreatedTotal.WithLabelValues(string(kind), "error").Inc()
		return scaffold.ProjectDescriptor{}, &errs.PartialFailure{Path: desc.Dir, Err: err}
	}
	if err := b.notifier.Bind(string(desc.OpType), b.pluginPath(name)); err != nil {
		b.log.Warn().Err(err).Str("plugin", name).Msg("bind loader")
	}
	projectsCreatedTotal.WithLabelValues(string(kind), "ok").Inc()
	b.publish("project_created", name, map[string]any{"template": string(kind), "dir": desc.Dir})
	return desc, nil
}

// bootstrapLocked starts the session for a fresh project and kicks off the
// first configure and compile.
func (b *Builder) bootstrapLocked(desc scaffold.ProjectDescriptor) error {
	if err := os.MkdirAll(b.pluginDir(desc.Name), 0o755); err != nil {
		return fmt.Errorf("create plugin dir: %w", err)
	}
	if err := b.activateLocked(desc); err != nil {
		return err
	}
	if _, err := b.sendLocked("configure", b.configureCommand(desc)); err != nil {
		return err
	}
	_, err := b.sendLocked("compile", compileCommand)
	return err
}

func (b *Builder) rollbackLocked(desc scaffold.ProjectDescriptor, cause error) {
	if b.sess != nil {
		_ = b.sess.Close()
		b.sess = nil
	}
	b.project = nil
	if err := os.RemoveAll(desc.Dir); err != nil {
		b.log.Error().Err(err).Str("dir", desc.Dir).Msg("project rollback failed")
	}
	// Remove fails on a non-empty dir, which keeps a previously installed build.
	if err := os.Remove(b.pluginDir(desc.Name)); err != nil && !os.IsNotExist(err) {
		b.log.Warn().Err(err).Str("dir", b.pluginDir(desc.Name)).Msg("plugin dir left in place")
	}
	b.log.Warn().Err(cause).Str("plugin", desc.Name).Msg("project creation rolled back")
	b.publish("project_rolled_back", desc.Name, map[string]any{"error": cause.Error()})
}

// Open makes an existing project current, as happens when the host's plugin
// name changes. An empty name clears the builder. A name without a generated
// build configuration unloads the loader and reports the missing project.
func (b *Builder) Open(ctx context.Context, name string) (scaffold.ProjectDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return scaffold.ProjectDescriptor{}, err
	}
	if name == "" {
		return scaffold.ProjectDescriptor{}, b.Clear()
	}
	if err := scaffold.ValidFileName(name); err != nil {
		return scaffold.ProjectDescriptor{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	desc := scaffold.Describe(b.cfg.Paths.ProjectsDir, name, "", "")
	if fsutil.PathExists(desc.BuildConfig) {
		op, err := scaffold.ReadHeader(desc.BuildConfig)
		if err == nil {
			desc.OpType = op
			if err := b.notifier.Bind(string(op), b.pluginPath(name)); err != nil {
				b.log.Warn().Err(err).Str("plugin", name).Msg("bind loader")
			}
			if err := b.activateLocked(desc); err != nil {
				return desc, err
			}
			b.log.Info().Str("plugin", name).Str("type", string(op)).Msg("project opened")
			b.publish("project_opened", name, map[string]any{"op_type": string(op)})
			return desc, nil
		}
		b.log.Warn().Err(err).Str("plugin", name).Msg("unreadable build config header")
	}

	if err := b.notifier.Unload(); err != nil {
		b.log.Warn().Err(err).Msg("unload plugin")
	}
	return scaffold.ProjectDescriptor{}, errs.ErrMissingDirectory(desc.Dir)
}

// Clear closes the session, detaches the loader and forgets the current project.
func (b *Builder) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var name string
	if b.project != nil {
		name = b.project.Name
	}
	b.closeSessionLocked()
	b.project = nil
	if err := b.notifier.Clear(); err != nil {
		return fmt.Errorf("clear loader: %w", err)
	}
	b.publish("project_cleared", name, nil)
	return nil
}

// Close shuts down the build session. The builder stays usable.
func (b *Builder) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeSessionLocked()
	return nil
}

// activateLocked makes desc current and starts a fresh session in its root.
func (b *Builder) activateLocked(desc scaffold.ProjectDescriptor) error {
	b.closeSessionLocked()
	d := desc
	b.project = &d
	b.sess = b.newSessionLocked(desc.Dir)
	return b.startSessionLocked()
}

func (b *Builder) pluginDir(name string) string {
	return filepath.Join(b.cfg.Paths.PluginsDir, name)
}

func (b *Builder) pluginPath(name string) string {
	return filepath.Join(b.pluginDir(name), name+"."+b.cfg.Build.BinaryExt)
}

func (b *Builder) artifactPath(desc scaffold.ProjectDescriptor) string {
	return filepath.Join(desc.Dir, "build", "bin", b.cfg.Build.BuildType, desc.Name+"."+b.cfg.Build.BinaryExt)
}
