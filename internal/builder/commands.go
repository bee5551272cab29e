package builder

import (
	"sort"
	"strings"

	"pluginbuilder/internal/common/errs"
	"pluginbuilder/internal/common/fsutil"
	"pluginbuilder/internal/scaffold"
)

const (
	buildDirName   = "build"
	compileCommand = "ninja -C " + buildDirName
	cleanCommand   = "ninja -C " + buildDirName + " clean"
	exitCommand    = "exit"
)

// cmakeConfigure renders a cmake configure command line.
type cmakeConfigure struct {
	buildDir  string
	generator string
	defines   map[string]string
}

func (c cmakeConfigure) String() string {
	args := []string{"cmake", "-B", c.buildDir, "-G", c.generator}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-D"+k+"="+quoteArg(c.defines[k]))
	}
	return strings.Join(args, " ")
}

// quoteArg double-quotes values both cmd.exe and sh would otherwise split.
func quoteArg(v string) string {
	if v == "" || strings.ContainsAny(v, " \t&;()<>|^") {
		return `"` + v + `"`
	}
	return v
}

func (b *Builder) configureCommand(desc scaffold.ProjectDescriptor) string {
	return cmakeConfigure{
		buildDir:  buildDirName,
		generator: "Ninja",
		defines: map[string]string{
			"PLUGIN_BUILDER_DIR": b.cfg.Paths.PluginBuilderDir,
			"PLUGIN_DIR":         b.pluginDir(desc.Name),
			"CMAKE_BUILD_TYPE":   b.cfg.Build.BuildType,
		},
	}.String()
}

// Configure sends the cmake configure command for the current project.
func (b *Builder) Configure() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	desc, err := b.currentLocked()
	if err != nil {
		return "", err
	}
	if !fsutil.IsDir(desc.Dir) {
		return "", errs.ErrMissingDirectory(desc.Dir)
	}
	b.log.Info().Str("plugin", desc.Name).Msg("configuring")
	return b.sendLocked("configure", b.configureCommand(desc))
}

// Compile sends the ninja build command.
func (b *Builder) Compile() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	desc, err := b.currentLocked()
	if err != nil {
		return "", err
	}
	b.log.Info().Str("plugin", desc.Name).Msg("compiling")
	return b.sendLocked("compile", compileCommand)
}

// Clean sends the ninja clean command.
func (b *Builder) Clean() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.currentLocked(); err != nil {
		return "", err
	}
	return b.sendLocked("clean", cleanCommand)
}

// BuildAndCompile sends configure followed by compile.
func (b *Builder) BuildAndCompile() ([]string, error) {
	configure, err := b.Configure()
	if err != nil {
		return nil, err
	}
	compile, err := b.Compile()
	if err != nil {
		return []string{configure}, err
	}
	return []string{configure, compile}, nil
}

// EndSession asks the shell to exit once the commands already sent have run.
func (b *Builder) EndSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.sendLocked("exit", exitCommand)
	return err
}

func (b *Builder) currentLocked() (scaffold.ProjectDescriptor, error) {
	if b.project == nil {
		return scaffold.ProjectDescriptor{}, errs.ErrUserInput("no plugin project selected")
	}
	return *b.project, nil
}

func (b *Builder) sendLocked(action, command string) (string, error) {
	if b.sess == nil {
		return "", errs.ErrNotRunning
	}
	if err := b.sess.SendCommand(command); err != nil {
		return "", err
	}
	buildCommandsTotal.WithLabelValues(action).Inc()
	var name string
	if b.project != nil {
		name = b.project.Name
	}
	b.publish("command_sent", name, map[string]any{"action": action, "command": command})
	return command, nil
}
