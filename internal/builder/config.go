package builder

import (
	"io"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"pluginbuilder/internal/config"
	"pluginbuilder/internal/session"
)

// Options configures a Builder.
type Options struct {
	Config config.Config
	// Host gives access to the host namespace and loader. Defaults to a
	// LocalHost seeded from Config.Build.ReservedNames.
	Host      Host
	Publisher EventPublisher
	Logger    zerolog.Logger
	// Shell overrides the platform build shell derived from Config.
	Shell *session.Shell
	// Console receives shell output in console mode (os.Stdout when nil).
	Console io.Writer
	// GracePeriod bounds how long closing a session waits before killing it.
	GracePeriod time.Duration
	// GOOS selects platform defaults; runtime.GOOS when empty.
	GOOS string
}

func (o *Options) applyDefaults() {
	o.Config.ApplyDefaults()
	if o.GOOS == "" {
		o.GOOS = runtime.GOOS
	}
	if o.Publisher == nil {
		o.Publisher = noopPublisher{}
	}
	if o.Host == nil {
		o.Host = NewLocalHost(o.Config.Build.ReservedNames...)
	}
}

// shell returns the configured shell or the platform default.
func (o Options) shell() session.Shell {
	if o.Shell != nil {
		return *o.Shell
	}
	return session.DefaultShell(o.GOOS, o.Config.Build.Shell, session.Toolchain{
		VCVarsall: o.Config.Paths.VCVarsall,
		EnvScript: o.Config.Paths.ToolchainEnv,
		NinjaDir:  o.Config.Paths.NinjaDir,
	})
}
