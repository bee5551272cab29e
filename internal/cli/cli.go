package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"pluginbuilder/internal/builder"
	"pluginbuilder/internal/config"
)

// Config holds the global flags.
type Config struct {
	ConfigPath string
	LogLvl     string
	Addr       string
	Out        io.Writer
	Err        io.Writer
}

// newBuilder is swapped in tests to inject a fake toolchain shell.
var newBuilder = func(cfg config.Config, log zerolog.Logger) (*builder.Builder, error) {
	return builder.New(builder.Options{Config: cfg, Logger: log})
}

// Run executes the command line in args (without the program name).
func Run(args []string, cfg *Config) error {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	root := buildRootCmdWith(cfg)
	root.SetArgs(args)
	root.SetOut(cfg.Out)
	root.SetErr(cfg.Err)
	return root.Execute()
}

// DefaultConfig reads global flag defaults from the environment.
func DefaultConfig() *Config {
	return &Config{
		ConfigPath: envStr("PLUGINBUILDER_CONFIG", ""),
		LogLvl:     envStr("PLUGINBUILDER_LOG_LEVEL", ""),
		Addr:       envStr("PLUGINBUILDER_ADDR", ""),
	}
}

// loadConfig reads the config file when one is given and resolves defaults.
// Without a file the current directory is the plugin builder directory.
func loadConfig(cfg *Config) (config.Config, error) {
	var c config.Config
	if cfg.ConfigPath != "" {
		var err error
		if c, err = config.Load(cfg.ConfigPath); err != nil {
			return c, err
		}
	}
	if c.Paths.PluginBuilderDir == "" {
		c.Paths.PluginBuilderDir = "."
	}
	if cfg.Addr != "" {
		c.Addr = cfg.Addr
	}
	// Defaults first: the default install dir starts with '~'.
	c.ApplyDefaults()
	if err := c.ExpandPaths(); err != nil {
		return c, err
	}
	abs, err := filepath.Abs(c.Paths.PluginBuilderDir)
	if err != nil {
		return c, err
	}
	c.Paths.PluginBuilderDir = abs
	if err := c.CheckPaths(); err != nil {
		return c, err
	}
	return c, nil
}

// logLevel picks the flag or env level, falling back to the config file.
func logLevel(flag string, c config.Config) string {
	if flag != "" {
		return flag
	}
	return c.LogLevel
}
