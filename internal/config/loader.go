package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"pluginbuilder/internal/common/fsutil"
)

// Paths locates the toolchain and the directory trees the builder works in.
// Values may contain ${USER_PATH} or a leading '~'.
type Paths struct {
	PluginBuilderDir string `json:"plugin_builder_dir" yaml:"plugin_builder_dir" toml:"plugin_builder_dir"`
	TemplatesDir     string `json:"templates_dir" yaml:"templates_dir" toml:"templates_dir"`
	ProjectsDir      string `json:"projects_dir" yaml:"projects_dir" toml:"projects_dir"`
	PluginsDir       string `json:"plugins_dir" yaml:"plugins_dir" toml:"plugins_dir"`
	InstallDir       string `json:"install_dir" yaml:"install_dir" toml:"install_dir"`
	NinjaDir         string `json:"ninja_dir" yaml:"ninja_dir" toml:"ninja_dir"`
	// VCVarsall is the MSVC environment script (Windows only).
	VCVarsall string `json:"vcvarsall" yaml:"vcvarsall" toml:"vcvarsall"`
	// ToolchainEnv is an optional shell script sourced before building (Unix only).
	ToolchainEnv string `json:"toolchain_env" yaml:"toolchain_env" toml:"toolchain_env"`
}

// PluginInfo is stamped into generated sources.
type PluginInfo struct {
	Author string `json:"author" yaml:"author" toml:"author"`
	Email  string `json:"email" yaml:"email" toml:"email"`
}

// Build tunes the build session.
type Build struct {
	BuildType     string   `json:"build_type" yaml:"build_type" toml:"build_type"`
	Shell         string   `json:"shell" yaml:"shell" toml:"shell"`
	OutputTo      string   `json:"output_to" yaml:"output_to" toml:"output_to"`
	QueueCapacity int      `json:"queue_capacity" yaml:"queue_capacity" toml:"queue_capacity"`
	BinaryExt     string   `json:"binary_ext" yaml:"binary_ext" toml:"binary_ext"`
	ReservedNames []string `json:"reserved_names" yaml:"reserved_names" toml:"reserved_names"`
}

// Config holds runtime parameters for the builder.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr       string     `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel   string     `json:"log_level" yaml:"log_level" toml:"log_level"`
	Paths      Paths      `json:"paths" yaml:"paths" toml:"paths"`
	PluginInfo PluginInfo `json:"plugin_info" yaml:"plugin_info" toml:"plugin_info"`
	Build      Build      `json:"build" yaml:"build" toml:"build"`
}

// Output modes.
const (
	OutputQueue   = "queue"
	OutputConsole = "console"
)

const (
	defaultAddr          = "127.0.0.1:9980"
	defaultProjectsDir   = "PluginProjects"
	defaultPluginsDir    = "Plugins"
	defaultInstallDir    = "~/Documents/Derivative/Plugins"
	defaultBuildType     = "Release"
	defaultQueueCapacity = 4096
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Paths.ProjectsDir == "" {
		c.Paths.ProjectsDir = defaultProjectsDir
	}
	if c.Paths.PluginsDir == "" {
		c.Paths.PluginsDir = defaultPluginsDir
	}
	if c.Paths.InstallDir == "" {
		c.Paths.InstallDir = defaultInstallDir
	}
	if c.Paths.TemplatesDir == "" && c.Paths.PluginBuilderDir != "" {
		c.Paths.TemplatesDir = filepath.Join(c.Paths.PluginBuilderDir, "templates")
	}
	if c.Build.BuildType == "" {
		c.Build.BuildType = defaultBuildType
	}
	if c.Build.OutputTo == "" {
		c.Build.OutputTo = OutputQueue
	}
	if c.Build.QueueCapacity <= 0 {
		c.Build.QueueCapacity = defaultQueueCapacity
	}
	if c.Build.BinaryExt == "" {
		c.Build.BinaryExt = BinaryExt(runtime.GOOS)
	}
}

// ExpandPaths resolves ${USER_PATH} and '~' in every configured path.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{
		&c.Paths.PluginBuilderDir, &c.Paths.TemplatesDir, &c.Paths.ProjectsDir,
		&c.Paths.PluginsDir, &c.Paths.InstallDir, &c.Paths.NinjaDir,
		&c.Paths.VCVarsall, &c.Paths.ToolchainEnv,
	} {
		v, err := fsutil.ExpandUserPath(*p)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

// CheckPaths verifies that the configured toolchain locations exist.
// Unset optional paths are skipped.
func (c Config) CheckPaths() error {
	checks := []struct{ key, val string }{
		{"plugin_builder_dir", c.Paths.PluginBuilderDir},
		{"ninja_dir", c.Paths.NinjaDir},
		{"vcvarsall", c.Paths.VCVarsall},
		{"toolchain_env", c.Paths.ToolchainEnv},
	}
	for _, ck := range checks {
		if ck.val == "" {
			continue
		}
		if !fsutil.PathExists(ck.val) {
			return fmt.Errorf("config [paths] %s: %s does not exist", ck.key, ck.val)
		}
	}
	return nil
}

// BinaryExt returns the shared library extension for goos.
func BinaryExt(goos string) string {
	switch goos {
	case "windows":
		return "dll"
	case "darwin":
		return "dylib"
	default:
		return "so"
	}
}
