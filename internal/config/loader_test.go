package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\npaths:\n  ninja_dir: /opt/ninja\n  projects_dir: /tmp/projects\nplugin_info:\n  author: Ada\n  email: ada@example.com\nbuild:\n  build_type: Debug\n  queue_capacity: 16\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.Paths.NinjaDir != "/opt/ninja" || cfg.Paths.ProjectsDir != "/tmp/projects" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.PluginInfo.Author != "Ada" || cfg.PluginInfo.Email != "ada@example.com" {
		t.Fatalf("unexpected plugin info: %+v", cfg.PluginInfo)
	}
	if cfg.Build.BuildType != "Debug" || cfg.Build.QueueCapacity != 16 {
		t.Fatalf("unexpected build: %+v", cfg.Build)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","paths":{"plugins_dir":"/p"},"build":{"output_to":"console","reserved_names":["builder","source"]}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.Paths.PluginsDir != "/p" || cfg.Build.OutputTo != OutputConsole {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.Build.ReservedNames) != 2 {
		t.Fatalf("reserved names: %v", cfg.Build.ReservedNames)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\n[paths]\nplugin_builder_dir=\"/pb\"\n[build]\nshell=\"/bin/bash\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.Paths.PluginBuilderDir != "/pb" || cfg.Build.Shell != "/bin/bash" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.ini", "[Paths]")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Paths: Paths{PluginBuilderDir: "/pb"}}
	cfg.ApplyDefaults()
	if cfg.Paths.TemplatesDir != filepath.Join("/pb", "templates") {
		t.Fatalf("templates dir: %q", cfg.Paths.TemplatesDir)
	}
	if cfg.Build.BuildType != "Release" || cfg.Build.OutputTo != OutputQueue || cfg.Build.QueueCapacity != 4096 {
		t.Fatalf("build defaults: %+v", cfg.Build)
	}
	if cfg.Paths.ProjectsDir != "PluginProjects" || cfg.Paths.PluginsDir != "Plugins" {
		t.Fatalf("path defaults: %+v", cfg.Paths)
	}
	if cfg.Build.BinaryExt == "" {
		t.Fatalf("binary ext not set")
	}
}

func TestBinaryExt(t *testing.T) {
	if BinaryExt("windows") != "dll" || BinaryExt("linux") != "so" || BinaryExt("darwin") != "dylib" {
		t.Fatalf("unexpected extensions")
	}
}

func TestCheckPaths(t *testing.T) {
	d := t.TempDir()
	cfg := Config{Paths: Paths{PluginBuilderDir: d, NinjaDir: d}}
	if err := cfg.CheckPaths(); err != nil {
		t.Fatalf("check: %v", err)
	}
	cfg.Paths.VCVarsall = filepath.Join(d, "missing.bat")
	if err := cfg.CheckPaths(); err == nil {
		t.Fatalf("expected missing vcvarsall error")
	}
}

func TestExpandPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	cfg := Config{Paths: Paths{NinjaDir: "${USER_PATH}/ninja"}}
	if err := cfg.ExpandPaths(); err != nil {
		t.Fatalf("expand: %v", err)
	}
	if cfg.Paths.NinjaDir != home+"/ninja" {
		t.Fatalf("ninja dir: %q", cfg.Paths.NinjaDir)
	}
}
