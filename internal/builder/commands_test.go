package builder

import (
	"path/filepath"
	"testing"
)

func TestConfigureCommandSortsAndQuotes(t *testing.T) {
	got := cmakeConfigure{
		buildDir:  "build",
		generator: "Ninja",
		defines: map[string]string{
			"PLUGIN_DIR":         `C:\Users\Ada Lovelace\Plugins\Foo`,
			"CMAKE_BUILD_TYPE":   "Debug",
			"PLUGIN_BUILDER_DIR": "/opt/pb",
		},
	}.String()
	want := `cmake -B build -G Ninja -DCMAKE_BUILD_TYPE=Debug -DPLUGIN_BUILDER_DIR=/opt/pb -DPLUGIN_DIR="C:\Users\Ada Lovelace\Plugins\Foo"`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestTemplatesListEveryKind(t *testing.T) {
	b, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	tpls := b.Templates()
	if len(tpls) != 6 || tpls[3].Name != "CudaTOP" || tpls[3].Blocks != "cuda" || tpls[3].OpType != "TOP" {
		t.Fatalf("templates=%+v", tpls)
	}
}

func TestNewRejectsOutputMode(t *testing.T) {
	opts := Options{}
	opts.Config.Build.OutputTo = "speaker"
	if _, err := New(opts); err == nil {
		t.Fatalf("expected error for unknown output mode")
	}
}

func TestNewResolvesRootsAgainstBuilderDir(t *testing.T) {
	root := t.TempDir()
	opts := Options{}
	opts.Config.Paths.PluginBuilderDir = root
	opts.Config.Paths.PluginsDir = "out/Plugins"
	b, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	p := b.Config().Paths
	if p.ProjectsDir != filepath.Join(root, "PluginProjects") || p.PluginsDir != filepath.Join(root, "out", "Plugins") || p.TemplatesDir != filepath.Join(root, "templates") {
		t.Fatalf("paths=%+v", p)
	}
}
