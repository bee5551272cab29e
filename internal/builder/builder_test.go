//go:build !windows

package builder

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pluginbuilder/internal/common/errs"
	"pluginbuilder/internal/config"
	"pluginbuilder/internal/scaffold"
	"pluginbuilder/internal/session"
)

// fakeToolchain stands in for cmake and ninja by echoing their arguments.
var fakeToolchain = session.Shell{
	Program: "/bin/sh",
	Args:    []string{"-s"},
	Prelude: []string{
		`cmake() { echo "cmake $*"; }`,
		`ninja() { echo "ninja $*"; }`,
	},
}

type fixture struct {
	b    *Builder
	pub  *MemoryPublisher
	host *LocalHost
	root string
	opts Options
}

func newFixture(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()
	root := t.TempDir()
	templates, err := filepath.Abs("../../templates")
	if err != nil {
		t.Fatal(err)
	}
	shell := fakeToolchain
	f := &fixture{pub: NewMemoryPublisher(), root: root}
	f.opts = Options{
		Config: config.Config{
			Paths: config.Paths{
				PluginBuilderDir: root,
				TemplatesDir:     templates,
				ProjectsDir:      filepath.Join(root, "PluginProjects"),
				PluginsDir:       filepath.Join(root, "Plugins"),
				InstallDir:       filepath.Join(root, "Install"),
			},
			PluginInfo: config.PluginInfo{Author: "Ada", Email: "ada@example.com"},
			Build:      config.Build{QueueCapacity: 256},
		},
		Publisher:   f.pub,
		Logger:      zerolog.Nop(),
		Shell:       &shell,
		GracePeriod: 500 * time.Millisecond,
		GOOS:        "linux",
	}
	if mutate != nil {
		mutate(&f.opts)
	}
	if f.opts.Host == nil {
		f.host = NewLocalHost()
		f.opts.Host = f.host
	} else {
		f.host, _ = f.opts.Host.(*LocalHost)
	}
	b, err := New(f.opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.b = b
	t.Cleanup(func() { _ = b.Close() })
	return f
}

func waitForOutput(t *testing.T, b *Builder, want string) {
	t.Helper()
	q := b.Output()
	if q == nil {
		t.Fatalf("no session output")
	}
	var seen []string
	deadline := time.After(5 * time.Second)
	for {
		select {
		case l := <-q.C():
			seen = append(seen, l.Text)
			if l.Text == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q; saw %q", want, seen)
		}
	}
}

func hasEvent(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

func TestCreateConfiguresAndCompiles(t *testing.T) {
	f := newFixture(t, nil)
	desc, err := f.b.Create(context.Background(), "Foo", scaffold.BasicCHOP)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, p := range []string{desc.BuildConfig, filepath.Join(desc.SourceDir, "Foo.cpp"), filepath.Join(desc.SourceDir, "Foo.h")} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}
	pluginDir := filepath.Join(f.root, "Plugins", "Foo")
	waitForOutput(t, f.b, "cmake -B build -G Ninja -DCMAKE_BUILD_TYPE=Release -DPLUGIN_BUILDER_DIR="+f.root+" -DPLUGIN_DIR="+pluginDir)
	waitForOutput(t, f.b, "ninja -C build")

	st := f.b.Status()
	if st.Project == nil || st.Project.Name != "Foo" || st.Project.OpType != "CHOP" || st.Session.State != "running" {
		t.Fatalf("status=%+v", st)
	}
	if st.Session.WorkDir != desc.Dir {
		t.Fatalf("session dir=%s want project root %s", st.Session.WorkDir, desc.Dir)
	}
	if fi, err := os.Stat(pluginDir); err != nil || !fi.IsDir() {
		t.Fatalf("plugin dir: %v", err)
	}
	ls := f.host.LoaderState()
	if ls.OpType != "CHOP" || ls.PluginPath != filepath.Join(pluginDir, "Foo."+f.b.Config().Build.BinaryExt) || !ls.Unloaded {
		t.Fatalf("loader=%+v", ls)
	}

	if err := f.b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := f.b.Status().Session.State; got != "idle" {
		t.Fatalf("state after close=%s", got)
	}
	select {
	case <-f.b.SessionDone():
	default:
		t.Fatalf("session still alive after Close")
	}
	names := f.pub.Names()
	for _, want := range []string{"session_started", "command_sent", "project_created", "session_closed"} {
		if !hasEvent(names, want) {
			t.Fatalf("missing event %s in %v", want, names)
		}
	}
}

func TestCreateRollsBackWhenSessionFails(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Shell = &session.Shell{Program: filepath.Join(t.TempDir(), "no-such-shell")}
	})
	_, err := f.b.Create(context.Background(), "Foo", scaffold.BasicCHOP)
	if !errs.IsPartialFailure(err) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.root, "PluginProjects", "Foo")); !os.IsNotExist(err) {
		t.Fatalf("project dir not rolled back: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.root, "Plugins", "Foo")); !os.IsNotExist(err) {
		t.Fatalf("plugin dir not rolled back: %v", err)
	}
	if _, ok := f.b.Project(); ok {
		t.Fatalf("no project should be current")
	}
	if !hasEvent(f.pub.Names(), "project_rolled_back") {
		t.Fatalf("events=%v", f.pub.Names())
	}
}

func TestCreateRollbackKeepsInstalledPlugin(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Shell = &session.Shell{Program: filepath.Join(t.TempDir(), "no-such-shell")}
	})
	lib := filepath.Join(f.root, "Plugins", "Foo", "Foo.so")
	if err := os.MkdirAll(filepath.Dir(lib), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lib, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := f.b.Create(context.Background(), "Foo", scaffold.BasicCHOP); !errs.IsPartialFailure(err) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if _, err := os.Stat(lib); err != nil {
		t.Fatalf("existing plugin removed: %v", err)
	}
}

func TestCreateRejectsNameInUse(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Host = NewLocalHost("Foo") })
	_, err := f.b.Create(context.Background(), "Foo", scaffold.BasicCHOP)
	if !errs.IsUserInput(err) {
		t.Fatalf("expected user input error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.root, "PluginProjects", "Foo")); !os.IsNotExist(err) {
		t.Fatalf("nothing should be created: %v", err)
	}
}

func TestCreateExistingProject(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.b.Create(context.Background(), "Foo", scaffold.BasicDAT); err != nil {
		t.Fatal(err)
	}
	if _, err := f.b.Create(context.Background(), "Foo", scaffold.BasicDAT); !errs.IsAlreadyExists(err) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestCreateHonoursCancelledContext(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.b.Create(ctx, "Foo", scaffold.BasicCHOP); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOpenExistingProject(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.b.Create(context.Background(), "Foo", scaffold.CudaTOP); err != nil {
		t.Fatal(err)
	}
	_ = f.b.Close()

	g := newFixture(t, func(o *Options) { *o = f.opts; o.Host = nil })
	desc, err := g.b.Open(context.Background(), "Foo")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if desc.OpType != scaffold.OpTOP {
		t.Fatalf("op type=%s", desc.OpType)
	}
	if st := g.b.Status(); st.Session.State != "running" || st.Project == nil || st.Project.Name != "Foo" {
		t.Fatalf("status=%+v", st)
	}
	if ls := g.host.LoaderState(); ls.OpType != "TOP" {
		t.Fatalf("loader=%+v", ls)
	}
	if _, err := g.b.Compile(); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	waitForOutput(t, g.b, "ninja -C build")

	if _, err := g.b.Open(context.Background(), ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := g.b.Project(); ok {
		t.Fatalf("project should be cleared")
	}
	if ls := g.host.LoaderState(); ls.OpType != "" || !ls.Unloaded {
		t.Fatalf("loader after clear=%+v", ls)
	}
	if st := g.b.Status(); st.Session.State != "idle" {
		t.Fatalf("session after clear=%s", st.Session.State)
	}
}

func TestOpenUnknownProjectUnloads(t *testing.T) {
	f := newFixture(t, nil)
	_ = f.host.Loader().SetUnloaded(false)
	if _, err := f.b.Open(context.Background(), "Nope"); !errs.IsMissingDirectory(err) {
		t.Fatalf("expected missing directory, got %v", err)
	}
	if !f.host.LoaderState().Unloaded {
		t.Fatalf("loader should be unloaded")
	}
}

func TestOpenRejectsPathNames(t *testing.T) {
	f := newFixture(t, nil)
	outside := filepath.Join(f.root, "outside")
	if err := os.MkdirAll(outside, 0o755); err != nil {
		t.Fatal(err)
	}
	header := scaffold.AssembleBuildConfig(scaffold.BasicCHOP, "outside")
	if err := os.WriteFile(filepath.Join(outside, "CMakeLists.txt"), []byte(header), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"../outside", "..", ".", "a/b", `a\b`} {
		if _, err := f.b.Open(context.Background(), name); !errs.IsUserInput(err) {
			t.Fatalf("Open(%q): expected user input error, got %v", name, err)
		}
	}
	if _, ok := f.b.Project(); ok {
		t.Fatalf("no project should be current")
	}
	if st := f.b.Status(); st.Session.PID != 0 {
		t.Fatalf("a shell was started: %+v", st.Session)
	}
}

func TestConfigureRequiresProjectDir(t *testing.T) {
	f := newFixture(t, nil)
	desc, err := f.b.Create(context.Background(), "Foo", scaffold.BasicCHOP)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(desc.Dir); err != nil {
		t.Fatal(err)
	}
	if _, err := f.b.Configure(); !errs.IsMissingDirectory(err) {
		t.Fatalf("expected missing directory, got %v", err)
	}
}

func TestCommandsNeedProject(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.b.Compile(); !errs.IsUserInput(err) {
		t.Fatalf("compile: %v", err)
	}
	if _, err := f.b.Reload(); !errs.IsUserInput(err) {
		t.Fatalf("reload: %v", err)
	}
	if err := f.b.RestartSession(); !errs.IsUserInput(err) {
		t.Fatalf("restart: %v", err)
	}
	if f.b.Drain() != nil {
		t.Fatalf("drain without session should be empty")
	}
}

func TestCloseSessionThenRestart(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.b.Create(context.Background(), "Foo", scaffold.BasicCHOP); err != nil {
		t.Fatal(err)
	}
	if err := f.b.CloseSession(); err != nil {
		t.Fatal(err)
	}
	if err := f.b.CloseSession(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := f.b.Clean(); !errs.IsNotRunning(err) {
		t.Fatalf("expected not running, got %v", err)
	}
	if err := f.b.RestartSession(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if _, err := f.b.Clean(); err != nil {
		t.Fatalf("clean: %v", err)
	}
	waitForOutput(t, f.b, "ninja -C build clean")
}

func TestReloadAndInstall(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.b.Create(context.Background(), "Foo", scaffold.SimpleShapesSOP); err != nil {
		t.Fatal(err)
	}
	if _, err := f.b.Reload(); !errs.IsArtifactMissing(err) {
		t.Fatalf("expected artifact missing, got %v", err)
	}
	artifact, err := f.b.ArtifactPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(artifact), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(artifact, []byte("lib"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !f.b.Status().ArtifactExists {
		t.Fatalf("status should see the artifact")
	}
	loaded, err := f.b.Reload()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if ls := f.host.LoaderState(); ls.Unloaded || ls.PluginPath != loaded {
		t.Fatalf("loader=%+v", ls)
	}

	if _, err := f.b.Install(); !errs.IsMissingDirectory(err) {
		t.Fatalf("expected missing install dir, got %v", err)
	}
	if err := os.MkdirAll(f.b.Config().Paths.InstallDir, 0o755); err != nil {
		t.Fatal(err)
	}
	dst, err := f.b.Install()
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if got, err := os.ReadFile(filepath.Join(dst, filepath.Base(loaded))); err != nil || string(got) != "lib" {
		t.Fatalf("installed copy %q err=%v", got, err)
	}
	if _, err := f.b.Install(); !errs.IsAlreadyExists(err) {
		t.Fatalf("expected already installed, got %v", err)
	}
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (w *syncBuffer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.Write(p)
}

func (w *syncBuffer) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.String()
}

func TestOutputModeSwitch(t *testing.T) {
	console := &syncBuffer{}
	f := newFixture(t, func(o *Options) { o.Console = console })
	if _, err := f.b.Create(context.Background(), "Foo", scaffold.BasicCHOP); err != nil {
		t.Fatal(err)
	}
	if err := f.b.Dispatch(context.Background(), EventOutputModeChanged, "bogus"); !errs.IsUserInput(err) {
		t.Fatalf("expected user input error, got %v", err)
	}
	if err := f.b.Dispatch(context.Background(), EventOutputModeChanged, config.OutputConsole); err != nil {
		t.Fatalf("switch: %v", err)
	}
	st := f.b.Status()
	if st.Session.OutputTo != config.OutputConsole || st.Session.State != "running" {
		t.Fatalf("status=%+v", st.Session)
	}
	if err := f.b.Dispatch(context.Background(), EventSourceChanged, ""); err != nil {
		t.Fatalf("source changed: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(console.String(), "ninja -C build") {
		if time.Now().After(deadline) {
			t.Fatalf("console=%q", console.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
	if n := f.b.Output().Len(); n != 0 {
		t.Fatalf("queue should stay empty in console mode, has %d", n)
	}
}

func TestDispatchUnknownCallback(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.b.Dispatch(context.Background(), "bogus", ""); !errs.IsUserInput(err) {
		t.Fatalf("expected user input error, got %v", err)
	}
	// nothing to configure without a project
	if err := f.b.Dispatch(context.Background(), EventBuildConfigChanged, ""); err != nil {
		t.Fatalf("build config changed: %v", err)
	}
}

func TestBuildOneShot(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.b.Create(context.Background(), "Foo", scaffold.BasicCHOP); err != nil {
		t.Fatal(err)
	}
	if _, err := f.b.BuildAndCompile(); err != nil {
		t.Fatal(err)
	}
	if err := f.b.EndSession(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-f.b.SessionDone():
	case <-time.After(5 * time.Second):
		t.Fatalf("shell did not exit")
	}
	if err := f.b.Close(); err != nil {
		t.Fatal(err)
	}
	lines := f.b.Drain()
	var compiles int
	for _, l := range lines {
		if l.Text == "ninja -C build" {
			compiles++
		}
	}
	if compiles != 2 {
		t.Fatalf("expected 2 compile lines, got %d in %+v", compiles, lines)
	}
}
