// Package reload swaps a freshly built plugin library into the host's loader
// node: unload, copy the artifact, repoint, reload.
package reload

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pluginbuilder/internal/common/errs"
	"pluginbuilder/internal/common/fsutil"
)

// Loader is the host's plugin loader node.
type Loader interface {
	SetUnloaded(unloaded bool) error
	SetPluginPath(path string) error
}

// Binder is implemented by loaders that can recreate the host loader node for
// another operator family.
type Binder interface {
	Bind(opType, pluginPath string) error
}

// Notifier drives a Loader through a reload.
type Notifier struct {
	loader Loader
	log    zerolog.Logger
}

func NewNotifier(l Loader, log zerolog.Logger) *Notifier {
	if l == nil {
		l = NopLoader{}
	}
	return &Notifier{loader: l, log: log}
}

// Loader returns the wrapped loader.
func (n *Notifier) Loader() Loader { return n.loader }

// Unload marks the loader unloaded without touching any files.
func (n *Notifier) Unload() error {
	return n.loader.SetUnloaded(true)
}

// Bind points the loader at pluginPath for an operator of opType and leaves it
// unloaded until the first successful Reload.
func (n *Notifier) Bind(opType, pluginPath string) error {
	if b, ok := n.loader.(Binder); ok {
		return b.Bind(opType, pluginPath)
	}
	if err := n.loader.SetUnloaded(true); err != nil {
		return err
	}
	return n.loader.SetPluginPath(pluginPath)
}

// Clear unloads the plugin and detaches the loader.
func (n *Notifier) Clear() error {
	if err := n.loader.SetUnloaded(true); err != nil {
		return err
	}
	if b, ok := n.loader.(Binder); ok {
		return b.Bind("", "")
	}
	return nil
}

// Reload copies artifact to target and points the loader at the copy.
// The loader is left unloaded and nothing is copied when artifact is absent.
func (n *Notifier) Reload(artifact, target string) error {
	if err := n.loader.SetUnloaded(true); err != nil {
		return fmt.Errorf("unload: %w", err)
	}
	if !fsutil.PathExists(artifact) {
		n.log.Warn().Str("artifact", artifact).Msg("build artifact not found, loader left unloaded")
		reloadsTotal.WithLabelValues("missing").Inc()
		return fmt.Errorf("%w: %s", errs.ErrArtifactMissing, artifact)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		reloadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("create plugin dir: %w", err)
	}
	if err := fsutil.CopyFile(artifact, target); err != nil {
		reloadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("copy artifact: %w", err)
	}
	if err := n.loader.SetPluginPath(target); err != nil {
		reloadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("set plugin path: %w", err)
	}
	if err := n.loader.SetUnloaded(false); err != nil {
		reloadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("reload: %w", err)
	}
	reloadsTotal.WithLabelValues("ok").Inc()
	n.log.Info().Str("plugin", target).Msg("plugin reloaded")
	return nil
}

// LoaderState is what the host loader should currently look like.
type LoaderState struct {
	Unloaded   bool      `json:"unloaded"`
	PluginPath string    `json:"plugin_path"`
	OpType     string    `json:"op_type,omitempty"`
	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StateLoader records the desired loader state; the host polls it.
type StateLoader struct {
	mu sync.Mutex
	st LoaderState
}

func NewStateLoader() *StateLoader { return &StateLoader{st: LoaderState{Unloaded: true}} }

func (l *StateLoader) SetUnloaded(unloaded bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.Unloaded = unloaded
	l.touch()
	return nil
}

func (l *StateLoader) SetPluginPath(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.PluginPath = path
	l.touch()
	return nil
}

func (l *StateLoader) Bind(opType, pluginPath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.OpType = opType
	l.st.PluginPath = pluginPath
	l.st.Unloaded = true
	l.touch()
	return nil
}

func (l *StateLoader) touch() {
	l.st.Generation++
	l.st.UpdatedAt = time.Now()
}

// Snapshot returns a copy of the current state.
func (l *StateLoader) Snapshot() LoaderState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st
}

// NopLoader accepts every change and does nothing.
type NopLoader struct{}

func (NopLoader) SetUnloaded(bool) error     { return nil }
func (NopLoader) SetPluginPath(string) error { return nil }
