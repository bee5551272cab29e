package builder

import (
	"sync"

	"pluginbuilder/internal/reload"
	"pluginbuilder/internal/scaffold"
)

// Host is the live host context the builder works against: the operator
// namespace new plugin names must not clash with, and the plugin loader node.
type Host interface {
	scaffold.Namespace
	Loader() reload.Loader
}

// LocalHost is an in-process Host. Names are registered explicitly and the
// loader state is recorded for the host to poll.
type LocalHost struct {
	mu     sync.RWMutex
	names  map[string]struct{}
	loader *reload.StateLoader
}

func NewLocalHost(names ...string) *LocalHost {
	h := &LocalHost{names: make(map[string]struct{}, len(names)), loader: reload.NewStateLoader()}
	for _, n := range names {
		h.names[n] = struct{}{}
	}
	return h
}

func (h *LocalHost) NameInUse(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.names[name]
	return ok
}

// Register marks name as taken.
func (h *LocalHost) Register(name string) {
	h.mu.Lock()
	h.names[name] = struct{}{}
	h.mu.Unlock()
}

func (h *LocalHost) Loader() reload.Loader { return h.loader }

// LoaderState returns the recorded loader state.
func (h *LocalHost) LoaderState() reload.LoaderState { return h.loader.Snapshot() }
