package action

import (
	"log/slog"
	"reflect"
	"sort"
	"sync"
)

// Registry is the catalog of registered action specs for one process.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]*Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns the shared process-wide registry, creating it on first
// access. Code that compiles or validates blueprints should accept a
// *Registry instead of calling this directly; Default exists for wiring.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry()
	}
	return defaultRegistry
}

// Add registers a spec. Invalid specs and id collisions with a different
// implementation are rejected with a log, not an error: registration runs
// at startup over a scanned catalog and one bad action must not take down
// the rest. Re-adding the identical implementation is a no-op.
func (r *Registry) Add(spec *Spec) bool {
	if !spec.Valid() {
		slog.Error("Rejected invalid action spec.", "id", spec.ID)
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.specs[spec.ID]; ok {
		if factoryPtr(existing.New) == factoryPtr(spec.New) {
			return true
		}
		slog.Error("An action is already registered with this id.", "id", spec.ID)
		return false
	}
	slog.Debug("Registering action spec.", "id", spec.ID)
	r.specs[spec.ID] = spec
	return true
}

// Find returns the spec registered under an id.
func (r *Registry) Find(id string) (*Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[id]
	return spec, ok
}

// FindByFactory returns the spec whose implementation factory matches.
func (r *Registry) FindByFactory(factory func() Runner) (*Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want := factoryPtr(factory)
	for _, spec := range r.specs {
		if factoryPtr(spec.New) == want {
			return spec, true
		}
	}
	return nil, false
}

// Remove unregisters an action id. Unknown ids are ignored.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.specs, id)
}

// Reset removes every registered spec. Intended for test isolation.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = make(map[string]*Spec)
}

// All returns every registered spec ordered by category then id.
func (r *Registry) All() []*Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Spec, 0, len(r.specs))
	for _, spec := range r.specs {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func factoryPtr(factory func() Runner) uintptr {
	return reflect.ValueOf(factory).Pointer()
}
