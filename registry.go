package softblit

import (
	"errors"
	"sort"
	"sync"
)

// SurfaceFactory attaches a new Surface to a window handle.
// Implementations return ErrUnsupportedWindow when the handle belongs to a
// different windowing subsystem so that automatic selection can move on to
// the next backend.
type SurfaceFactory func(h WindowHandle, cfg Config) (Surface, error)

// RegistryEntry represents a registered surface backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: native window-system backends (x11, win32, cocoa)
	//   - 10: offscreen software backends (memory)
	Priority int

	// Factory creates surface instances.
	Factory SurfaceFactory

	// Available reports if the backend is usable on this system, for
	// example whether an X display can be reached.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered surface backends.
//
// The registry enables out-of-tree backends to plug in without changes to
// the core library. Backend packages register themselves from init, so a
// blank import is enough to make a backend a selection candidate.
//
// Example registration:
//
//	func init() {
//	    softblit.Register("x11", 100, newSurface, displayReachable)
//	}
//
// Example usage:
//
//	s, err := softblit.NewSurfaceByName("x11", handle, cfg)
//	// or auto-select best available:
//	s, err := softblit.NewSurface(handle, cfg)
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewSurface.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a backend to the global registry.
//
// Parameters:
//   - name: unique identifier (e.g., "x11", "win32", "memory")
//   - priority: selection priority (higher = preferred)
//   - factory: function that attaches surfaces to windows
//   - available: function to check if the backend is available
//
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory SurfaceFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// AvailableBackends returns names of all available backends sorted by priority.
func AvailableBackends() []string {
	return globalRegistry.Available()
}

// Get returns information about a specific backend.
func Get(name string) (*RegistryEntry, bool) {
	return globalRegistry.Get(name)
}

// NewSurface attaches a surface using the best available backend that
// accepts the handle. Returns an error if no backend does.
func NewSurface(h WindowHandle, cfg Config) (Surface, error) {
	return globalRegistry.NewSurface(h, cfg)
}

// NewSurfaceByName attaches a surface using a specific named backend.
func NewSurfaceByName(name string, h WindowHandle, cfg Config) (Surface, error) {
	return globalRegistry.NewSurfaceByName(name, h, cfg)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory SurfaceFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available backends sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns information about a specific backend.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	// Return a copy to prevent modification
	entryCopy := *entry
	return &entryCopy, true
}

// NewSurface attaches a surface using the best available backend.
// Backends are tried in priority order; one that rejects the handle with
// ErrUnsupportedWindow does not stop the search.
func (r *Registry) NewSurface(h WindowHandle, cfg Config) (Surface, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range available {
		s, err := r.NewSurfaceByName(name, h, cfg)
		if err == nil {
			return s, nil
		}
		// A backend that cannot serve this handle kind is not a failure,
		// the next one may accept it. Anything else is a real attach error
		// from a backend that did recognize the handle.
		var unavailable *BackendUnavailableError
		if !errors.Is(err, ErrUnsupportedWindow) && !errors.As(err, &unavailable) {
			return nil, err
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoBackendAvailable
}

// NewSurfaceByName attaches a surface using a specific backend.
func (r *Registry) NewSurfaceByName(name string, h WindowHandle, cfg Config) (Surface, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}

	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}

	return entry.Factory(h, cfg)
}

// sortedNames returns backend names sorted by priority (highest first).
// If onlyAvailable is true, filters to available backends only.
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Errors.
var (
	// ErrNoBackendAvailable is returned when no surface backends are
	// registered or available on the current system.
	ErrNoBackendAvailable = errors.New("softblit: no backend available")
)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "softblit: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "softblit: backend unavailable: " + e.Name
}
