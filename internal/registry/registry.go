package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/sagegrid/internal/model"
)

// Registry holds every known component, keyed by name.
type Registry struct {
	mu         sync.RWMutex
	components map[string]*model.Component
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]*model.Component),
	}
}

// Register adds a component. Registering a second component under an
// existing name is an error naming both manifests.
func (r *Registry) Register(c *model.Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.components[c.Name]; ok {
		return fmt.Errorf("component '%s' defined in %s is already registered from %s", c.Name, c.FSInformation, existing.FSInformation)
	}
	r.components[c.Name] = c
	return nil
}

// Lookup returns the component registered under name.
func (r *Registry) Lookup(name string) (*model.Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[name]
	return c, ok
}

// Names returns the sorted names of all registered components.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}
