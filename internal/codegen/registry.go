package codegen

import (
	"fmt"
	"sort"
)

// Registry manages available targets
type Registry struct {
	targets map[string]func(opts Options) Target
}

// NewRegistry creates a new target registry
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[string]func(opts Options) Target),
	}
}

// Register adds a new target factory to the registry
func (r *Registry) Register(name string, factory func(opts Options) Target) {
	r.targets[name] = factory
}

// Get returns the named target configured with opts
func (r *Registry) Get(name string, opts Options) (Target, error) {
	factory, exists := r.targets[name]
	if !exists {
		return nil, fmt.Errorf("unsupported target: %s (supported: %v)", name, r.Names())
	}

	return factory(opts), nil
}

// Names returns the registered target names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
