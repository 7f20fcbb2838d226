package hclgraph

import (
	"fmt"
	"sync"

	"github.com/vk/flowgrid/internal/module"
)

// Constructor builds a Module for a vertex of the given name. The same
// constructor is invoked once per `module "<name>" "<type>"` block that
// names its type.
type Constructor func(name string) module.Module

// Registry maps a grid file's module type names to the constructors that
// build them. Registering the same type name twice panics, matching the
// fail-fast-at-startup convention used elsewhere in this codebase for
// duplicate registrations.
type Registry struct {
	mu    sync.Mutex
	ctors map[string]Constructor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register associates typeName with ctor.
func (r *Registry) Register(typeName string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[typeName]; exists {
		panic(fmt.Sprintf("hclgraph: module type %q already registered", typeName))
	}
	r.ctors[typeName] = ctor
}

func (r *Registry) build(typeName, name string) (module.Module, error) {
	r.mu.Lock()
	ctor, ok := r.ctors[typeName]
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("hclgraph: unknown module type %q (vertex %q)", typeName, name)
	}
	return ctor(name), nil
}
