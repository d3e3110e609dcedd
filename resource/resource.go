package resource

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/stuck-lehnert/cloud/internal/debug"
)

// Resource is a checked, immutable resource definition.
type Resource struct {
	def      Definition
	names    []string
	registry *Registry
}

// New checks def and returns the resource. References of a resource
// created by New cannot be included; use a Registry for that.
func New(def Definition) (*Resource, error) {
	def.PrimaryKey = slices.Clone(def.PrimaryKey)
	def.CreateOnly = slices.Clone(def.CreateOnly)
	def.Modifiable = slices.Clone(def.Modifiable)
	def.OrderBy = slices.Clone(def.OrderBy)

	refs := make(map[string]Reference, len(def.References))
	for name, ref := range def.References {
		refs[name] = ref
	}
	def.References = refs

	if err := def.check(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(def.Attributes))
	for name := range def.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Resource{def: def, names: names}, nil
}

// Name returns the resource name.
func (r *Resource) Name() string { return r.def.Name }

// Table returns the backing table.
func (r *Resource) Table() string { return r.def.Table }

// PrimaryKey returns the primary key attribute names.
func (r *Resource) PrimaryKey() []string { return slices.Clone(r.def.PrimaryKey) }

// CreateOnly returns the attributes that can be set by Create but never
// modified.
func (r *Resource) CreateOnly() []string { return slices.Clone(r.def.CreateOnly) }

// Attributes returns the attribute names in sorted order.
func (r *Resource) Attributes() []string { return slices.Clone(r.names) }

// References returns the reference names in sorted order.
func (r *Resource) References() []string {
	names := make([]string, 0, len(r.def.References))
	for name := range r.def.References {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attribute returns the named attribute.
func (r *Resource) Attribute(name string) (Attribute, bool) {
	a, ok := r.def.Attributes[name]
	return a, ok
}

// Registry holds resources by name so that references can be resolved
// after every resource is registered, whatever the registration order.
type Registry struct {
	mu        sync.RWMutex
	resources map[string]*Resource
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{resources: make(map[string]*Resource)}
}

// Register checks def and adds the resource.
func (g *Registry) Register(def Definition) (*Resource, error) {
	res, err := New(def)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.resources[res.Name()]; exists {
		return nil, invalidDefinition(res.Name(), "resource is already registered")
	}
	res.registry = g
	g.resources[res.Name()] = res

	debug.Debug("registered resource", "resource", res.Name(), "table", res.Table())
	return res, nil
}

// MustRegister is like Register but panics on error.
func (g *Registry) MustRegister(def Definition) *Resource {
	res, err := g.Register(def)
	if err != nil {
		panic(err)
	}
	return res
}

// Lookup returns the resource registered under name.
func (g *Registry) Lookup(name string) (*Resource, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	res, ok := g.resources[name]
	return res, ok
}

// Names returns the registered resource names in sorted order.
func (g *Registry) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.resources))
	for name := range g.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the target of the reference ref of res.
func (g *Registry) Resolve(res *Resource, ref string) (*Resource, error) {
	def, ok := res.def.References[ref]
	if !ok {
		return nil, fmt.Errorf("resource %q has no reference %q", res.Name(), ref)
	}
	target, ok := g.Lookup(def.Resource)
	if !ok {
		return nil, invalidDefinition(res.Name(), "reference %q targets unknown resource %q", ref, def.Resource)
	}
	return target, nil
}

// Validate checks that every reference of every registered resource
// targets a registered resource.
func (g *Registry) Validate() error {
	for _, name := range g.Names() {
		res, _ := g.Lookup(name)
		for _, ref := range res.References() {
			if _, err := g.Resolve(res, ref); err != nil {
				return err
			}
		}
	}
	return nil
}
