package rolegraph

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// DefaultRelation is the conventional name of the user-to-role grouping
// relation.
const DefaultRelation = "g"

// Registry holds one graph per named grouping relation, in registration
// order. Multi-relation resolution walks Relations() front to back, so the
// order is an observable part of the contract.
type Registry struct {
	mu     sync.RWMutex
	graphs map[string]*Graph
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{graphs: make(map[string]*Graph)}
}

// Register binds a graph to a relation name. Registering an existing name
// replaces the graph but keeps its position in the registration order.
// A nil graph registers a fresh empty one.
func (r *Registry) Register(relation string, g *Graph) {
	if g == nil {
		g = New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.graphs[relation]; !exists {
		r.order = append(r.order, relation)
	}
	r.graphs[relation] = g
}

// Graph returns the graph registered under the relation name.
func (r *Registry) Graph(relation string) (*Graph, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, exists := r.graphs[relation]
	return g, exists
}

// Relations returns the registered relation names in registration order.
func (r *Registry) Relations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Roles returns the direct grantors of name within the relation.
func (r *Registry) Roles(relation, name string, domain ...string) ([]string, error) {
	g, err := r.resolve(relation)
	if err != nil {
		return nil, err
	}
	return g.Roles(name, domain...)
}

// Users returns the direct grantees of name within the relation.
func (r *Registry) Users(relation, name string, domain ...string) ([]string, error) {
	g, err := r.resolve(relation)
	if err != nil {
		return nil, err
	}
	return g.Users(name, domain...)
}

// HasLink reports whether user transitively reaches role within the relation.
func (r *Registry) HasLink(relation, user, role string, domain ...string) (bool, error) {
	g, err := r.resolve(relation)
	if err != nil {
		return false, err
	}
	return g.HasLink(user, role, domain...)
}

// AddLink records a link within the relation.
func (r *Registry) AddLink(relation, user, role string, domain ...string) error {
	g, err := r.resolve(relation)
	if err != nil {
		return err
	}
	return g.AddLink(user, role, domain...)
}

// RemoveLink deletes a link within the relation.
func (r *Registry) RemoveLink(relation, user, role string, domain ...string) error {
	g, err := r.resolve(relation)
	if err != nil {
		return err
	}
	return g.RemoveLink(user, role, domain...)
}

// ClearLinks drops every link from every registered graph.
func (r *Registry) ClearLinks() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.graphs {
		g.Clear()
	}
}

func (r *Registry) resolve(relation string) (*Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, exists := r.graphs[relation]
	if !exists {
		return nil, errors.Join(ErrUnknownRelation, fmt.Errorf("relation %q not registered", relation))
	}
	return g, nil
}
