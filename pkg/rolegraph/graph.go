package rolegraph

import (
	"slices"
	"sync"

	"github.com/dmitrymomot/authzkit/pkg/match"
)

// DefaultMaxHops bounds transitive resolution depth. Hierarchies deeper than
// this indicate a design problem, not a use case.
const DefaultMaxHops = 10

type edge struct {
	user string
	role string
}

// links holds the edges of one domain label in insertion order.
type links struct {
	edges []edge
	index map[edge]struct{}
}

func newLinks() *links {
	return &links{index: make(map[edge]struct{})}
}

// Graph is a thread-safe directed graph of role inheritance links, segmented
// by domain label. The empty label holds links added without a domain.
type Graph struct {
	mu          sync.RWMutex
	maxHops     int
	roleMatch   match.Func
	domainMatch match.Func
	domains     map[string]*links
	order       []string // domain label insertion order
}

// Option configures a Graph during construction.
type Option func(*Graph)

// WithMaxHops overrides the transitive resolution depth bound.
func WithMaxHops(n int) Option {
	return func(g *Graph) {
		if n > 0 {
			g.maxHops = n
		}
	}
}

// WithRoleMatcher installs a pattern matcher for grantee and grantor names,
// letting links stored under pattern names (e.g., "user.*") resolve for
// concrete names.
func WithRoleMatcher(fn match.Func) Option {
	return func(g *Graph) {
		g.roleMatch = fn
	}
}

// WithDomainMatcher installs a pattern matcher for domain labels, letting
// links stored under pattern labels (e.g., "*") serve concrete domains.
func WithDomainMatcher(fn match.Func) Option {
	return func(g *Graph) {
		g.domainMatch = fn
	}
}

// New creates an empty role graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		maxHops: DefaultMaxHops,
		domains: make(map[string]*links),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddLink records that user inherits role, optionally within a domain.
// Adding an existing link is a no-op.
func (g *Graph) AddLink(user, role string, domain ...string) error {
	label, err := domainLabel(domain)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	l, exists := g.domains[label]
	if !exists {
		l = newLinks()
		g.domains[label] = l
		g.order = append(g.order, label)
	}

	e := edge{user: user, role: role}
	if _, dup := l.index[e]; dup {
		return nil
	}
	l.edges = append(l.edges, e)
	l.index[e] = struct{}{}
	return nil
}

// RemoveLink deletes the exact link, if present. Pattern links are removed by
// naming the pattern itself.
func (g *Graph) RemoveLink(user, role string, domain ...string) error {
	label, err := domainLabel(domain)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	l, exists := g.domains[label]
	if !exists {
		return nil
	}

	e := edge{user: user, role: role}
	if _, present := l.index[e]; !present {
		return nil
	}
	delete(l.index, e)
	l.edges = slices.DeleteFunc(l.edges, func(x edge) bool { return x == e })
	return nil
}

// HasLink reports whether user reaches role through any chain of links, up to
// the hop bound. A name trivially reaches itself.
func (g *Graph) HasLink(user, role string, domain ...string) (bool, error) {
	label, err := domainLabel(domain)
	if err != nil {
		return false, err
	}

	if user == role {
		return true, nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	sets := g.matchingLinks(label)
	if len(sets) == 0 {
		return false, nil
	}

	type hop struct {
		name  string
		depth int
	}
	visited := map[string]struct{}{user: {}}
	queue := []hop{{name: user, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth == g.maxHops {
			continue
		}
		for _, next := range g.neighbors(sets, cur.name) {
			if next == role || (g.roleMatch != nil && g.roleMatch(role, next)) {
				return true, nil
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, hop{name: next, depth: cur.depth + 1})
		}
	}
	return false, nil
}

// Roles returns the roles user is directly linked to, in link order.
func (g *Graph) Roles(user string, domain ...string) ([]string, error) {
	label, err := domainLabel(domain)
	if err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.neighbors(g.matchingLinks(label), user), nil
}

// Users returns the grantees directly linked to role, in link order.
func (g *Graph) Users(role string, domain ...string) ([]string, error) {
	label, err := domainLabel(domain)
	if err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	seen := make(map[string]struct{})
	for _, l := range g.matchingLinks(label) {
		for _, e := range l.edges {
			if e.role != role && !(g.roleMatch != nil && g.roleMatch(role, e.role)) {
				continue
			}
			if _, dup := seen[e.user]; dup {
				continue
			}
			seen[e.user] = struct{}{}
			out = append(out, e.user)
		}
	}
	return out, nil
}

// Clear drops every link but keeps the configured matchers and hop bound.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.domains = make(map[string]*links)
	g.order = nil
}

// matchingLinks resolves the link sets visible to a query domain; callers
// hold the lock.
func (g *Graph) matchingLinks(label string) []*links {
	if g.domainMatch == nil {
		if l, exists := g.domains[label]; exists {
			return []*links{l}
		}
		return nil
	}
	var out []*links
	for _, stored := range g.order {
		if g.domainMatch(label, stored) {
			out = append(out, g.domains[stored])
		}
	}
	return out
}

// neighbors returns the grantors directly reachable from name across the
// given link sets, deduplicated in first-link order; callers hold the lock.
func (g *Graph) neighbors(sets []*links, name string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, l := range sets {
		for _, e := range l.edges {
			if e.user != name && !(g.roleMatch != nil && g.roleMatch(name, e.user)) {
				continue
			}
			if _, dup := seen[e.role]; dup {
				continue
			}
			seen[e.role] = struct{}{}
			out = append(out, e.role)
		}
	}
	return out
}

func domainLabel(domain []string) (string, error) {
	switch len(domain) {
	case 0:
		return "", nil
	case 1:
		return domain[0], nil
	default:
		return "", ErrDomainParameter
	}
}
