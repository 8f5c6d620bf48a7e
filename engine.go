package authzkit

import (
	"slices"

	"golang.org/x/sync/errgroup"
)

// PolicyManager is the rule management slice of the backend the engine
// drives. Mutations return a "changed" flag and reserve errors for contract
// violations; filtered operations treat empty filter values as wildcards.
type PolicyManager interface {
	AddPolicy(rule ...string) (bool, error)
	RemovePolicy(rule ...string) (bool, error)
	HasPolicy(rule ...string) (bool, error)
	FilteredPolicies(startIndex int, values ...string) ([][]string, error)
	RemoveFilteredPolicies(startIndex int, values ...string) (bool, error)

	AddGroupingPolicy(rule ...string) (bool, error)
	RemoveGroupingPolicy(rule ...string) (bool, error)
	RemoveFilteredGroupingPolicies(startIndex int, values ...string) (bool, error)

	// Subjects returns every distinct permission rule subject in
	// first-appearance order.
	Subjects() []string
	// Grantees returns every distinct grantee across all grouping relations.
	Grantees() []string
	// AllRoles returns every distinct grantor across all grouping relations.
	AllRoles() []string
}

// GraphRegistry resolves direct role links per named grouping relation. The
// engine walks Relations() front to back during closure computation, so the
// order is an observable part of the contract.
type GraphRegistry interface {
	Relations() []string
	DefaultRelation() string
	Roles(relation, name string, domain ...string) ([]string, error)
	Users(relation, name string, domain ...string) ([]string, error)
}

// Enforcer evaluates one access request to an allow/deny decision.
type Enforcer interface {
	Enforce(request ...string) (bool, error)
}

// Backend bundles the collaborators the engine needs. The pkg/enforce
// Enforcer satisfies it.
type Backend interface {
	PolicyManager
	GraphRegistry
	Enforcer
}

// Engine computes transitive role closure, aggregated permissions and
// reverse permission queries over a Backend. The engine itself holds no
// state and takes no locks; see the package documentation for the
// consistency caveat on multi-step traversals.
type Engine struct {
	backend  Backend
	parallel int
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithParallelism bounds the number of concurrent enforcement calls during
// implicit user derivation. Values below 2 keep the derivation serial.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallel = n
	}
}

// New creates a Resolution Engine over the given backend.
func New(backend Backend, opts ...Option) (*Engine, error) {
	if backend == nil {
		return nil, ErrMissingBackend
	}
	e := &Engine{backend: backend}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// RolesFor returns the roles directly granted to user in the default
// grouping relation, optionally scoped to a domain.
func (e *Engine) RolesFor(user string, domain ...string) ([]string, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	return e.backend.Roles(e.backend.DefaultRelation(), user, domain...)
}

// UsersFor returns the users directly granted role in the default grouping
// relation, optionally scoped to a domain.
func (e *Engine) UsersFor(role string, domain ...string) ([]string, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	return e.backend.Users(e.backend.DefaultRelation(), role, domain...)
}

// HasRole reports whether user directly holds role in the default grouping
// relation. Inherited roles do not count; use ImplicitRolesFor for those.
func (e *Engine) HasRole(user, role string, domain ...string) (bool, error) {
	roles, err := e.RolesFor(user, domain...)
	if err != nil {
		return false, err
	}
	return slices.Contains(roles, role), nil
}

// ImplicitRolesFor returns every role user reaches through any chain of
// links across every grouping relation, in breadth-first discovery order.
// The starting user itself is never part of the result, cycles included.
func (e *Engine) ImplicitRolesFor(user string, domain ...string) ([]string, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}

	var res []string
	seen := map[string]struct{}{user: {}}
	queue := []string{user}
	relations := e.backend.Relations()

	for len(queue) > 0 {
		entity := queue[0]
		queue = queue[1:]
		for _, relation := range relations {
			roles, err := e.backend.Roles(relation, entity, domain...)
			if err != nil {
				return nil, err
			}
			for _, role := range roles {
				if _, dup := seen[role]; dup {
					continue
				}
				seen[role] = struct{}{}
				res = append(res, role)
				queue = append(queue, role)
			}
		}
	}
	return res, nil
}

// ImplicitPermissionsFor returns every permission rule attributable to user
// directly or through any inherited role: the user's own rules first, then
// each role's rules in closure order. Identical rules reached through
// several roles appear once per holder; the result mirrors literal rule
// storage, not a logical set.
func (e *Engine) ImplicitPermissionsFor(user string, domain ...string) ([][]string, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}

	roles, err := e.ImplicitRolesFor(user, domain...)
	if err != nil {
		return nil, err
	}

	var res [][]string
	for _, entity := range append([]string{user}, roles...) {
		filter := append([]string{entity}, domain...)
		rules, err := e.backend.FilteredPolicies(0, filter...)
		if err != nil {
			return nil, err
		}
		res = append(res, rules...)
	}
	return res, nil
}

// ImplicitUsersFor returns the users that would pass enforcement for the
// given permission once role inheritance is taken into account. Candidates
// are the permission subjects and grouping grantees that are not themselves
// grantors in any grouping relation; each one is checked with a full
// enforcement call, so the answer stays correct under any matcher function.
// Results follow the candidate iteration order.
func (e *Engine) ImplicitUsersFor(permission ...string) ([]string, error) {
	roles := e.backend.AllRoles()
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	var candidates []string
	seen := make(map[string]struct{})
	for _, subject := range append(e.backend.Subjects(), e.backend.Grantees()...) {
		if _, isRole := roleSet[subject]; isRole {
			continue
		}
		if _, dup := seen[subject]; dup {
			continue
		}
		seen[subject] = struct{}{}
		candidates = append(candidates, subject)
	}

	allowed := make([]bool, len(candidates))
	if e.parallel > 1 {
		var g errgroup.Group
		g.SetLimit(e.parallel)
		for i, user := range candidates {
			g.Go(func() error {
				ok, err := e.backend.Enforce(append([]string{user}, permission...)...)
				if err != nil {
					return err
				}
				allowed[i] = ok
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, user := range candidates {
			ok, err := e.backend.Enforce(append([]string{user}, permission...)...)
			if err != nil {
				return nil, err
			}
			allowed[i] = ok
		}
	}

	var res []string
	for i, user := range candidates {
		if allowed[i] {
			res = append(res, user)
		}
	}
	return res, nil
}

// PermissionsFor returns the permission rules whose subject is user,
// optionally narrowed to a domain column.
func (e *Engine) PermissionsFor(user string, domain ...string) ([][]string, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	filter := append([]string{user}, domain...)
	return e.backend.FilteredPolicies(0, filter...)
}

// HasPermission reports whether the exact permission rule
// (user, permission...) is present.
func (e *Engine) HasPermission(user string, permission ...string) (bool, error) {
	return e.backend.HasPolicy(append([]string{user}, permission...)...)
}

// Enforce evaluates one access request against the backend's matcher.
func (e *Engine) Enforce(request ...string) (bool, error) {
	return e.backend.Enforce(request...)
}

// GrantRole adds a grouping rule for user, optionally domain-scoped.
// Returns false if the grant was already in place.
func (e *Engine) GrantRole(user, role string, domain ...string) (bool, error) {
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	rule := append([]string{user, role}, domain...)
	return e.backend.AddGroupingPolicy(rule...)
}

// RevokeRole removes a grouping rule for user, optionally domain-scoped.
// Returns false if the grant was not in place.
func (e *Engine) RevokeRole(user, role string, domain ...string) (bool, error) {
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	rule := append([]string{user, role}, domain...)
	return e.backend.RemoveGroupingPolicy(rule...)
}

// RevokeRoles removes every grouping rule where user is the grantee.
// Returns false if user held no roles.
func (e *Engine) RevokeRoles(user string) (bool, error) {
	return e.backend.RemoveFilteredGroupingPolicies(0, user)
}

// DeleteUser removes every grouping rule where user is the grantee and every
// permission rule where user is the subject. Returns true if either removal
// changed anything.
func (e *Engine) DeleteUser(user string) (bool, error) {
	unlinked, err := e.backend.RemoveFilteredGroupingPolicies(0, user)
	if err != nil {
		return false, err
	}
	removed, err := e.backend.RemoveFilteredPolicies(0, user)
	if err != nil {
		return false, err
	}
	return unlinked || removed, nil
}

// DeleteRole removes every grouping rule where role is the grantor and every
// permission rule where role is the subject. Returns true if either removal
// changed anything.
func (e *Engine) DeleteRole(role string) (bool, error) {
	unlinked, err := e.backend.RemoveFilteredGroupingPolicies(1, role)
	if err != nil {
		return false, err
	}
	removed, err := e.backend.RemoveFilteredPolicies(0, role)
	if err != nil {
		return false, err
	}
	return unlinked || removed, nil
}

// GrantPermission adds the permission rule (user, permission...).
// Returns false if already present.
func (e *Engine) GrantPermission(user string, permission ...string) (bool, error) {
	return e.backend.AddPolicy(append([]string{user}, permission...)...)
}

// RevokePermission removes the permission rule (user, permission...).
// Returns false if not present.
func (e *Engine) RevokePermission(user string, permission ...string) (bool, error) {
	return e.backend.RemovePolicy(append([]string{user}, permission...)...)
}

// RevokePermissions removes every permission rule whose subject is user.
// Returns false if user held no permissions.
func (e *Engine) RevokePermissions(user string) (bool, error) {
	return e.backend.RemoveFilteredPolicies(0, user)
}

// DeletePermission removes the permission from every subject holding it: a
// filtered removal keyed at the permission fields starting at position 1.
func (e *Engine) DeletePermission(permission ...string) (bool, error) {
	return e.backend.RemoveFilteredPolicies(1, permission...)
}

func checkDomain(domain []string) error {
	if len(domain) > 1 {
		return ErrDomainParameter
	}
	return nil
}
