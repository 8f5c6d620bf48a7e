package enforce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/authzkit/pkg/audit"
	"github.com/dmitrymomot/authzkit/pkg/policy"
	"github.com/dmitrymomot/authzkit/pkg/rolegraph"
)

type groupingDef struct {
	name  string
	arity int
	opts  []rolegraph.Option
}

type config struct {
	permissionArity int
	groupings       []groupingDef
	matcher         MatcherFunc
	logger          *slog.Logger
	trail           *audit.Trail
}

// Option configures an Enforcer during construction.
type Option func(*config)

// WithPermissionArity declares the permission rule arity (default 3).
func WithPermissionArity(arity int) Option {
	return func(c *config) {
		c.permissionArity = arity
	}
}

// WithGrouping declares a grouping relation with the given name and arity
// (2, or 3 when links carry a domain). Graph options configure the relation's
// role graph. The first declared relation becomes the default one.
func WithGrouping(name string, arity int, opts ...rolegraph.Option) Option {
	return func(c *config) {
		c.groupings = append(c.groupings, groupingDef{name: name, arity: arity, opts: opts})
	}
}

// WithMatcher overrides the decision function (default MatchWithRoles).
func WithMatcher(fn MatcherFunc) Option {
	return func(c *config) {
		c.matcher = fn
	}
}

// WithLogger attaches a structured logger for decision and mutation logging.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		c.logger = log
	}
}

// WithAudit records every rule mutation on the given trail, including
// no-ops. Recording failures are logged and do not fail the mutation.
func WithAudit(trail *audit.Trail) Option {
	return func(c *config) {
		c.trail = trail
	}
}

// Enforcer is an authorization decision point over an owned policy store and
// role graph registry. Grouping mutations keep graphs in sync with the store.
type Enforcer struct {
	store    *policy.Store
	graphs   *rolegraph.Registry
	relation string
	matcher  MatcherFunc
	log      *slog.Logger
	trail    *audit.Trail
}

// New creates an enforcer from the declared schema. Without options it speaks
// the classic model: permission rules (subject, object, action), one grouping
// relation "g" with (user, role) links, and MatchWithRoles decisions.
func New(opts ...Option) (*Enforcer, error) {
	cfg := &config{permissionArity: policy.DefaultPermissionArity}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.groupings) == 0 {
		cfg.groupings = []groupingDef{{name: rolegraph.DefaultRelation, arity: policy.DefaultGroupingArity}}
	}

	if cfg.permissionArity < 2 {
		return nil, errors.Join(ErrInvalidSchema, fmt.Errorf("permission arity %d, need at least 2", cfg.permissionArity))
	}

	storeOpts := []policy.Option{policy.WithPermissionArity(cfg.permissionArity)}
	graphs := rolegraph.NewRegistry()
	declared := make(map[string]struct{}, len(cfg.groupings))
	for _, def := range cfg.groupings {
		if def.name == "" || def.name == policy.PermissionFamily {
			return nil, errors.Join(ErrInvalidSchema, fmt.Errorf("grouping relation name %q is reserved", def.name))
		}
		if _, dup := declared[def.name]; dup {
			return nil, errors.Join(ErrInvalidSchema, fmt.Errorf("grouping relation %q declared twice", def.name))
		}
		declared[def.name] = struct{}{}
		if def.arity != 2 && def.arity != 3 {
			return nil, errors.Join(ErrInvalidSchema, fmt.Errorf("grouping relation %q arity %d, need 2 or 3", def.name, def.arity))
		}
		storeOpts = append(storeOpts, policy.WithGrouping(def.name, def.arity))
		graphs.Register(def.name, rolegraph.New(def.opts...))
	}

	matcher := cfg.matcher
	if matcher == nil {
		matcher = MatchWithRoles()
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Enforcer{
		store:    policy.New(storeOpts...),
		graphs:   graphs,
		relation: cfg.groupings[0].name,
		matcher:  matcher,
		log:      logger,
		trail:    cfg.trail,
	}, nil
}

// Enforce evaluates one request against the permission rules in insertion
// order and allows on the first match. No matching rule means deny.
func (e *Enforcer) Enforce(request ...string) (bool, error) {
	arity, err := e.store.Arity(policy.PermissionFamily)
	if err != nil {
		return false, err
	}
	if len(request) != arity {
		return false, errors.Join(policy.ErrInvalidArity, fmt.Errorf("request expects %d values, got %d", arity, len(request)))
	}

	rules, err := e.store.Rules(policy.PermissionFamily)
	if err != nil {
		return false, err
	}

	req := e.request(request)
	for _, rule := range rules {
		if e.matcher(req, rule) {
			e.log.Debug("request allowed", slog.Any("request", request), slog.Any("rule", rule))
			return true, nil
		}
	}
	e.log.Debug("request denied", slog.Any("request", request))
	return false, nil
}

// DefaultRelation returns the name of the privileged grouping relation used
// by the unnamed grouping methods.
func (e *Enforcer) DefaultRelation() string {
	return e.relation
}

// Relations returns every grouping relation name in declaration order.
func (e *Enforcer) Relations() []string {
	return e.graphs.Relations()
}

// Roles returns the direct roles of name within the relation.
func (e *Enforcer) Roles(relation, name string, domain ...string) ([]string, error) {
	return e.graphs.Roles(relation, name, domain...)
}

// Users returns the direct grantees of name within the relation.
func (e *Enforcer) Users(relation, name string, domain ...string) ([]string, error) {
	return e.graphs.Users(relation, name, domain...)
}

// HasLink reports whether user transitively reaches role within the relation.
func (e *Enforcer) HasLink(relation, user, role string, domain ...string) (bool, error) {
	return e.graphs.HasLink(relation, user, role, domain...)
}

// AddPolicy inserts a permission rule. Returns false if already present.
func (e *Enforcer) AddPolicy(rule ...string) (bool, error) {
	added, err := e.store.Add(policy.PermissionFamily, rule...)
	if err != nil {
		return false, err
	}
	if added {
		e.log.Debug("permission rule added", slog.Any("rule", rule))
	}
	e.audit(audit.OpGrantPermission, "", rule, added)
	return added, nil
}

// RemovePolicy deletes an exact permission rule. Returns false if missing.
func (e *Enforcer) RemovePolicy(rule ...string) (bool, error) {
	removed, err := e.store.Remove(policy.PermissionFamily, rule...)
	if err != nil {
		return false, err
	}
	if removed {
		e.log.Debug("permission rule removed", slog.Any("rule", rule))
	}
	e.audit(audit.OpRevokePermission, "", rule, removed)
	return removed, nil
}

// HasPolicy reports whether the exact permission rule is present.
func (e *Enforcer) HasPolicy(rule ...string) (bool, error) {
	return e.store.Has(policy.PermissionFamily, rule...)
}

// Policies returns all permission rules in insertion order.
func (e *Enforcer) Policies() ([][]string, error) {
	return e.store.Rules(policy.PermissionFamily)
}

// FilteredPolicies returns the permission rules matching the filter; empty
// filter values match any rule value at their position.
func (e *Enforcer) FilteredPolicies(startIndex int, values ...string) ([][]string, error) {
	return e.store.Filtered(policy.PermissionFamily, startIndex, values...)
}

// RemoveFilteredPolicies deletes every permission rule matching the filter.
// Returns true if anything was removed.
func (e *Enforcer) RemoveFilteredPolicies(startIndex int, values ...string) (bool, error) {
	removed, err := e.store.RemoveFiltered(policy.PermissionFamily, startIndex, values...)
	if err != nil {
		return false, err
	}
	if len(removed) > 0 {
		e.log.Debug("permission rules removed", slog.Int("count", len(removed)))
	}
	for _, rule := range removed {
		e.audit(audit.OpRevokePermission, "", rule, true)
	}
	return len(removed) > 0, nil
}

// AddGroupingPolicy inserts a grouping rule into the default relation and
// links the corresponding graph edge.
func (e *Enforcer) AddGroupingPolicy(rule ...string) (bool, error) {
	return e.AddNamedGroupingPolicy(e.relation, rule...)
}

// RemoveGroupingPolicy deletes a grouping rule from the default relation and
// unlinks the corresponding graph edge.
func (e *Enforcer) RemoveGroupingPolicy(rule ...string) (bool, error) {
	return e.RemoveNamedGroupingPolicy(e.relation, rule...)
}

// HasGroupingPolicy reports whether the exact grouping rule is present in the
// default relation.
func (e *Enforcer) HasGroupingPolicy(rule ...string) (bool, error) {
	return e.HasNamedGroupingPolicy(e.relation, rule...)
}

// GroupingPolicies returns all grouping rules of the default relation.
func (e *Enforcer) GroupingPolicies() ([][]string, error) {
	return e.NamedGroupingPolicies(e.relation)
}

// RemoveFilteredGroupingPolicies deletes every default-relation grouping rule
// matching the filter, unlinking graph edges for each removed rule.
func (e *Enforcer) RemoveFilteredGroupingPolicies(startIndex int, values ...string) (bool, error) {
	return e.RemoveFilteredNamedGroupingPolicy(e.relation, startIndex, values...)
}

// AddNamedGroupingPolicy inserts a grouping rule into the named relation and
// links the corresponding graph edge.
func (e *Enforcer) AddNamedGroupingPolicy(relation string, rule ...string) (bool, error) {
	g, err := e.groupingGraph(relation)
	if err != nil {
		return false, err
	}
	added, err := e.store.Add(relation, rule...)
	if err != nil || !added {
		return false, err
	}
	if err := g.AddLink(rule[0], rule[1], rule[2:]...); err != nil {
		_, _ = e.store.Remove(relation, rule...)
		return false, err
	}
	e.log.Debug("grouping rule added", slog.String("relation", relation), slog.Any("rule", rule))
	e.audit(audit.OpGrantRole, relation, rule, true)
	return true, nil
}

// RemoveNamedGroupingPolicy deletes a grouping rule from the named relation
// and unlinks the corresponding graph edge.
func (e *Enforcer) RemoveNamedGroupingPolicy(relation string, rule ...string) (bool, error) {
	g, err := e.groupingGraph(relation)
	if err != nil {
		return false, err
	}
	removed, err := e.store.Remove(relation, rule...)
	if err != nil || !removed {
		return false, err
	}
	if err := g.RemoveLink(rule[0], rule[1], rule[2:]...); err != nil {
		return false, err
	}
	e.log.Debug("grouping rule removed", slog.String("relation", relation), slog.Any("rule", rule))
	e.audit(audit.OpRevokeRole, relation, rule, true)
	return true, nil
}

// HasNamedGroupingPolicy reports whether the exact grouping rule is present
// in the named relation.
func (e *Enforcer) HasNamedGroupingPolicy(relation string, rule ...string) (bool, error) {
	if _, err := e.groupingGraph(relation); err != nil {
		return false, err
	}
	return e.store.Has(relation, rule...)
}

// NamedGroupingPolicies returns all grouping rules of the named relation.
func (e *Enforcer) NamedGroupingPolicies(relation string) ([][]string, error) {
	if _, err := e.groupingGraph(relation); err != nil {
		return nil, err
	}
	return e.store.Rules(relation)
}

// RemoveFilteredNamedGroupingPolicy deletes every grouping rule of the named
// relation matching the filter, unlinking graph edges for each removed rule.
// Returns true if anything was removed.
func (e *Enforcer) RemoveFilteredNamedGroupingPolicy(relation string, startIndex int, values ...string) (bool, error) {
	g, err := e.groupingGraph(relation)
	if err != nil {
		return false, err
	}
	removed, err := e.store.RemoveFiltered(relation, startIndex, values...)
	if err != nil {
		return false, err
	}
	for _, rule := range removed {
		if err := g.RemoveLink(rule[0], rule[1], rule[2:]...); err != nil {
			return false, err
		}
	}
	if len(removed) > 0 {
		e.log.Debug("grouping rules removed", slog.String("relation", relation), slog.Int("count", len(removed)))
	}
	for _, rule := range removed {
		e.audit(audit.OpRevokeRole, relation, rule, true)
	}
	return len(removed) > 0, nil
}

// Subjects returns every distinct permission rule subject in first-appearance
// order.
func (e *Enforcer) Subjects() []string {
	// index 0 is always within the declared arity
	subjects, _ := e.store.Values(policy.PermissionFamily, 0)
	return subjects
}

// Grantees returns every distinct grantee across all grouping relations, in
// declaration-then-insertion order.
func (e *Enforcer) Grantees() []string {
	return e.store.GroupingValues(0)
}

// AllRoles returns every distinct grantor across all grouping relations, in
// declaration-then-insertion order.
func (e *Enforcer) AllRoles() []string {
	return e.store.GroupingValues(1)
}

// Clear drops every rule and link, keeping the declared schema.
func (e *Enforcer) Clear() {
	e.store.Clear()
	e.graphs.ClearLinks()
	e.log.Debug("all rules cleared")
	e.audit(audit.OpClear, "", nil, true)
}

func (e *Enforcer) audit(op audit.Op, relation string, rule []string, changed bool) {
	if e.trail == nil {
		return
	}
	if err := e.trail.Record(context.Background(), op, relation, rule, changed); err != nil {
		e.log.Error("audit record failed", slog.String("op", string(op)), slog.Any("error", err))
	}
}

func (e *Enforcer) request(values []string) Request {
	return Request{
		Values: values,
		HasRole: func(user, role string, domain ...string) bool {
			ok, err := e.graphs.HasLink(e.relation, user, role, domain...)
			return err == nil && ok
		},
		HasRoleIn: func(relation, user, role string, domain ...string) bool {
			ok, err := e.graphs.HasLink(relation, user, role, domain...)
			return err == nil && ok
		},
	}
}

func (e *Enforcer) groupingGraph(relation string) (*rolegraph.Graph, error) {
	g, exists := e.graphs.Graph(relation)
	if !exists {
		return nil, errors.Join(rolegraph.ErrUnknownRelation, fmt.Errorf("relation %q not registered", relation))
	}
	return g, nil
}
