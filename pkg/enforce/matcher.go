package enforce

import "github.com/dmitrymomot/authzkit/pkg/match"

// Request is one access request presented to a MatcherFunc.
type Request struct {
	// Values is the request tuple, e.g. (subject, object, action).
	Values []string

	// HasRole reports whether user directly or transitively holds role in the
	// default grouping relation. Nil when the enforcer has no graphs.
	HasRole func(user, role string, domain ...string) bool

	// HasRoleIn is HasRole against a specific named grouping relation.
	HasRoleIn func(relation, user, role string, domain ...string) bool
}

// MatcherFunc decides whether a single permission rule satisfies the request.
// The enforcer scans rules in insertion order and allows on the first match.
type MatcherFunc func(req Request, rule []string) bool

// MatchExact matches a rule only when every request value equals the rule
// value at the same position. No role resolution.
func MatchExact() MatcherFunc {
	return func(req Request, rule []string) bool {
		if len(req.Values) != len(rule) {
			return false
		}
		for i := range rule {
			if req.Values[i] != rule[i] {
				return false
			}
		}
		return true
	}
}

// MatchWithRoles matches when the request subject equals the rule subject or
// inherits it as a role; remaining positions compare exactly. This is the
// classic RBAC model.
func MatchWithRoles() MatcherFunc {
	return func(req Request, rule []string) bool {
		if len(req.Values) != len(rule) || len(rule) == 0 {
			return false
		}
		if !subjectMatches(req, rule[0], nil) {
			return false
		}
		for i := 1; i < len(rule); i++ {
			if req.Values[i] != rule[i] {
				return false
			}
		}
		return true
	}
}

// MatchWithDomains matches (subject, domain, object, action, ...) tuples:
// the domain must compare exactly and role resolution is scoped to it.
func MatchWithDomains() MatcherFunc {
	return func(req Request, rule []string) bool {
		if len(req.Values) != len(rule) || len(rule) < 2 {
			return false
		}
		domain := req.Values[1]
		if domain != rule[1] {
			return false
		}
		if !subjectMatches(req, rule[0], []string{domain}) {
			return false
		}
		for i := 2; i < len(rule); i++ {
			if req.Values[i] != rule[i] {
				return false
			}
		}
		return true
	}
}

// MatchObjectPattern is MatchWithRoles with the object position (index 1)
// compared through the given pattern function, so rules may hold patterns
// like "/files/*" or "doc.*".
func MatchObjectPattern(fn match.Func) MatcherFunc {
	return func(req Request, rule []string) bool {
		if len(req.Values) != len(rule) || len(rule) < 2 {
			return false
		}
		if !subjectMatches(req, rule[0], nil) {
			return false
		}
		if !fn(req.Values[1], rule[1]) {
			return false
		}
		for i := 2; i < len(rule); i++ {
			if req.Values[i] != rule[i] {
				return false
			}
		}
		return true
	}
}

func subjectMatches(req Request, ruleSubject string, domain []string) bool {
	if req.Values[0] == ruleSubject {
		return true
	}
	if req.HasRole == nil {
		return false
	}
	return req.HasRole(req.Values[0], ruleSubject, domain...)
}
