// Package rolegraph provides in-memory role inheritance graphs for
// authorization systems.
//
// A Graph stores directed links from a grantee (user or role) to a grantor
// role, optionally labelled with a domain such as a tenant ID. Links are kept
// in insertion order, which makes neighbor enumeration deterministic. Cycles
// are legal; traversal visits every node at most once.
//
// A Registry holds one graph per named grouping relation (e.g., "g" for user
// to role, "g2" for resource to resource group) and preserves registration
// order, so callers that walk every relation do it deterministically.
//
// # Usage
//
//	import "github.com/dmitrymomot/authzkit/pkg/rolegraph"
//
//	g := rolegraph.New()
//	g.AddLink("alice", "admin")
//	g.AddLink("admin", "superuser")
//
//	ok, _ := g.HasLink("alice", "superuser") // true, transitive
//	roles, _ := g.Roles("alice")             // ["admin"], direct only
//
// Domain-labelled links are invisible to global queries and vice versa:
//
//	g.AddLink("alice", "admin", "tenant1")
//	g.Roles("alice")            // no tenant1 links here
//	g.Roles("alice", "tenant1") // ["admin"]
//
// # Pattern Matching
//
// Graphs accept matcher hooks from pkg/match so that pattern-shaped names
// participate in resolution. With WithRoleMatcher, a link from "user.*" grants
// to every concrete name under that prefix; with WithDomainMatcher, a link
// labelled "*" serves every domain.
//
//	g := rolegraph.New(
//	    rolegraph.WithRoleMatcher(match.Wildcard),
//	    rolegraph.WithDomainMatcher(match.Domain),
//	)
//
// Transitive resolution is bounded by a maximum hop count (default 10,
// override with WithMaxHops) so deep or adversarial hierarchies cannot stall
// a request.
//
// All types are safe for concurrent use.
package rolegraph
