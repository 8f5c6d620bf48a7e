package enforce_test

import (
	"testing"

	"github.com/dmitrymomot/authzkit/pkg/enforce"
	"github.com/dmitrymomot/authzkit/pkg/match"
	"github.com/dmitrymomot/authzkit/pkg/policy"
	"github.com/dmitrymomot/authzkit/pkg/rolegraph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SchemaValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []enforce.Option
	}{
		{
			name: "permission arity below 2",
			opts: []enforce.Option{enforce.WithPermissionArity(1)},
		},
		{
			name: "grouping arity out of range",
			opts: []enforce.Option{enforce.WithGrouping("g", 4)},
		},
		{
			name: "duplicate grouping relation",
			opts: []enforce.Option{
				enforce.WithGrouping("g", 2),
				enforce.WithGrouping("g", 3),
			},
		},
		{
			name: "reserved relation name",
			opts: []enforce.Option{enforce.WithGrouping("p", 2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := enforce.New(tt.opts...)
			assert.ErrorIs(t, err, enforce.ErrInvalidSchema)
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		e, err := enforce.New()
		require.NoError(t, err)
		assert.Equal(t, "g", e.DefaultRelation())
		assert.Equal(t, []string{"g"}, e.Relations())
	})

	t.Run("first declared grouping becomes default", func(t *testing.T) {
		t.Parallel()
		e, err := enforce.New(
			enforce.WithGrouping("g2", 2),
			enforce.WithGrouping("g", 2),
		)
		require.NoError(t, err)
		assert.Equal(t, "g2", e.DefaultRelation())
		assert.Equal(t, []string{"g2", "g"}, e.Relations())
	})
}

func TestEnforcer_Enforce(t *testing.T) {
	t.Parallel()

	newEnforcer := func(t *testing.T) *enforce.Enforcer {
		t.Helper()
		e, err := enforce.New()
		require.NoError(t, err)

		_, err = e.AddPolicy("admin", "data1", "read")
		require.NoError(t, err)
		_, err = e.AddPolicy("bob", "data2", "write")
		require.NoError(t, err)
		_, err = e.AddGroupingPolicy("alice", "admin")
		require.NoError(t, err)
		return e
	}

	t.Run("direct permission", func(t *testing.T) {
		t.Parallel()
		e := newEnforcer(t)
		allowed, err := e.Enforce("bob", "data2", "write")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("permission through a role", func(t *testing.T) {
		t.Parallel()
		e := newEnforcer(t)
		allowed, err := e.Enforce("alice", "data1", "read")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("deny without a matching rule", func(t *testing.T) {
		t.Parallel()
		e := newEnforcer(t)
		allowed, err := e.Enforce("bob", "data1", "read")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("transitive inheritance", func(t *testing.T) {
		t.Parallel()
		e := newEnforcer(t)
		_, err := e.AddGroupingPolicy("admin", "superuser")
		require.NoError(t, err)
		_, err = e.AddPolicy("superuser", "data9", "erase")
		require.NoError(t, err)

		allowed, err := e.Enforce("alice", "data9", "erase")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("wrong request arity fails loudly", func(t *testing.T) {
		t.Parallel()
		e := newEnforcer(t)
		_, err := e.Enforce("alice", "data1")
		assert.ErrorIs(t, err, policy.ErrInvalidArity)
	})
}

func TestEnforcer_Domains(t *testing.T) {
	t.Parallel()

	e, err := enforce.New(
		enforce.WithPermissionArity(4),
		enforce.WithGrouping("g", 3),
		enforce.WithMatcher(enforce.MatchWithDomains()),
	)
	require.NoError(t, err)

	_, err = e.AddPolicy("admin", "tenant1", "data1", "read")
	require.NoError(t, err)
	_, err = e.AddGroupingPolicy("alice", "admin", "tenant1")
	require.NoError(t, err)

	allowed, err := e.Enforce("alice", "tenant1", "data1", "read")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = e.Enforce("alice", "tenant2", "data1", "read")
	require.NoError(t, err)
	assert.False(t, allowed, "role held in tenant1 must not leak into tenant2")
}

func TestEnforcer_ObjectPatterns(t *testing.T) {
	t.Parallel()

	e, err := enforce.New(enforce.WithMatcher(enforce.MatchObjectPattern(match.Path)))
	require.NoError(t, err)

	_, err = e.AddPolicy("admin", "/files/*", "read")
	require.NoError(t, err)
	_, err = e.AddGroupingPolicy("alice", "admin")
	require.NoError(t, err)

	allowed, err := e.Enforce("alice", "/files/2024/report.pdf", "read")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = e.Enforce("alice", "/archive/old.pdf", "read")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestEnforcer_GroupingSync(t *testing.T) {
	t.Parallel()

	t.Run("add links the graph", func(t *testing.T) {
		t.Parallel()
		e, err := enforce.New()
		require.NoError(t, err)

		added, err := e.AddGroupingPolicy("alice", "admin")
		require.NoError(t, err)
		assert.True(t, added)

		roles, err := e.Roles("g", "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"admin"}, roles)
	})

	t.Run("duplicate add reports no change", func(t *testing.T) {
		t.Parallel()
		e, err := enforce.New()
		require.NoError(t, err)

		_, err = e.AddGroupingPolicy("alice", "admin")
		require.NoError(t, err)
		added, err := e.AddGroupingPolicy("alice", "admin")
		require.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("remove unlinks the graph", func(t *testing.T) {
		t.Parallel()
		e, err := enforce.New()
		require.NoError(t, err)

		_, err = e.AddGroupingPolicy("alice", "admin")
		require.NoError(t, err)
		removed, err := e.RemoveGroupingPolicy("alice", "admin")
		require.NoError(t, err)
		assert.True(t, removed)

		ok, err := e.HasLink("g", "alice", "admin")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("filtered removal unlinks every removed rule", func(t *testing.T) {
		t.Parallel()
		e, err := enforce.New()
		require.NoError(t, err)

		_, err = e.AddGroupingPolicy("alice", "admin")
		require.NoError(t, err)
		_, err = e.AddGroupingPolicy("alice", "auditor")
		require.NoError(t, err)
		_, err = e.AddGroupingPolicy("bob", "admin")
		require.NoError(t, err)

		changed, err := e.RemoveFilteredGroupingPolicies(0, "alice")
		require.NoError(t, err)
		assert.True(t, changed)

		ok, err := e.HasLink("g", "alice", "admin")
		require.NoError(t, err)
		assert.False(t, ok)

		users, err := e.Users("g", "admin")
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, users, "unrelated links survive")
	})

	t.Run("domain grouping syncs labelled links", func(t *testing.T) {
		t.Parallel()
		e, err := enforce.New(
			enforce.WithPermissionArity(4),
			enforce.WithGrouping("g", 3),
		)
		require.NoError(t, err)

		_, err = e.AddGroupingPolicy("alice", "admin", "tenant1")
		require.NoError(t, err)

		roles, err := e.Roles("g", "alice", "tenant1")
		require.NoError(t, err)
		assert.Equal(t, []string{"admin"}, roles)

		roles, err = e.Roles("g", "alice")
		require.NoError(t, err)
		assert.Empty(t, roles)
	})
}

func TestEnforcer_NamedGroupings(t *testing.T) {
	t.Parallel()

	e, err := enforce.New(
		enforce.WithGrouping("g", 2),
		enforce.WithGrouping("g2", 2),
	)
	require.NoError(t, err)

	_, err = e.AddNamedGroupingPolicy("g2", "data1", "dataset")
	require.NoError(t, err)

	has, err := e.HasNamedGroupingPolicy("g2", "data1", "dataset")
	require.NoError(t, err)
	assert.True(t, has)

	rules, err := e.NamedGroupingPolicies("g2")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"data1", "dataset"}}, rules)

	_, err = e.AddNamedGroupingPolicy("g9", "a", "b")
	assert.ErrorIs(t, err, rolegraph.ErrUnknownRelation)
}

func TestEnforcer_SubjectsAndRoles(t *testing.T) {
	t.Parallel()

	e, err := enforce.New(
		enforce.WithGrouping("g", 2),
		enforce.WithGrouping("g2", 2),
	)
	require.NoError(t, err)

	_, err = e.AddPolicy("admin", "data1", "read")
	require.NoError(t, err)
	_, err = e.AddPolicy("bob", "data1", "read")
	require.NoError(t, err)
	_, err = e.AddPolicy("admin", "data2", "write")
	require.NoError(t, err)
	_, err = e.AddGroupingPolicy("alice", "admin")
	require.NoError(t, err)
	_, err = e.AddNamedGroupingPolicy("g2", "bob", "auditor")
	require.NoError(t, err)

	assert.Equal(t, []string{"admin", "bob"}, e.Subjects())
	assert.Equal(t, []string{"alice", "bob"}, e.Grantees())
	assert.Equal(t, []string{"admin", "auditor"}, e.AllRoles())
}

func TestEnforcer_Clear(t *testing.T) {
	t.Parallel()

	e, err := enforce.New()
	require.NoError(t, err)

	_, err = e.AddPolicy("admin", "data1", "read")
	require.NoError(t, err)
	_, err = e.AddGroupingPolicy("alice", "admin")
	require.NoError(t, err)

	e.Clear()

	rules, err := e.Policies()
	require.NoError(t, err)
	assert.Empty(t, rules)

	ok, err := e.HasLink("g", "alice", "admin")
	require.NoError(t, err)
	assert.False(t, ok)

	allowed, err := e.Enforce("alice", "data1", "read")
	require.NoError(t, err)
	assert.False(t, allowed)
}
