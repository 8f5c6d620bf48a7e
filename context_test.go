package authzkit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authzkit"
)

func TestSubjectContext(t *testing.T) {
	t.Parallel()

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		subject, ok := authzkit.GetSubjectFromContext(context.Background())
		assert.False(t, ok)
		assert.Empty(t, subject)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		ctx := authzkit.SetSubjectToContext(context.Background(), "alice")
		subject, ok := authzkit.GetSubjectFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "alice", subject)
	})
}

func TestDomainContext(t *testing.T) {
	t.Parallel()

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		domain, ok := authzkit.GetDomainFromContext(context.Background())
		assert.False(t, ok)
		assert.Empty(t, domain)
	})

	t.Run("independent of subject", func(t *testing.T) {
		t.Parallel()
		ctx := authzkit.SetSubjectToContext(context.Background(), "alice")
		ctx = authzkit.SetDomainToContext(ctx, "tenant1")

		subject, ok := authzkit.GetSubjectFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "alice", subject)

		domain, ok := authzkit.GetDomainFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "tenant1", domain)
	})
}
