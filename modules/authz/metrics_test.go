package authz_test

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authzkit"
	"github.com/dmitrymomot/authzkit/modules/authz"
	"github.com/dmitrymomot/authzkit/pkg/enforce"
)

func TestModule_Metrics(t *testing.T) {
	t.Parallel()

	backend, err := enforce.New()
	require.NoError(t, err)
	engine, err := authzkit.New(backend)
	require.NoError(t, err)

	metrics := authz.NewMetrics(prometheus.NewRegistry())
	module, err := authz.New(engine, authz.Config{}, authz.WithMetrics(metrics))
	require.NoError(t, err)
	h := module.Handler()

	rec := doJSON(t, h, http.MethodPost, "/enforce",
		map[string]any{"request": []string{"alice", "data1", "read"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/roles/grant",
		map[string]string{"subject": "alice", "role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DecisionsTotal.WithLabelValues("false")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.MutationsTotal.WithLabelValues("grant_role", "true")))
	assert.Positive(t, testutil.CollectAndCount(metrics.RequestsTotal))
}
