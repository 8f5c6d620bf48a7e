package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authzkit/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	capture := func() (http.Handler, *string) {
		var got string
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = requestid.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		return h, &got
	}

	t.Run("generates uuid when header missing", func(t *testing.T) {
		t.Parallel()
		inner, got := capture()
		rec := httptest.NewRecorder()
		requestid.Middleware(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, *got)
		_, err := uuid.Parse(*got)
		assert.NoError(t, err)
		assert.Equal(t, *got, rec.Header().Get(requestid.Header))
	})

	t.Run("reuses valid client id", func(t *testing.T) {
		t.Parallel()
		inner, got := capture()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, "client-id_42")
		rec := httptest.NewRecorder()
		requestid.Middleware(inner).ServeHTTP(rec, req)

		assert.Equal(t, "client-id_42", *got)
		assert.Equal(t, "client-id_42", rec.Header().Get(requestid.Header))
	})

	t.Run("replaces malformed client id", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{"has space", "semi;colon", strings.Repeat("a", 200)} {
			inner, got := capture()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(requestid.Header, bad)
			requestid.Middleware(inner).ServeHTTP(httptest.NewRecorder(), req)

			assert.NotEqual(t, bad, *got)
			_, err := uuid.Parse(*got)
			assert.NoError(t, err)
		}
	})
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	assert.Empty(t, requestid.FromContext(context.Background()))

	ctx := requestid.WithContext(context.Background(), "abc")
	assert.Equal(t, "abc", requestid.FromContext(ctx))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()

	attr, ok := extract(context.Background())
	assert.False(t, ok)
	assert.Empty(t, attr.Key)

	attr, ok = extract(requestid.WithContext(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())
}
