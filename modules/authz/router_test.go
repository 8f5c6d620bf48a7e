package authz_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authzkit"
	"github.com/dmitrymomot/authzkit/modules/authz"
	"github.com/dmitrymomot/authzkit/pkg/enforce"
)

func newModule(t *testing.T, backendOpts ...enforce.Option) (*authz.Module, *authzkit.Engine) {
	t.Helper()
	backend, err := enforce.New(backendOpts...)
	require.NoError(t, err)
	engine, err := authzkit.New(backend)
	require.NoError(t, err)
	module, err := authz.New(engine, authz.Config{})
	require.NoError(t, err)
	return module, engine
}

func doJSON(t *testing.T, h http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestModule_RoleQueries(t *testing.T) {
	t.Parallel()

	module, engine := newModule(t)
	h := module.Handler()

	_, err := engine.GrantRole("alice", "admin")
	require.NoError(t, err)
	_, err = engine.GrantRole("admin", "superuser")
	require.NoError(t, err)

	t.Run("direct roles", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/subjects/alice/roles", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string][]string](t, rec)
		assert.Equal(t, []string{"admin"}, body["roles"])
	})

	t.Run("implicit roles follow the chain", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/subjects/alice/roles/implicit", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string][]string](t, rec)
		assert.Equal(t, []string{"admin", "superuser"}, body["roles"])
	})

	t.Run("users of a role", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/roles/admin/users", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string][]string](t, rec)
		assert.Equal(t, []string{"alice"}, body["users"])
	})

	t.Run("unknown subject gets an empty list", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/subjects/nobody/roles", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string][]string](t, rec)
		assert.Empty(t, body["roles"])
		assert.NotNil(t, body["roles"])
	})
}

func TestModule_DomainQueries(t *testing.T) {
	t.Parallel()

	module, engine := newModule(t, enforce.WithGrouping("g", 3))
	h := module.Handler()

	_, err := engine.GrantRole("alice", "admin", "tenant1")
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodGet, "/subjects/alice/roles?domain=tenant1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string][]string](t, rec)
	assert.Equal(t, []string{"admin"}, body["roles"])

	rec = doJSON(t, h, http.MethodGet, "/subjects/alice/roles?domain=tenant2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody[map[string][]string](t, rec)
	assert.Empty(t, body["roles"])
}

func TestModule_PermissionQueries(t *testing.T) {
	t.Parallel()

	module, engine := newModule(t)
	h := module.Handler()

	_, err := engine.GrantRole("alice", "admin")
	require.NoError(t, err)
	_, err = engine.GrantPermission("admin", "data1", "read")
	require.NoError(t, err)
	_, err = engine.GrantPermission("alice", "data2", "read")
	require.NoError(t, err)

	t.Run("direct permissions", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/subjects/alice/permissions", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string][][]string](t, rec)
		assert.Equal(t, [][]string{{"alice", "data2", "read"}}, body["permissions"])
	})

	t.Run("implicit permissions own rules first", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/subjects/alice/permissions/implicit", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string][][]string](t, rec)
		assert.Equal(t, [][]string{
			{"alice", "data2", "read"},
			{"admin", "data1", "read"},
		}, body["permissions"])
	})

	t.Run("implicit users exclude roles", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/permissions/users",
			map[string]any{"permission": []string{"data1", "read"}})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string][]string](t, rec)
		assert.Equal(t, []string{"alice"}, body["users"])
	})

	t.Run("enforce", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/enforce",
			map[string]any{"request": []string{"alice", "data1", "read"}})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]bool](t, rec)
		assert.True(t, body["allowed"])
	})
}

func TestModule_Mutations(t *testing.T) {
	t.Parallel()

	module, engine := newModule(t)
	h := module.Handler()

	t.Run("grant role reports changed once", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/roles/grant",
			map[string]string{"subject": "bob", "role": "editor"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeBody[map[string]bool](t, rec)["changed"])

		rec = doJSON(t, h, http.MethodPost, "/roles/grant",
			map[string]string{"subject": "bob", "role": "editor"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, decodeBody[map[string]bool](t, rec)["changed"])
	})

	t.Run("delete user removes grants and permissions", func(t *testing.T) {
		_, err := engine.GrantRole("carol", "viewer")
		require.NoError(t, err)
		_, err = engine.GrantPermission("carol", "data3", "read")
		require.NoError(t, err)

		rec := doJSON(t, h, http.MethodPost, "/subjects/delete",
			map[string]string{"subject": "carol"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeBody[map[string]bool](t, rec)["changed"])

		roles, err := engine.RolesFor("carol")
		require.NoError(t, err)
		assert.Empty(t, roles)
		perms, err := engine.PermissionsFor("carol")
		require.NoError(t, err)
		assert.Empty(t, perms)

		rec = doJSON(t, h, http.MethodPost, "/subjects/delete",
			map[string]string{"subject": "carol"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, decodeBody[map[string]bool](t, rec)["changed"])
	})

	t.Run("permission grant and delete across subjects", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/permissions/grant",
			map[string]any{"subject": "dave", "permission": []string{"data4", "write"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeBody[map[string]bool](t, rec)["changed"])

		rec = doJSON(t, h, http.MethodPost, "/permissions/delete",
			map[string]any{"permission": []string{"data4", "write"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeBody[map[string]bool](t, rec)["changed"])

		ok, err := engine.HasPermission("dave", "data4", "write")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestModule_BadRequests(t *testing.T) {
	t.Parallel()

	module, _ := newModule(t)
	h := module.Handler()

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/roles/grant", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})

	t.Run("missing required field", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/roles/grant", map[string]string{"subject": "bob"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Contains(t, body["detail"], "Role")
	})

	t.Run("arity violation surfaces as 400", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/enforce",
			map[string]any{"request": []string{"alice", "data1"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("permission tuple below minimum arity", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/permissions/users",
			map[string]any{"permission": []string{"only-one"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
