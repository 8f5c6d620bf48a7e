package authz

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/authzkit"
	"github.com/dmitrymomot/authzkit/pkg/logger"
	"github.com/dmitrymomot/authzkit/pkg/policy"
)

func (m *Module) handleRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := m.engine.RolesFor(chi.URLParam(r, "subject"), domainArgs(r)...)
	if err != nil {
		m.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rolesResponse{Roles: orEmpty(roles)})
}

func (m *Module) handleImplicitRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := m.engine.ImplicitRolesFor(chi.URLParam(r, "subject"), domainArgs(r)...)
	if err != nil {
		m.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rolesResponse{Roles: orEmpty(roles)})
}

func (m *Module) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := m.engine.UsersFor(chi.URLParam(r, "role"), domainArgs(r)...)
	if err != nil {
		m.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, usersResponse{Users: orEmpty(users)})
}

func (m *Module) handlePermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := m.engine.PermissionsFor(chi.URLParam(r, "subject"), domainArgs(r)...)
	if err != nil {
		m.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, permissionsResponse{Permissions: orEmptyRules(perms)})
}

func (m *Module) handleImplicitPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := m.engine.ImplicitPermissionsFor(chi.URLParam(r, "subject"), domainArgs(r)...)
	if err != nil {
		m.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, permissionsResponse{Permissions: orEmptyRules(perms)})
}

func (m *Module) handleImplicitUsers(w http.ResponseWriter, r *http.Request) {
	var req permissionOnlyRequest
	if !m.decodeValid(w, r, &req) {
		return
	}
	users, err := m.engine.ImplicitUsersFor(req.Permission...)
	if err != nil {
		m.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, usersResponse{Users: orEmpty(users)})
}

func (m *Module) handleEnforce(w http.ResponseWriter, r *http.Request) {
	var req enforceRequest
	if !m.decodeValid(w, r, &req) {
		return
	}
	allowed, err := m.engine.Enforce(req.Request...)
	if err != nil {
		m.respondError(w, r, err)
		return
	}
	m.metrics.ObserveDecision(allowed)
	respondJSON(w, http.StatusOK, allowedResponse{Allowed: allowed})
}

func (m *Module) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	var req grantRoleRequest
	if !m.decodeValid(w, r, &req) {
		return
	}
	m.mutate(w, r, "grant_role", func() (bool, error) {
		return m.engine.GrantRole(req.Subject, req.Role, domainArg(req.Domain)...)
	})
}

func (m *Module) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	var req grantRoleRequest
	if !m.decodeValid(w, r, &req) {
		return
	}
	m.mutate(w, r, "revoke_role", func() (bool, error) {
		return m.engine.RevokeRole(req.Subject, req.Role, domainArg(req.Domain)...)
	})
}

func (m *Module) handleRevokeRoles(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if !m.decodeValid(w, r, &req) {
		return
	}
	m.mutate(w, r, "revoke_roles", func() (bool, error) {
		return m.engine.RevokeRoles(req.Subject)
	})
}

func (m *Module) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if !m.decodeValid(w, r, &req) {
		return
	}
	m.mutate(w, r, "delete_user", func() (bool, error) {
		return m.engine.DeleteUser(req.Subject)
	})
}

func (m *Module) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !m.decodeValid(w, r, &req) {
		return
	}
	m.mutate(w, r, "delete_role", func() (bool, error) {
		return m.engine.DeleteRole(req.Role)
	})
}

func (m *Module) handleGrantPermission(w http.ResponseWriter, r *http.Request) {
	var req permissionRequest
	if !m.decodeValid(w, r, &req) {
		return
	}
	m.mutate(w, r, "grant_permission", func() (bool, error) {
		return m.engine.GrantPermission(req.Subject, req.Permission...)
	})
}

func (m *Module) handleRevokePermission(w http.ResponseWriter, r *http.Request) {
	var req permissionRequest
	if !m.decodeValid(w, r, &req) {
		return
	}
	m.mutate(w, r, "revoke_permission", func() (bool, error) {
		return m.engine.RevokePermission(req.Subject, req.Permission...)
	})
}

func (m *Module) handleRevokePermissions(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if !m.decodeValid(w, r, &req) {
		return
	}
	m.mutate(w, r, "revoke_permissions", func() (bool, error) {
		return m.engine.RevokePermissions(req.Subject)
	})
}

func (m *Module) handleDeletePermission(w http.ResponseWriter, r *http.Request) {
	var req permissionOnlyRequest
	if !m.decodeValid(w, r, &req) {
		return
	}
	m.mutate(w, r, "delete_permission", func() (bool, error) {
		return m.engine.DeletePermission(req.Permission...)
	})
}

// mutate runs one mutation composite, counts it, and reports the changed
// flag. No-op mutations are a normal 200 with changed=false.
func (m *Module) mutate(w http.ResponseWriter, r *http.Request, op string, fn func() (bool, error)) {
	changed, err := fn()
	if err != nil {
		m.respondError(w, r, err)
		return
	}
	m.metrics.ObserveMutation(op, changed)
	respondJSON(w, http.StatusOK, changedResponse{Changed: changed})
}

// decodeValid decodes and validates a JSON payload, answering 400 with a
// problem body on failure.
func (m *Module) decodeValid(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := decodeJSON(r, m.cfg.MaxBodyBytes, target); err != nil {
		respondProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON payload")
		return false
	}
	if err := validate.Struct(target); err != nil {
		var verrs validator.ValidationErrors
		detail := "invalid payload"
		if errors.As(err, &verrs) && len(verrs) > 0 {
			detail = "invalid field: " + verrs[0].Field()
		}
		respondProblem(w, http.StatusBadRequest, "Bad Request", detail)
		return false
	}
	return true
}

// respondError maps contract violations to 400 problems and everything else
// to 500.
func (m *Module) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, policy.ErrInvalidArity):
		respondProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, authzkit.ErrDomainParameter):
		respondProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		m.log.ErrorContext(r.Context(), "request failed", logger.Error(err))
		respondProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func domainArgs(r *http.Request) []string {
	return domainArg(r.URL.Query().Get("domain"))
}

func domainArg(domain string) []string {
	if domain == "" {
		return nil
	}
	return []string{domain}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func orEmptyRules(rules [][]string) [][]string {
	if rules == nil {
		return [][]string{}
	}
	return rules
}
