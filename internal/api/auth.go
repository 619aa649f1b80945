// Package api implements HTTP handlers and helpers for the delivery planning service.
package api

import (
	"net/http"
	"strings"
)

type Principal struct {
	Tenant string
	Role   string // admin, dispatcher, driver
}

// getPrincipal extracts tenant and role from the bearer token. In dev mode a
// request without a token falls back to X-Tenant-Id / X-Role headers.
func (s *Server) getPrincipal(r *http.Request) (Principal, bool) {
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") && s.Auth != nil {
		tok := strings.TrimSpace(authz[len("Bearer "):])
		pr, err := s.Auth.Verify(tok)
		if err != nil {
			return Principal{}, false
		}
		return Principal{Tenant: pr.Tenant, Role: pr.Role}, true
	}
	if s.Auth != nil && s.Auth.Mode != "dev" {
		return Principal{}, false
	}
	tenant := r.Header.Get("X-Tenant-Id")
	role := r.Header.Get("X-Role")
	if tenant == "" {
		tenant = "t_demo"
	}
	if role == "" {
		role = "admin"
	}
	return Principal{Tenant: tenant, Role: role}, true
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool { return p.Role == "admin" }

// CanPlan reports whether the principal may run planning calls and read runs.
func (p Principal) CanPlan() bool { return p.IsAdmin() || p.Role == "dispatcher" }

// requirePrincipal writes 401/403 and returns false when the caller is not
// authenticated or does not satisfy allow.
func (s *Server) requirePrincipal(w http.ResponseWriter, r *http.Request, allow func(Principal) bool, need string) (Principal, bool) {
	p, ok := s.getPrincipal(r)
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "valid bearer token required", r.URL.Path)
		return Principal{}, false
	}
	if allow != nil && !allow(p) {
		writeProblem(w, http.StatusForbidden, "Forbidden", need+" required", r.URL.Path)
		return Principal{}, false
	}
	return p, true
}

// tenantFor resolves the tenant a request acts on. Only admins may act on a
// tenant other than their own.
func tenantFor(p Principal, requested string) string {
	if requested != "" && p.IsAdmin() {
		return requested
	}
	return p.Tenant
}
