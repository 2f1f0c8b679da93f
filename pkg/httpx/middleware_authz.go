package httpx

import (
	"net/http"
	"slices"
	"strings"
)

// RequireAnyRole the caller's role claim must be one of roles.
func RequireAnyRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(roles, RoleFromContext(r.Context())) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("WWW-Authenticate",
				`Bearer error="insufficient_scope", error_description="requires role `+strings.Join(roles, " or ")+`"`)
			WriteJSON(w, http.StatusForbidden, map[string]string{
				"error":             "FORBIDDEN",
				"kind":              "forbidden",
				"error_description": "requires role " + strings.Join(roles, " or "),
			})
		})
	}
}
