package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/invitedesk/pkg/jwtx"
	"github.com/aussiebroadwan/invitedesk/pkg/slogx"
)

// AuthnMiddleware requires a valid bearer token. onAuth, when set, lets the
// caller derive additional request context from the verified claims.
func AuthnMiddleware(v jwtx.Verifier, onAuth func(context.Context, jwtx.Claims) context.Context) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("jwt verify failed", "err", err)
				return
			}

			ctx = contextWithAuth(ctx, claims)
			if onAuth != nil {
				ctx = onAuth(ctx, claims)
			}
			ctx = slogx.With(ctx, "user_id", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if len(authz) < 7 || !strings.EqualFold(authz[:7], "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(authz[7:])
	return raw, raw != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "UNAUTHENTICATED",
		"kind":              "unauthenticated",
		"error_description": desc,
	})
}
