package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/invitedesk/pkg/httpx"
	"github.com/aussiebroadwan/invitedesk/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner"}, order)
}

type stubVerifier struct {
	claims jwtx.Claims
	err    error
}

func (s stubVerifier) Verify(string) (jwtx.Claims, error) { return s.claims, s.err }

type marker struct{}

func TestAuthnMiddleware(t *testing.T) {
	claims := jwtx.Claims{Role: "analyst"}
	claims.Subject = "user-1"

	var seen context.Context
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
	})
	onAuth := func(ctx context.Context, c jwtx.Claims) context.Context {
		return context.WithValue(ctx, marker{}, c.Subject)
	}

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.AuthnMiddleware(stubVerifier{claims: claims}, nil)(capture).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("verification failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		httpx.AuthnMiddleware(stubVerifier{err: errors.New("bad")}, nil)(capture).ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer abc")
		rec := httptest.NewRecorder()
		httpx.AuthnMiddleware(stubVerifier{claims: claims}, onAuth)(capture).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		id, ok := httpx.UserIDFromContext(seen)
		require.True(t, ok)
		require.Equal(t, "user-1", id)
		require.Equal(t, "analyst", httpx.RoleFromContext(seen))
		require.Equal(t, "user-1", seen.Value(marker{}))

		got, ok := httpx.ClaimsFromContext(seen)
		require.True(t, ok)
		require.Equal(t, claims, got)
	})
}

func TestBearerToken(t *testing.T) {
	for header, want := range map[string]string{
		"Bearer abc":   "abc",
		"bearer  xyz ": "xyz",
		"Basic abc":    "",
		"Bearer ":      "",
		"":             "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		got, ok := httpx.BearerToken(req)
		require.Equal(t, want, got, header)
		require.Equal(t, want != "", ok, header)
	}
}

func TestRequireAnyRole(t *testing.T) {
	authed := func(role string) *http.Request {
		claims := jwtx.Claims{Role: role}
		claims.Subject = "u"
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer t")

		var out *http.Request
		httpx.AuthnMiddleware(stubVerifier{claims: claims}, nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			out = r
		})).ServeHTTP(httptest.NewRecorder(), req)
		return out
	}

	h := httpx.RequireAnyRole("admin", "analyst")(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authed("analyst"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authed("client"))
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "FORBIDDEN", body["error"])
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	decode := func(body string) (payload, error) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := httpx.DecodeJSON(httptest.NewRecorder(), req, &p)
		return p, err
	}

	p, err := decode(`{"email":"a@b.c"}`)
	require.NoError(t, err)
	require.Equal(t, "a@b.c", p.Email)

	_, err = decode(``)
	require.Error(t, err)
	_, err = decode(`{"email":"a","other":1}`)
	require.Error(t, err)
	_, err = decode(`{"email":"a"}{"email":"b"}`)
	require.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteJSON(rec, http.StatusCreated, map[string]int{"n": 1})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"n":1}`, rec.Body.String())
}

func TestIPKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))

	req.Header.Set("X-Real-IP", "203.0.113.2")
	require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
	require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
}

func TestRateLimitMiddleware(t *testing.T) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	h := httpx.RateLimitByIP(config)(okHandler)

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
	require.Equal(t, http.StatusOK, hit("10.0.0.1").Code)

	rec := hit("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))

	// Other clients have their own bucket.
	require.Equal(t, http.StatusOK, hit("10.0.0.2").Code)
}

func TestRateLimitAllowsKeylessRequests(t *testing.T) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	h := httpx.RateLimitMiddleware(config, func(*http.Request) string { return "" })(okHandler)

	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitsNormalize(t *testing.T) {
	def := httpx.DefaultRateLimits()

	got := httpx.RateLimits{
		Strict: httpx.RateLimitConfig{RequestsPerWindow: 50, Window: 0, Burst: -1},
	}.Normalize()

	require.Equal(t, 50, got.Strict.RequestsPerWindow)
	require.Equal(t, def.Strict.Window, got.Strict.Window)
	require.Equal(t, def.Strict.Burst, got.Strict.Burst)
	require.Equal(t, def.Public, got.Public)
}
