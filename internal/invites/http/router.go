package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/invitedesk/internal/invites/authctx"
	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
	"github.com/aussiebroadwan/invitedesk/internal/invites/plans"
	"github.com/aussiebroadwan/invitedesk/internal/invites/service"
	"github.com/aussiebroadwan/invitedesk/internal/invites/store"
	"github.com/aussiebroadwan/invitedesk/pkg/httpx"
	"github.com/aussiebroadwan/invitedesk/pkg/jwtx"
	"github.com/aussiebroadwan/invitedesk/pkg/retryx"
	"github.com/aussiebroadwan/invitedesk/pkg/slogx"

	_ "github.com/aussiebroadwan/invitedesk/api/invites" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	limits       httpx.RateLimits
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	Now   func() time.Time

	// Retry is applied to idempotent reads that may hit a flaky store.
	Retry retryx.Policy

	Plans                *plans.Catalog
	InvitationService    *service.InvitationService
	RegistrationService  *service.RegistrationService
	BootstrapService     *service.BootstrapService
	AnalystClientService *service.AnalystClientService
	AccountService       *service.AccountService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	limits httpx.RateLimits,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		limits:       limits.Normalize(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Now:          time.Now,
		Retry:        retryx.Policy{Attempts: 3, Delay: 100 * time.Millisecond},
		Plans:        plans.Standard(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerBootstrap()
	r.registerPlans()
	r.registerInvitations()
	r.registerRegistration()
	r.registerAnalystClients()
	r.registerMe()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Invitation Service API
//	@version		0.1.0
//	@description	Invitation lifecycle for admins, analysts and clients: issue, look up, accept and cancel invitations, and register from an invitation code.
//	@description
//	@description				Access tokens are EdDSA-signed JWTs carrying a role claim and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/invitedesk
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// withCaller exposes the verified token subject to the services.
func withCaller(ctx context.Context, c jwtx.Claims) context.Context {
	return authctx.WithCaller(ctx, authctx.Caller{ID: c.Subject, Role: domain.Role(c.Role)})
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.verifier, withCaller)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	h := &BootstrapHandler{BootstrapService: r.BootstrapService, Now: r.Now}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
}

func (r *Router) registerPlans() {
	r.Mux.Handle("GET /v1/plans",
		httpx.Chain(PlansHandler(r.Plans),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InvitationService: r.InvitationService, Now: r.Now}

	// Public lookup used by the registration page - moderate limit to slow
	// down code guessing.
	r.Mux.Handle("GET /v1/invitations/{code}",
		httpx.Chain(http.HandlerFunc(h.HandleLookup),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)

	r.Mux.Handle("POST /v1/invitations",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authn(),
			httpx.RequireAnyRole(domain.RoleAdmin.String(), domain.RoleAnalyst.String()),
			httpx.RateLimitByUser(r.limits.Moderate),
		),
	)
	r.Mux.Handle("GET /v1/invitations",
		httpx.Chain(http.HandlerFunc(h.HandleListMine),
			r.authn(),
			httpx.RateLimitByUser(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /v1/admin/invitations",
		httpx.Chain(http.HandlerFunc(h.HandleListAll),
			r.authn(),
			httpx.RequireAnyRole(domain.RoleAdmin.String()),
			httpx.RateLimitByUser(r.limits.Lenient),
		),
	)
	r.Mux.Handle("POST /v1/invitations/{code}/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			r.authn(),
			httpx.RateLimitByUser(r.limits.Strict),
		),
	)
	r.Mux.Handle("POST /v1/invitations/id/{id}/cancel",
		httpx.Chain(http.HandlerFunc(h.HandleCancel),
			r.authn(),
			httpx.RateLimitByUser(r.limits.Moderate),
		),
	)
}

func (r *Router) registerRegistration() {
	// POST /register - strict rate limit by IP (public signup endpoint)
	h := &RegisterHandler{RegistrationService: r.RegistrationService, Now: r.Now}
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(h,
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
}

func (r *Router) registerAnalystClients() {
	h := &AnalystClientsHandler{AnalystClientService: r.AnalystClientService, Retry: r.Retry}

	readers := []httpx.Middleware{
		r.authn(),
		httpx.RequireAnyRole(domain.RoleAdmin.String(), domain.RoleAnalyst.String()),
		httpx.RateLimitByUser(r.limits.Lenient),
	}
	writers := []httpx.Middleware{
		r.authn(),
		httpx.RequireAnyRole(domain.RoleAdmin.String()),
		httpx.RateLimitByUser(r.limits.Moderate),
	}

	r.Mux.Handle("GET /v1/analysts/{id}/clients", httpx.Chain(http.HandlerFunc(h.HandleList), readers...))
	r.Mux.Handle("GET /v1/analysts/{id}/clients/{clientID}", httpx.Chain(http.HandlerFunc(h.HandleHas), readers...))
	r.Mux.Handle("PUT /v1/analysts/{id}/clients/{clientID}", httpx.Chain(http.HandlerFunc(h.HandleAdd), writers...))
	r.Mux.Handle("DELETE /v1/analysts/{id}/clients/{clientID}", httpx.Chain(http.HandlerFunc(h.HandleRemove), writers...))
}

func (r *Router) registerMe() {
	h := &MeHandler{AccountService: r.AccountService}

	secured := []httpx.Middleware{
		r.authn(),
		httpx.RateLimitByUser(r.limits.Lenient),
	}

	r.Mux.Handle("GET /v1/me", httpx.Chain(http.HandlerFunc(h.HandleMe), secured...))
	r.Mux.Handle("GET /v1/me/features/{feature}", httpx.Chain(http.HandlerFunc(h.HandleFeature), secured...))
	r.Mux.Handle("GET /v1/me/limits/{key}", httpx.Chain(http.HandlerFunc(h.HandleLimit), secured...))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}
