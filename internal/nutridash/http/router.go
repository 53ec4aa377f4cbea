package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/service"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
	"github.com/aussiebroadwan/nutridash/pkg/httpx"
	"github.com/aussiebroadwan/nutridash/pkg/jwtx"
	"github.com/aussiebroadwan/nutridash/pkg/slogx"

	_ "github.com/aussiebroadwan/nutridash/api/nutridash" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AuthService      *service.AuthService
	TokenService     *service.TokenService
	DashboardService *service.DashboardService
	UserService      *service.UserService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerDashboard()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Nutridash API
//	@version		0.1.0
//	@description	Personal nutrition dashboard. Log in with email, password and an emailed code, then arrange widgets on a two column grid.
//	@description
//	@description				Session tokens are EdDSA-signed JWTs, verifiable with the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/nutridash
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
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, TokenService: r.TokenService}

	// Password step - strict, keyed on IP and the email being tried
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	// Code step - strict by IP, 10^6 codes must not be walkable
	r.Mux.Handle("POST /v1/auth/two-factor",
		httpx.Chain(http.HandlerFunc(h.HandleTwoFactor),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerDashboard() {
	h := &DashboardHandler{DashboardService: r.DashboardService}

	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/dashboard", read(h.HandleGet))
	r.Mux.Handle("POST /v1/dashboard/widgets", write(h.HandleAddWidget))
	r.Mux.Handle("POST /v1/dashboard/widgets/{id}/move", write(h.HandleMoveWidget))
	r.Mux.Handle("PUT /v1/dashboard/widgets/{id}/configuration", write(h.HandleUpdateConfiguration))
	r.Mux.Handle("DELETE /v1/dashboard/widgets/{id}", write(h.HandleRemoveWidget))
	r.Mux.Handle("POST /v1/dashboard/shopping-list/items/{barcode}", write(h.HandleAddShoppingItem))
	r.Mux.Handle("DELETE /v1/dashboard/shopping-list/items/{barcode}", write(h.HandleRemoveShoppingItem))
	r.Mux.Handle("DELETE /v1/dashboard/shopping-list/items", write(h.HandleClearShoppingList))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{UserService: r.UserService}

	admin := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/admin/users", admin(h.HandleList))
	r.Mux.Handle("POST /v1/admin/users", admin(h.HandleCreate))
	r.Mux.Handle("POST /v1/admin/users/{id}/toggle-active", admin(h.HandleToggleActive))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
