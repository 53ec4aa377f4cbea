package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/nutridash/pkg/jwtx"
	"github.com/aussiebroadwan/nutridash/pkg/slogx"
)

// AuthnMiddleware requires a valid Bearer session token and stores its claims
// in the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(ctx).Warn("jwt verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}
			// Only tokens minted after the emailed code was checked open a session.
			if !claims.HasAMR(jwtx.AMRMFA) {
				slogx.FromContext(ctx).Warn("token without second factor", "sub", claims.Subject)
				writeBearerError(w, "second factor required")
				return
			}

			ctx = contextWithAuth(ctx, claims)
			ctx = slogx.With(ctx, "user_id", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose token lacks role. It must run after
// AuthnMiddleware.
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || !claims.HasRole(role) {
				WriteError(w, &APIError{
					StatusCode:  http.StatusForbidden,
					Code:        "insufficient_role",
					Description: "this operation requires the " + role + " role",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750 error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_token",
		Description: desc,
	})
}
