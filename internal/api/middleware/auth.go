package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/service/auth"
)

// RequireRole returns a guard that admits only requests whose bearer token
// resolves to exactly the required role. A token that cannot be resolved is
// rejected with 401; a known token with another role with 403.
// On success the identity is stored in the request context.
func RequireRole(authn *auth.Authenticator, required domain.Role) func(http.Handler) http.Handler {
	if authn == nil {
		panic("authenticator cannot be nil")
	}
	if !required.Valid() {
		panic("required role must be a known role")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// A missing or malformed header yields an empty token, which
			// never resolves.
			token, _ := auth.BearerToken(r.Header.Get("Authorization"))
			identity, outcome := authn.Check(token, required)

			switch outcome {
			case auth.Allowed:
				ctx := shared.WithIdentity(r.Context(), *identity)
				logger.FromContext(ctx).Debug("request authorized",
					slog.String("role", identity.Role.String()))
				next.ServeHTTP(w, r.WithContext(ctx))
			case auth.Forbidden:
				w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden,
					"Insufficient permissions", outcome.Err(),
					shared.WithElevatedLogLevel())
			default:
				w.Header().Set("WWW-Authenticate", "Bearer")
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
					"Authentication required", outcome.Err())
			}
		})
	}
}

// GetIdentity extracts the authenticated caller from the request context.
func GetIdentity(r *http.Request) (domain.Identity, bool) {
	return shared.GetIdentity(r.Context())
}
