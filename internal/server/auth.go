package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/auth"
)

type claimsContextKey struct{}

// openEndpoints can be reached without a token. Exact-match paths only.
var openEndpoints = map[string]bool{
	"/health":                       true,
	"/api/system/status":            true,
	"/api/investors/register":       true,
	"/api/investors/login":          true,
	"/api/investors/check-email":    true,
	"/api/investors/reset-password": true,
	"/api/internal/register":        true,
	"/api/internal/login":           true,
}

// alertStreamPath is the websocket endpoint for live alerts
const alertStreamPath = "/api/alerts/stream"

// internalRoles may access /api/internal endpoints
var internalRoles = map[string]bool{
	auth.RoleComplianceOfficer: true,
	auth.RoleAssetManager:      true,
}

// AuthMiddleware validates bearer tokens on every request outside the open
// allowlist, and gates /api/internal behind the staff roles.
func AuthMiddleware(tokens *auth.Manager, log zerolog.Logger) func(http.Handler) http.Handler {
	authLog := log.With().Str("component", "auth").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if openEndpoints[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok && r.URL.Path == alertStreamPath {
				// Browser websocket clients cannot set an Authorization
				// header, so the stream accepts the token as a query param.
				token = r.URL.Query().Get("token")
				ok = token != ""
			}
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				authLog.Debug().Err(err).Str("path", r.URL.Path).Msg("Token rejected")
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if strings.HasPrefix(r.URL.Path, "/api/internal") && !internalRoles[claims.Role] {
				authLog.Warn().
					Str("path", r.URL.Path).
					Str("role", claims.Role).
					Msg("Internal endpoint refused for role")
				writeAuthError(w, http.StatusForbidden, "insufficient role")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the validated claims for an authenticated request
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*auth.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
