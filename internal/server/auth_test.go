package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portsure/platform/internal/auth"
)

func authRouter(t *testing.T, tokens *auth.Manager) *chi.Mux {
	t.Helper()

	router := chi.NewRouter()
	router.Use(AuthMiddleware(tokens, zerolog.Nop()))

	ok := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	router.Get("/health", ok)
	router.Post("/api/investors/login", ok)
	router.Get("/api/portfolios/all", ok)
	router.Get("/api/internal/profile/1", ok)
	router.Post("/api/internal/login", ok)
	router.Get("/api/alerts/stream", ok)
	return router
}

func request(router *chi.Mux, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestOpenEndpointsSkipAuth(t *testing.T) {
	router := authRouter(t, auth.NewManager("secret", time.Hour))

	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, request(router, http.MethodPost, "/api/investors/login", "").Code)
	assert.Equal(t, http.StatusOK, request(router, http.MethodPost, "/api/internal/login", "").Code)
}

func TestProtectedEndpointRequiresToken(t *testing.T) {
	router := authRouter(t, auth.NewManager("secret", time.Hour))

	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodGet, "/api/portfolios/all", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodGet, "/api/portfolios/all", "garbage").Code)
}

func TestValidTokenPasses(t *testing.T) {
	tokens := auth.NewManager("secret", time.Hour)
	router := authRouter(t, tokens)

	token, err := tokens.Generate("priya@example.com", auth.RoleInvestor)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/api/portfolios/all", token).Code)
}

func TestWrongSecretRejected(t *testing.T) {
	router := authRouter(t, auth.NewManager("secret", time.Hour))

	forged, err := auth.NewManager("other-secret", time.Hour).Generate("priya@example.com", auth.RoleInvestor)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodGet, "/api/portfolios/all", forged).Code)
}

func TestInternalEndpointGatedByRole(t *testing.T) {
	tokens := auth.NewManager("secret", time.Hour)
	router := authRouter(t, tokens)

	investorToken, err := tokens.Generate("priya@example.com", auth.RoleInvestor)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, request(router, http.MethodGet, "/api/internal/profile/1", investorToken).Code)

	officerToken, err := tokens.Generate("officer@portsure.io", auth.RoleComplianceOfficer)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/api/internal/profile/1", officerToken).Code)

	managerToken, err := tokens.Generate("manager@portsure.io", auth.RoleAssetManager)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/api/internal/profile/1", managerToken).Code)
}

func TestAlertStreamAcceptsTokenQueryParam(t *testing.T) {
	tokens := auth.NewManager("secret", time.Hour)
	router := authRouter(t, tokens)

	token, err := tokens.Generate("priya@example.com", auth.RoleInvestor)
	require.NoError(t, err)

	// Browser websocket clients cannot set headers, only the stream path
	// honors the query param.
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/api/alerts/stream?token="+token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodGet, "/api/alerts/stream", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodGet, "/api/alerts/stream?token=garbage", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodGet, "/api/portfolios/all?token="+token, "").Code)
}

func TestServiceTokenPassesLookupEndpoints(t *testing.T) {
	tokens := auth.NewManager("secret", time.Hour)
	router := authRouter(t, tokens)

	serviceToken, err := auth.NewServiceTokenSource(tokens, "platform@portsure.internal").Token()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/api/portfolios/all", serviceToken).Code)
	// Service identities are not staff; internal endpoints stay closed
	assert.Equal(t, http.StatusForbidden, request(router, http.MethodGet, "/api/internal/profile/1", serviceToken).Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	tokens := auth.NewManager("secret", -time.Minute)
	router := authRouter(t, tokens)

	expired, err := tokens.Generate("priya@example.com", auth.RoleInvestor)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodGet, "/api/portfolios/all", expired).Code)
}
