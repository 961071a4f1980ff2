package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/portsure/platform/internal/clients/portfolioapi"
	"github.com/portsure/platform/internal/events"
	"github.com/portsure/platform/internal/modules/alerts"
)

func ptr[T any](v T) *T { return &v }

type fakeLookup struct {
	portfolios map[int64]*portfolioapi.Portfolio
}

func (f *fakeLookup) GetByID(id int64) (*portfolioapi.Portfolio, error) {
	if p, ok := f.portfolios[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: portfolio service returned status 404 for id %d", portfolioapi.ErrNotFound, id)
}

func setupRouter(t *testing.T, lookup alerts.PortfolioLookup) *chi.Mux {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE exposure_alerts (
			alert_id       INTEGER PRIMARY KEY AUTOINCREMENT,
			portfolio_id   INTEGER NOT NULL,
			investor_id    INTEGER NOT NULL,
			asset_type     TEXT,
			exposure_value REAL,
			limit_value    REAL,
			status         TEXT,
			created_at     TEXT NOT NULL
		);
	`)
	require.NoError(t, err)

	bus := events.NewBus(zerolog.Nop())
	repo := alerts.NewRepository(db, zerolog.Nop())
	service := alerts.NewService(repo, lookup, bus, zerolog.Nop())
	handler := NewHandler(service, bus, zerolog.Nop())

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)
	return router
}

func knownPortfolio(id int64) *fakeLookup {
	return &fakeLookup{portfolios: map[int64]*portfolioapi.Portfolio{
		id: {PortfolioID: ptr(id), InvestorID: ptr(int64(1))},
	}}
}

func sendAlert(t *testing.T, router *chi.Mux, portfolioID int64) alerts.ExposureAlert {
	body, _ := json.Marshal(map[string]interface{}{
		"investorId":    1,
		"assetType":     "DERIVATIVE",
		"exposureValue": 62.5,
		"limitValue":    50,
	})
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/alerts/send/%d", portfolioID), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created alerts.ExposureAlert
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	return created
}

func get(router *chi.Mux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSendAndList(t *testing.T) {
	router := setupRouter(t, knownPortfolio(5))

	created := sendAlert(t, router, 5)
	assert.Equal(t, alerts.StatusBreach, created.Status)

	rec := get(router, "/api/alerts/all")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []alerts.ExposureAlert
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list, 1)

	rec = get(router, "/api/alerts/investor/1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list, 1)
}

func TestSendUnknownPortfolioReturns400(t *testing.T) {
	router := setupRouter(t, &fakeLookup{})

	body, _ := json.Marshal(map[string]interface{}{"investorId": 1, "exposureValue": 10, "limitValue": 5})
	req := httptest.NewRequest(http.MethodPost, "/api/alerts/send/42", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAlert(t *testing.T) {
	router := setupRouter(t, knownPortfolio(5))
	created := sendAlert(t, router, 5)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/alerts/%d", created.AlertID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/alerts/%d", created.AlertID), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
