package investorapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/investors/2", r.URL.Path)
		_, _ = w.Write([]byte(`{"investorId":2,"fullName":"Asha Rao","email":"asha@portsure.io"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, nil, zerolog.Nop())

	inv, err := client.GetByID(2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *inv.InvestorID)
	assert.Equal(t, "Asha Rao", inv.FullName)
}

func TestGetByIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, nil, zerolog.Nop())

	_, err := client.GetByID(9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByIDTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, nil, nil, zerolog.Nop())

	_, err := client.GetByID(1)
	assert.ErrorIs(t, err, ErrNotFound)
}
