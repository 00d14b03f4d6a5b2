package places_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/portal/internal/clients/places"
	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/pkg/config"
)

func newClient(t *testing.T) *places.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/autocomplete", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		require.Equal(t, "12 main", r.URL.Query().Get("input"))

		_, _ = w.Write([]byte(`{"predictions":[{"place_id":"pl-1","description":"12 Main St"}]}`))
	})
	mux.HandleFunc("/places/pl-1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"place_id":"pl-1","name":"Main","formatted_address":"12 Main St",
			"location":{"lat":51.5,"lng":-0.12}}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return places.NewClient(config.Places{
		APIURL:  srv.URL,
		APIKey:  "secret",
		Timeout: time.Second,
	})
}

func TestClient_Autocomplete(t *testing.T) {
	t.Parallel()

	c := newClient(t)

	got, err := c.Autocomplete(context.Background(), "12 main")
	require.NoError(t, err)
	require.Equal(t, []places.Suggestion{{PlaceID: "pl-1", Description: "12 Main St"}}, got)

	_, err = c.Autocomplete(context.Background(), "")
	require.ErrorIs(t, err, entity.ErrInvalidArgument)
}

func TestClient_Place(t *testing.T) {
	t.Parallel()

	c := newClient(t)

	got, err := c.Place(context.Background(), "pl-1")
	require.NoError(t, err)
	require.Equal(t, places.Place{PlaceID: "pl-1", Name: "Main", Address: "12 Main St", Lat: 51.5, Lng: -0.12}, got)

	_, err = c.Place(context.Background(), "missing")
	require.ErrorIs(t, err, entity.ErrNotFound)
}
