package cinemeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subflow/subflow/internal/mediaid"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, zerolog.Nop())
}

func TestGetMetaMovie(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/meta/movie/tt0133093.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"meta":{"id":"tt0133093","type":"movie","name":"The Matrix","year":"1999"}}`))
	})

	got, err := client.GetMeta(context.Background(), mediaid.KindMovie, "tt0133093")
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", got.Title)
	assert.Equal(t, 1999, got.Year)
	assert.Equal(t, mediaid.KindMovie, got.Kind)
}

func TestGetMetaSeriesYearRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{"id":"tt0944947","type":"series","name":"Game of Thrones","year":"2011-2019"}}`))
	})

	got, err := client.GetMeta(context.Background(), mediaid.KindSeries, "tt0944947")
	require.NoError(t, err)
	assert.Equal(t, "Game of Thrones", got.Title)
	assert.Equal(t, 2011, got.Year)
	assert.Equal(t, mediaid.KindSeries, got.Kind)
}

func TestGetMetaReleaseInfoFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{"id":"tt1","type":"movie","name":"Example","releaseInfo":"2004"}}`))
	})

	got, err := client.GetMeta(context.Background(), mediaid.KindMovie, "tt1")
	require.NoError(t, err)
	assert.Equal(t, 2004, got.Year)
}

func TestGetMetaNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetMeta(context.Background(), mediaid.KindMovie, "tt0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMetaEmptyName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{"id":"tt0","type":"movie","name":""}}`))
	})

	_, err := client.GetMeta(context.Background(), mediaid.KindMovie, "tt0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMetaServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetMeta(context.Background(), mediaid.KindMovie, "tt0")
	assert.ErrorIs(t, err, ErrAPIError)
}
