package location

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearcast/wearcast-api/internal/types"
)

type failingSource struct {
	err error
}

func (s failingSource) Current(_ context.Context) (Position, error) {
	return Position{}, s.err
}

func newTestResolver(endpoint string, source PositionSource) *ReverseGeocodingResolver {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewResolver(GeoConfig{Endpoint: endpoint, APIKey: "test-key"}, source, http.DefaultClient, logger)
}

func TestReverseGeocodingResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	source := StaticPositionSource{Position: Position{Latitude: 48.8566, Longitude: 2.3522}}

	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "48.8566", r.URL.Query().Get("lat"))
			assert.Equal(t, "2.3522", r.URL.Query().Get("lon"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			w.Write([]byte(`[{"name": "Paris"}]`))
		}))
		defer srv.Close()

		place, err := newTestResolver(srv.URL, source).Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Paris", place)
	})

	t.Run("position source failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("geocoding must not be called when the position is unavailable")
		}))
		defer srv.Close()

		_, err := newTestResolver(srv.URL, failingSource{err: errors.New("permission denied")}).Resolve(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrLocationUnavailable)
	})

	t.Run("geocoding non-200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := newTestResolver(srv.URL, source).Resolve(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrLocationUnavailable)
	})

	t.Run("geocoding miss", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		_, err := newTestResolver(srv.URL, source).Resolve(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrLocationUnavailable)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := newTestResolver(srv.URL, source).Resolve(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrLocationUnavailable)
	})
}
