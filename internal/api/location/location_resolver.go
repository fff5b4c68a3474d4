package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/wearcast/wearcast-api/internal/types"
)

var _ Resolver = (*ReverseGeocodingResolver)(nil)

// Resolver produces a best-effort place name for the current position.
// Every failure stage wraps ErrLocationUnavailable; callers degrade to a
// city-based fetch and never surface location errors.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Position is a geographic coordinate.
type Position struct {
	Latitude  float64
	Longitude float64
}

// PositionSource yields the current position, or fails when the underlying
// capability is disabled or denied.
type PositionSource interface {
	Current(ctx context.Context) (Position, error)
}

// StaticPositionSource serves a fixed configured coordinate.
type StaticPositionSource struct {
	Position Position
}

func (s StaticPositionSource) Current(_ context.Context) (Position, error) {
	return s.Position, nil
}

// GeoConfig carries the reverse-geocoding endpoint and credential.
type GeoConfig struct {
	Endpoint string
	APIKey   string
}

// ReverseGeocodingResolver resolves the position to a place name through the
// weather provider's reverse geocoding API.
type ReverseGeocodingResolver struct {
	logger *slog.Logger
	client *http.Client
	cfg    GeoConfig
	source PositionSource
}

func NewResolver(cfg GeoConfig, source PositionSource, client *http.Client, logger *slog.Logger) *ReverseGeocodingResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &ReverseGeocodingResolver{
		logger: logger,
		client: client,
		cfg:    cfg,
		source: source,
	}
}

func (r *ReverseGeocodingResolver) Resolve(ctx context.Context) (string, error) {
	ctx, span := otel.Tracer("locationResolver").Start(ctx, "Resolve")
	defer span.End()

	l := r.logger.With(slog.String("method", "Resolve"))

	pos, err := r.source.Current(ctx)
	if err != nil {
		l.InfoContext(ctx, "Position unavailable", slog.Any("error", err))
		span.SetStatus(codes.Error, "Position unavailable")
		return "", fmt.Errorf("%w: position unavailable: %v", types.ErrLocationUnavailable, err)
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(pos.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(pos.Longitude, 'f', -1, 64))
	params.Set("limit", "1")
	params.Set("appid", r.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: building geocoding request: %v", types.ErrLocationUnavailable, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		l.InfoContext(ctx, "Reverse geocoding unreachable", slog.Any("error", err))
		span.SetStatus(codes.Error, "Reverse geocoding unreachable")
		return "", fmt.Errorf("%w: %v", types.ErrLocationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, "Reverse geocoding returned non-200")
		return "", fmt.Errorf("%w: geocoding status %d", types.ErrLocationUnavailable, resp.StatusCode)
	}

	var places []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: decoding geocoding body: %v", types.ErrLocationUnavailable, err)
	}
	if len(places) == 0 || places[0].Name == "" {
		span.SetStatus(codes.Error, "Reverse geocoding miss")
		return "", fmt.Errorf("%w: no place found for position", types.ErrLocationUnavailable)
	}

	l.InfoContext(ctx, "Position resolved", slog.String("place", places[0].Name))
	span.SetStatus(codes.Ok, "Position resolved")
	return places[0].Name, nil
}
