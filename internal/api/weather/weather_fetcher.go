package weather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wearcast/wearcast-api/app/observability/metrics"
	"github.com/wearcast/wearcast-api/internal/types"
)

var _ Fetcher = (*FetcherImpl)(nil)

// Fetcher retrieves current conditions for a named city.
type Fetcher interface {
	// FetchByCity fetches current conditions for city in metric units.
	// Blank input fails with ErrEmptyInput before any network call;
	// transport failures map to ErrNetwork, non-200 statuses to
	// ErrCityNotFound, and unparseable bodies to ErrMalformedResponse.
	FetchByCity(ctx context.Context, city string) (*types.WeatherRecord, error)
}

// ProviderConfig carries the weather provider endpoint and credential,
// injected at construction.
type ProviderConfig struct {
	Endpoint string
	APIKey   string
}

type FetcherImpl struct {
	logger *slog.Logger
	client *http.Client
	cfg    ProviderConfig
}

// NewFetcher creates a weather fetcher. A nil client falls back to
// http.DefaultClient, keeping whatever timeout the transport provides.
func NewFetcher(cfg ProviderConfig, client *http.Client, logger *slog.Logger) *FetcherImpl {
	if client == nil {
		client = http.DefaultClient
	}
	return &FetcherImpl{
		logger: logger,
		client: client,
		cfg:    cfg,
	}
}

func (f *FetcherImpl) FetchByCity(ctx context.Context, city string) (*types.WeatherRecord, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, types.ErrEmptyInput
	}

	ctx, span := otel.Tracer("weatherFetcher").Start(ctx, "FetchByCity", trace.WithAttributes(
		attribute.String("weather.city", city),
	))
	defer span.End()

	l := f.logger.With(slog.String("method", "FetchByCity"), slog.String("city", city))
	l.DebugContext(ctx, "Fetching current conditions")

	m := metrics.Get()
	m.WeatherFetchesTotal.Add(ctx, 1)
	start := time.Now()

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", f.cfg.APIKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to build provider request")
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		m.WeatherFetchErrorsTotal.Add(ctx, 1)
		l.WarnContext(ctx, "Weather provider unreachable", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Weather provider unreachable")
		return nil, fmt.Errorf("%w: %v", types.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.WeatherFetchErrorsTotal.Add(ctx, 1)
		l.InfoContext(ctx, "Weather provider returned non-200", slog.Int("status", resp.StatusCode))
		span.SetStatus(codes.Error, "Weather provider returned non-200")
		return nil, fmt.Errorf("%w: provider status %d", types.ErrCityNotFound, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		m.WeatherFetchErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read provider body")
		return nil, fmt.Errorf("%w: %v", types.ErrNetwork, err)
	}

	record, err := types.ParseWeatherRecord(body)
	if err != nil {
		m.WeatherFetchErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Failed to parse provider body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to parse provider body")
		return nil, err
	}

	m.WeatherFetchDurationSeconds.Record(ctx, time.Since(start).Seconds())
	l.InfoContext(ctx, "Weather fetched successfully",
		slog.Float64("temperature", record.Temperature),
		slog.String("description", record.Description),
	)
	span.SetStatus(codes.Ok, "Weather fetched successfully")
	return record, nil
}
