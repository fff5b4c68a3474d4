package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	WeatherFetchesTotal         metric.Int64Counter
	WeatherFetchErrorsTotal     metric.Int64Counter
	WeatherFetchDurationSeconds metric.Float64Histogram
	AdviceGenerationsTotal      metric.Int64Counter
	AdviceFallbacksTotal        metric.Int64Counter
	StoreErrorsTotal            metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("wearcast")
		var err error
		m := &AppMetrics{}

		m.WeatherFetchesTotal, err = meter.Int64Counter(
			"weather_fetches_total",
			metric.WithDescription("Total number of weather provider fetches attempted"),
			metric.WithUnit("{fetch}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_fetches_total: %v", err)
		}

		m.WeatherFetchErrorsTotal, err = meter.Int64Counter(
			"weather_fetch_errors_total",
			metric.WithDescription("Total number of weather fetches that settled in a failure"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_fetch_errors_total: %v", err)
		}

		m.WeatherFetchDurationSeconds, err = meter.Float64Histogram(
			"weather_fetch_duration_seconds",
			metric.WithDescription("Duration of weather provider fetches in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_fetch_duration_seconds: %v", err)
		}

		m.AdviceGenerationsTotal, err = meter.Int64Counter(
			"advice_generations_total",
			metric.WithDescription("Total number of generative advice calls attempted"),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create advice_generations_total: %v", err)
		}

		m.AdviceFallbacksTotal, err = meter.Int64Counter(
			"advice_fallbacks_total",
			metric.WithDescription("Total number of advice results degraded to the deterministic fallback"),
			metric.WithUnit("{fallback}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create advice_fallbacks_total: %v", err)
		}

		m.StoreErrorsTotal, err = meter.Int64Counter(
			"store_errors_total",
			metric.WithDescription("Total number of persistent store operation errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create store_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance. Panics if
// InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
