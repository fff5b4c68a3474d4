package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wearcast/wearcast-api/internal/api/advice"
	"github.com/wearcast/wearcast-api/internal/api/location"
	"github.com/wearcast/wearcast-api/internal/api/store"
	"github.com/wearcast/wearcast-api/internal/api/weather"
	"github.com/wearcast/wearcast-api/internal/types"
)

// User-facing messages keyed by failure kind. MalformedResponse and anything
// unexpected share the generic message.
const (
	msgCityNotFound = "City not found. Please try another city."
	msgNetwork      = "Network error. Please check your connection."
	msgGeneric      = "Something went wrong. Please try again."
)

const (
	defaultDebounce = 300 * time.Millisecond
	maxSuggestions  = 5
)

// Options tune the controller. Zero values take the package defaults.
type Options struct {
	Cities      []string
	DefaultCity string
	Debounce    time.Duration
}

// Controller owns the application state and is its sole writer. Every
// mutation goes through the Reduce transition function; observers read
// snapshots via State or the Updates channel.
type Controller struct {
	logger    *slog.Logger
	fetcher   weather.Fetcher
	generator advice.Generator
	resolver  location.Resolver
	store     store.Store

	cities      []string
	defaultCity string
	debounce    time.Duration

	mu      sync.Mutex
	state   types.AppState
	updates chan types.AppState

	debounceMu sync.Mutex
	timer      *time.Timer
}

func NewController(
	fetcher weather.Fetcher,
	generator advice.Generator,
	resolver location.Resolver,
	st store.Store,
	opts Options,
	logger *slog.Logger,
) *Controller {
	if len(opts.Cities) == 0 {
		opts.Cities = CityCatalog
	}
	if opts.DefaultCity == "" {
		opts.DefaultCity = "London"
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	return &Controller{
		logger:      logger,
		fetcher:     fetcher,
		generator:   generator,
		resolver:    resolver,
		store:       st,
		cities:      opts.Cities,
		defaultCity: opts.DefaultCity,
		debounce:    opts.Debounce,
		state:       types.AppState{CurrentCity: opts.DefaultCity},
		updates:     make(chan types.AppState, 16),
	}
}

// apply runs one event through the reducer and publishes the new snapshot.
// A slow or absent observer never blocks a transition.
func (c *Controller) apply(ev types.Event) {
	c.mu.Lock()
	c.state = types.Reduce(c.state, ev)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	select {
	case c.updates <- snapshot:
	default:
	}
}

func (c *Controller) snapshotLocked() types.AppState {
	s := c.state
	if s.CitySuggestions != nil {
		s.CitySuggestions = append([]string(nil), s.CitySuggestions...)
	}
	return s
}

// State returns a copy of the current application state.
func (c *Controller) State() types.AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Updates streams state snapshots after each transition.
func (c *Controller) Updates() <-chan types.AppState {
	return c.updates
}

// Initialize restores the persisted snapshot, then fetches fresh weather for
// the persisted city, falling back to location detection when no city was
// ever selected.
func (c *Controller) Initialize(ctx context.Context) error {
	ctx, span := otel.Tracer("appController").Start(ctx, "Initialize")
	defer span.End()

	l := c.logger.With(slog.String("method", "Initialize"))

	city, err := c.store.GetLastCity(ctx)
	if err != nil {
		l.WarnContext(ctx, "Failed to read persisted city", slog.Any("error", err))
	}

	if raw, err := c.store.GetLastWeather(ctx); err == nil && len(raw) > 0 {
		if w, perr := types.ParseWeatherRecord(raw); perr == nil {
			c.apply(types.WeatherRestored{City: city, Weather: w})
			l.DebugContext(ctx, "Restored persisted weather snapshot")
		} else {
			l.WarnContext(ctx, "Discarding unreadable persisted snapshot", slog.Any("error", perr))
		}
	}

	if city != "" {
		span.SetStatus(codes.Ok, "Initializing from persisted city")
		return c.FetchWeatherForCity(ctx, city)
	}
	span.SetStatus(codes.Ok, "Initializing from location")
	return c.DetectLocationAndFetch(ctx)
}

// DetectLocationAndFetch asks the resolver for a place name and fetches
// weather for it. Any resolver failure degrades silently to a fetch for the
// current city; no location error ever reaches the user.
func (c *Controller) DetectLocationAndFetch(ctx context.Context) error {
	ctx, span := otel.Tracer("appController").Start(ctx, "DetectLocationAndFetch")
	defer span.End()

	l := c.logger.With(slog.String("method", "DetectLocationAndFetch"))

	place, err := c.resolver.Resolve(ctx)
	if err != nil {
		l.InfoContext(ctx, "Location unavailable, degrading to city fetch", slog.Any("error", err))
		span.SetStatus(codes.Ok, "Degraded to city fetch")
		return c.FetchWeatherForCity(ctx, c.State().CurrentCity)
	}

	c.apply(types.CityResolved{City: place})
	if err := c.store.SetLastCity(ctx, place); err != nil {
		l.WarnContext(ctx, "Failed to persist resolved city", slog.Any("error", err))
	}
	span.SetStatus(codes.Ok, "Location resolved")
	return c.FetchWeatherForCity(ctx, place)
}

// FetchWeatherForCity runs one fetch cycle: weather, persistence, advice.
// Blank input is a no-op. A failed fetch sets the user-facing message and
// leaves the previous weather and advice untouched; after a successful fetch
// advice is always populated, from the generative call or its fallback.
func (c *Controller) FetchWeatherForCity(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil
	}

	ctx, span := otel.Tracer("appController").Start(ctx, "FetchWeatherForCity", trace.WithAttributes(
		attribute.String("weather.city", city),
	))
	defer span.End()

	l := c.logger.With(slog.String("method", "FetchWeatherForCity"), slog.String("city", city))

	c.apply(types.FetchStarted{})

	record, err := c.fetcher.FetchByCity(ctx, city)
	if err != nil {
		l.InfoContext(ctx, "Weather fetch failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Weather fetch failed")
		c.apply(types.FetchFailed{Message: messageFor(err)})
		return err
	}

	c.apply(types.FetchSucceeded{City: city, Weather: record})

	if err := c.store.SetLastCity(ctx, city); err != nil {
		l.WarnContext(ctx, "Failed to persist city", slog.Any("error", err))
	}
	if raw, serr := record.Serialize(); serr == nil {
		if err := c.store.SetLastWeather(ctx, raw); err != nil {
			l.WarnContext(ctx, "Failed to persist weather snapshot", slog.Any("error", err))
		}
	} else {
		l.WarnContext(ctx, "Failed to serialize weather snapshot", slog.Any("error", serr))
	}

	adv, genErr := c.generator.Generate(ctx, record)
	if genErr != nil {
		// Degrade silently; the generator already handed back the fallback.
		l.DebugContext(ctx, "Advice degraded to fallback", slog.Any("error", genErr))
	}
	c.apply(types.AdviceReady{Advice: adv})

	span.SetStatus(codes.Ok, "Fetch cycle completed")
	return nil
}

// OnSearchInput handles one search keystroke. Queries longer than two
// characters recompute suggestions after a quiet period; each keystroke
// restarts the pending timer so only the last one fires. Shorter input
// clears suggestions immediately.
func (c *Controller) OnSearchInput(text string) {
	if len(text) <= 2 {
		c.cancelDebounce()
		c.apply(types.SuggestionsCleared{})
		return
	}

	c.debounceMu.Lock()
	defer c.debounceMu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	query := text
	c.timer = time.AfterFunc(c.debounce, func() {
		c.apply(types.SuggestionsUpdated{Matches: c.Suggest(query)})
	})
}

// Suggest filters the city catalog with a case-insensitive substring match,
// preserving catalog order and capping the result at maxSuggestions.
func (c *Controller) Suggest(query string) []string {
	needle := strings.ToLower(query)
	matches := make([]string, 0, maxSuggestions)
	for _, city := range c.cities {
		if strings.Contains(strings.ToLower(city), needle) {
			matches = append(matches, city)
			if len(matches) == maxSuggestions {
				break
			}
		}
	}
	return matches
}

// SelectSuggestion closes the suggestion list and fetches the chosen city.
func (c *Controller) SelectSuggestion(ctx context.Context, city string) error {
	c.cancelDebounce()
	c.apply(types.SuggestionsCleared{})
	return c.FetchWeatherForCity(ctx, city)
}

func (c *Controller) cancelDebounce() {
	c.debounceMu.Lock()
	defer c.debounceMu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, types.ErrCityNotFound):
		return msgCityNotFound
	case errors.Is(err, types.ErrNetwork):
		return msgNetwork
	default:
		return msgGeneric
	}
}
