package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wearcast/wearcast-api/internal/api/advice"
	"github.com/wearcast/wearcast-api/internal/types"
)

// --- Mocks for collaborators ---

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchByCity(ctx context.Context, city string) (*types.WeatherRecord, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WeatherRecord), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, w *types.WeatherRecord) (*types.ClothingAdvice, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ClothingAdvice), args.Error(1)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetLastCity(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockStore) SetLastCity(ctx context.Context, city string) error {
	args := m.Called(ctx, city)
	return args.Error(0)
}

func (m *MockStore) GetLastWeather(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStore) SetLastWeather(ctx context.Context, raw []byte) error {
	args := m.Called(ctx, raw)
	return args.Error(0)
}

type controllerMocks struct {
	fetcher   *MockFetcher
	generator *MockGenerator
	resolver  *MockResolver
	store     *MockStore
}

func setupControllerTest(opts Options) (*Controller, *controllerMocks) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := &controllerMocks{
		fetcher:   new(MockFetcher),
		generator: new(MockGenerator),
		resolver:  new(MockResolver),
		store:     new(MockStore),
	}
	ctrl := NewController(m.fetcher, m.generator, m.resolver, m.store, opts, logger)
	return ctrl, m
}

func (m *controllerMocks) expectPersistence() {
	m.store.On("SetLastCity", mock.Anything, mock.AnythingOfType("string")).Return(nil)
	m.store.On("SetLastWeather", mock.Anything, mock.AnythingOfType("[]uint8")).Return(nil)
}

// --- Fetch cycle ---

func TestController_FetchWeatherForCity(t *testing.T) {
	ctx := context.Background()

	t.Run("scenario A: cold clear day ends in heavy clothing", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{})
		record := &types.WeatherRecord{Temperature: 10, FeelsLike: 8, Description: "clear sky", IconCode: "01d", Humidity: 60, WindSpeed: 3}

		m.fetcher.On("FetchByCity", mock.Anything, "Paris").Return(record, nil).Once()
		m.generator.On("Generate", mock.Anything, record).Return(advice.Fallback(record), nil).Once()
		m.expectPersistence()

		require.NoError(t, ctrl.FetchWeatherForCity(ctx, "Paris"))

		state := ctrl.State()
		assert.False(t, state.Loading)
		assert.Empty(t, state.ErrorMessage)
		assert.Equal(t, "Paris", state.CurrentCity)
		require.Same(t, record, state.Weather)
		require.NotNil(t, state.Advice)
		assert.Equal(t, types.ClothingHeavy, state.Advice.ClothingType)
		assert.True(t, state.Advice.CarryJacket)
		assert.False(t, state.Advice.CarryUmbrella)
		m.fetcher.AssertExpectations(t)
		m.generator.AssertExpectations(t)
		m.store.AssertExpectations(t)
	})

	t.Run("scenario B: unknown city preserves previous weather", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{})
		record := &types.WeatherRecord{Temperature: 10, Description: "clear sky", IconCode: "01d"}
		adv := advice.Fallback(record)

		m.fetcher.On("FetchByCity", mock.Anything, "Paris").Return(record, nil).Once()
		m.generator.On("Generate", mock.Anything, record).Return(adv, nil).Once()
		m.expectPersistence()
		require.NoError(t, ctrl.FetchWeatherForCity(ctx, "Paris"))

		m.fetcher.On("FetchByCity", mock.Anything, "Nowhereville").
			Return(nil, fmt.Errorf("%w: provider status 404", types.ErrCityNotFound)).Once()

		err := ctrl.FetchWeatherForCity(ctx, "Nowhereville")
		require.Error(t, err)

		state := ctrl.State()
		assert.False(t, state.Loading)
		assert.Equal(t, "City not found. Please try another city.", state.ErrorMessage)
		assert.Same(t, record, state.Weather, "previous weather untouched")
		assert.Same(t, adv, state.Advice, "previous advice untouched")
		m.fetcher.AssertExpectations(t)
	})

	t.Run("scenario C: advice degrade still populates advice", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{})
		record := &types.WeatherRecord{Temperature: 20, Description: "light rain", IconCode: "10d"}
		fallback := advice.Fallback(record)

		m.fetcher.On("FetchByCity", mock.Anything, "Paris").Return(record, nil).Once()
		m.generator.On("Generate", mock.Anything, record).
			Return(fallback, fmt.Errorf("%w: connection reset", types.ErrAdviceGeneration)).Once()
		m.expectPersistence()

		require.NoError(t, ctrl.FetchWeatherForCity(ctx, "Paris"))

		state := ctrl.State()
		require.NotNil(t, state.Advice, "advice never left null after a successful fetch")
		assert.Equal(t, fallback, state.Advice)
		assert.False(t, state.Loading)
		assert.Empty(t, state.ErrorMessage)
	})

	t.Run("network error maps to the network message", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{})
		m.fetcher.On("FetchByCity", mock.Anything, "Paris").
			Return(nil, fmt.Errorf("%w: dial tcp: timeout", types.ErrNetwork)).Once()

		err := ctrl.FetchWeatherForCity(ctx, "Paris")
		require.Error(t, err)
		assert.Equal(t, "Network error. Please check your connection.", ctrl.State().ErrorMessage)
	})

	t.Run("malformed response maps to the generic message", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{})
		m.fetcher.On("FetchByCity", mock.Anything, "Paris").
			Return(nil, fmt.Errorf("%w: missing main.temp", types.ErrMalformedResponse)).Once()

		err := ctrl.FetchWeatherForCity(ctx, "Paris")
		require.Error(t, err)
		assert.Equal(t, "Something went wrong. Please try again.", ctrl.State().ErrorMessage)
	})

	t.Run("blank input is a silent no-op", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{})
		before := ctrl.State()

		require.NoError(t, ctrl.FetchWeatherForCity(ctx, "   "))

		assert.Equal(t, before, ctrl.State())
		m.fetcher.AssertNotCalled(t, "FetchByCity", mock.Anything, mock.Anything)
	})
}

// --- Initialization and location ---

func TestController_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("persisted city skips location detection", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{})
		record := &types.WeatherRecord{Temperature: 22, Description: "few clouds", IconCode: "02d"}

		persisted := &types.WeatherRecord{Temperature: 18, FeelsLike: 17, Description: "mist", IconCode: "50d", Humidity: 80, WindSpeed: 1}
		raw, err := persisted.Serialize()
		require.NoError(t, err)

		m.store.On("GetLastCity", mock.Anything).Return("Paris", nil).Once()
		m.store.On("GetLastWeather", mock.Anything).Return(raw, nil).Once()
		m.fetcher.On("FetchByCity", mock.Anything, "Paris").Return(record, nil).Once()
		m.generator.On("Generate", mock.Anything, record).Return(advice.Fallback(record), nil).Once()
		m.expectPersistence()

		require.NoError(t, ctrl.Initialize(ctx))

		state := ctrl.State()
		assert.Equal(t, "Paris", state.CurrentCity)
		assert.Same(t, record, state.Weather, "live fetch supersedes the restored snapshot")
		m.resolver.AssertNotCalled(t, "Resolve", mock.Anything)
	})

	t.Run("no persisted city falls through to location", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{})
		record := &types.WeatherRecord{Temperature: 25, Description: "clear sky", IconCode: "01d"}

		m.store.On("GetLastCity", mock.Anything).Return("", nil).Once()
		m.store.On("GetLastWeather", mock.Anything).Return(nil, nil).Once()
		m.resolver.On("Resolve", mock.Anything).Return("Berlin", nil).Once()
		m.fetcher.On("FetchByCity", mock.Anything, "Berlin").Return(record, nil).Once()
		m.generator.On("Generate", mock.Anything, record).Return(advice.Fallback(record), nil).Once()
		m.expectPersistence()

		require.NoError(t, ctrl.Initialize(ctx))
		assert.Equal(t, "Berlin", ctrl.State().CurrentCity)
	})

	t.Run("resolver failure degrades to the default city", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{DefaultCity: "London"})
		record := &types.WeatherRecord{Temperature: 12, Description: "overcast clouds", IconCode: "04d"}

		m.store.On("GetLastCity", mock.Anything).Return("", nil).Once()
		m.store.On("GetLastWeather", mock.Anything).Return(nil, nil).Once()
		m.resolver.On("Resolve", mock.Anything).
			Return("", fmt.Errorf("%w: permission denied", types.ErrLocationUnavailable)).Once()
		m.fetcher.On("FetchByCity", mock.Anything, "London").Return(record, nil).Once()
		m.generator.On("Generate", mock.Anything, record).Return(advice.Fallback(record), nil).Once()
		m.expectPersistence()

		require.NoError(t, ctrl.Initialize(ctx))

		state := ctrl.State()
		assert.Empty(t, state.ErrorMessage, "location failures never surface")
		assert.Equal(t, "London", state.CurrentCity)
	})

	t.Run("unreadable persisted snapshot is discarded", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{})
		record := &types.WeatherRecord{Temperature: 9, Description: "drizzle", IconCode: "09d"}

		m.store.On("GetLastCity", mock.Anything).Return("Oslo", nil).Once()
		m.store.On("GetLastWeather", mock.Anything).Return([]byte("not json"), nil).Once()
		m.fetcher.On("FetchByCity", mock.Anything, "Oslo").Return(record, nil).Once()
		m.generator.On("Generate", mock.Anything, record).Return(advice.Fallback(record), nil).Once()
		m.expectPersistence()

		require.NoError(t, ctrl.Initialize(ctx))
		assert.Same(t, record, ctrl.State().Weather)
	})
}

func TestController_DetectLocationAndFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("resolved place is persisted and fetched", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{})
		record := &types.WeatherRecord{Temperature: 28, Description: "clear sky", IconCode: "01d"}

		m.resolver.On("Resolve", mock.Anything).Return("Madrid", nil).Once()
		m.fetcher.On("FetchByCity", mock.Anything, "Madrid").Return(record, nil).Once()
		m.generator.On("Generate", mock.Anything, record).Return(advice.Fallback(record), nil).Once()
		m.expectPersistence()

		require.NoError(t, ctrl.DetectLocationAndFetch(ctx))

		assert.Equal(t, "Madrid", ctrl.State().CurrentCity)
		m.store.AssertCalled(t, "SetLastCity", mock.Anything, "Madrid")
	})

	t.Run("resolver failure falls back to the current city silently", func(t *testing.T) {
		ctrl, m := setupControllerTest(Options{DefaultCity: "London"})
		record := &types.WeatherRecord{Temperature: 14, Description: "light rain", IconCode: "10d"}

		m.resolver.On("Resolve", mock.Anything).
			Return("", errors.New("service disabled")).Once()
		m.fetcher.On("FetchByCity", mock.Anything, "London").Return(record, nil).Once()
		m.generator.On("Generate", mock.Anything, record).Return(advice.Fallback(record), nil).Once()
		m.expectPersistence()

		require.NoError(t, ctrl.DetectLocationAndFetch(ctx))
		assert.Empty(t, ctrl.State().ErrorMessage)
	})
}

// --- Suggestions and debounce ---

func TestController_Suggest(t *testing.T) {
	ctrl, _ := setupControllerTest(Options{Cities: []string{"London", "Londonderry", "Paris"}})

	t.Run("case-insensitive substring in original order", func(t *testing.T) {
		assert.Equal(t, []string{"London", "Londonderry"}, ctrl.Suggest("lon"))
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, ctrl.Suggest("xyz"))
	})

	t.Run("capped at five matches", func(t *testing.T) {
		many, _ := setupControllerTest(Options{Cities: []string{
			"Port Alpha", "Port Bravo", "Port Charlie", "Port Delta", "Port Echo", "Port Foxtrot",
		}})
		matches := many.Suggest("port")
		assert.Len(t, matches, 5)
		assert.Equal(t, "Port Alpha", matches[0])
	})
}

func TestController_OnSearchInput(t *testing.T) {
	t.Run("five rapid keystrokes produce one recomputation from the last value", func(t *testing.T) {
		ctrl, _ := setupControllerTest(Options{
			Cities:   []string{"London", "Londonderry", "Paris"},
			Debounce: 30 * time.Millisecond,
		})

		for _, text := range []string{"Lon", "Lond", "Londo", "London", "Londond"} {
			ctrl.OnSearchInput(text)
			time.Sleep(5 * time.Millisecond)
		}

		time.Sleep(100 * time.Millisecond)

		state := ctrl.State()
		assert.Equal(t, []string{"Londonderry"}, state.CitySuggestions, "only the final keystroke fires")
		assert.True(t, state.SuggestionsVisible)

		published := 0
		for {
			select {
			case <-ctrl.Updates():
				published++
				continue
			default:
			}
			break
		}
		assert.Equal(t, 1, published, "exactly one suggestion recomputation")
	})

	t.Run("short input clears immediately without debounce", func(t *testing.T) {
		ctrl, _ := setupControllerTest(Options{
			Cities:   []string{"London"},
			Debounce: time.Hour, // a pending timer must never fire in this test
		})

		ctrl.OnSearchInput("Lond")
		ctrl.OnSearchInput("Lo")

		state := ctrl.State()
		assert.False(t, state.SuggestionsVisible)
		assert.Empty(t, state.CitySuggestions)
	})
}

func TestController_SelectSuggestion(t *testing.T) {
	ctx := context.Background()
	ctrl, m := setupControllerTest(Options{Cities: []string{"London", "Londonderry"}, Debounce: 10 * time.Millisecond})
	record := &types.WeatherRecord{Temperature: 16, Description: "broken clouds", IconCode: "04d"}

	ctrl.OnSearchInput("Lond")
	time.Sleep(30 * time.Millisecond)
	require.True(t, ctrl.State().SuggestionsVisible)

	m.fetcher.On("FetchByCity", mock.Anything, "Londonderry").Return(record, nil).Once()
	m.generator.On("Generate", mock.Anything, record).Return(advice.Fallback(record), nil).Once()
	m.expectPersistence()

	require.NoError(t, ctrl.SelectSuggestion(ctx, "Londonderry"))

	state := ctrl.State()
	assert.False(t, state.SuggestionsVisible, "suggestions close on selection")
	assert.Equal(t, "Londonderry", state.CurrentCity)
	assert.Same(t, record, state.Weather)
}
