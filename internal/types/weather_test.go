package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeatherRecord(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		raw := []byte(`{
			"main": {"temp": 10.5, "feels_like": 8.2, "humidity": 76, "pressure": 1013},
			"weather": [{"description": "light rain", "icon": "10d"}],
			"wind": {"speed": 4.1}
		}`)

		w, err := ParseWeatherRecord(raw)
		require.NoError(t, err)
		assert.Equal(t, 10.5, w.Temperature)
		assert.Equal(t, 8.2, w.FeelsLike)
		assert.Equal(t, "light rain", w.Description)
		assert.Equal(t, "10d", w.IconCode)
		assert.Equal(t, 76.0, w.Humidity)
		assert.Equal(t, 4.1, w.WindSpeed)
		require.NotNil(t, w.Pressure)
		assert.Equal(t, 1013.0, *w.Pressure)
	})

	t.Run("pressure is optional", func(t *testing.T) {
		raw := []byte(`{
			"main": {"temp": 21, "feels_like": 20, "humidity": 40},
			"weather": [{"description": "clear sky", "icon": "01d"}],
			"wind": {"speed": 2}
		}`)

		w, err := ParseWeatherRecord(raw)
		require.NoError(t, err)
		assert.Nil(t, w.Pressure)
	})

	t.Run("description and icon default when absent", func(t *testing.T) {
		raw := []byte(`{
			"main": {"temp": 21, "feels_like": 20, "humidity": 40},
			"weather": [{}],
			"wind": {"speed": 2}
		}`)

		w, err := ParseWeatherRecord(raw)
		require.NoError(t, err)
		assert.Equal(t, "Unknown", w.Description)
		assert.Equal(t, "01d", w.IconCode)
	})

	t.Run("missing required fields fail", func(t *testing.T) {
		cases := map[string]string{
			"no temp":       `{"main": {"feels_like": 20, "humidity": 40}, "weather": [{}], "wind": {"speed": 2}}`,
			"no feels_like": `{"main": {"temp": 21, "humidity": 40}, "weather": [{}], "wind": {"speed": 2}}`,
			"no humidity":   `{"main": {"temp": 21, "feels_like": 20}, "weather": [{}], "wind": {"speed": 2}}`,
			"no wind speed": `{"main": {"temp": 21, "feels_like": 20, "humidity": 40}, "weather": [{}], "wind": {}}`,
			"empty weather": `{"main": {"temp": 21, "feels_like": 20, "humidity": 40}, "weather": [], "wind": {"speed": 2}}`,
		}
		for name, raw := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := ParseWeatherRecord([]byte(raw))
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedResponse)
			})
		}
	})

	t.Run("non-numeric required field fails", func(t *testing.T) {
		raw := []byte(`{
			"main": {"temp": "hot", "feels_like": 20, "humidity": 40},
			"weather": [{}],
			"wind": {"speed": 2}
		}`)

		_, err := ParseWeatherRecord(raw)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("not json fails", func(t *testing.T) {
		_, err := ParseWeatherRecord([]byte("not json at all"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestWeatherRecordRoundTrip(t *testing.T) {
	pressure := 998.4
	records := map[string]*WeatherRecord{
		"with pressure": {
			Temperature: -3.2,
			FeelsLike:   -7.8,
			Description: "snow",
			IconCode:    "13d",
			Humidity:    91,
			WindSpeed:   9.3,
			Pressure:    &pressure,
		},
		"without pressure": {
			Temperature: 27,
			FeelsLike:   29.5,
			Description: "scattered clouds",
			IconCode:    "03d",
			Humidity:    55,
			WindSpeed:   1.2,
		},
	}

	for name, w := range records {
		t.Run(name, func(t *testing.T) {
			raw, err := w.Serialize()
			require.NoError(t, err)

			parsed, err := ParseWeatherRecord(raw)
			require.NoError(t, err)
			assert.Equal(t, w, parsed)
		})
	}
}

func TestWeatherRecordIconURL(t *testing.T) {
	w := &WeatherRecord{IconCode: "10d"}
	assert.Equal(t, "https://openweathermap.org/img/wn/10d@2x.png", w.IconURL())
}
