package types

import (
	"encoding/json"
	"fmt"
)

const iconURLTemplate = "https://openweathermap.org/img/wn/%s@2x.png"

// WeatherRecord is one immutable current-conditions observation. Records are
// superseded by the next successful fetch, never mutated, and one serialized
// instance survives restarts as the "last known" snapshot.
type WeatherRecord struct {
	Temperature float64  `json:"temperature"`
	FeelsLike   float64  `json:"feels_like"`
	Description string   `json:"description"`
	IconCode    string   `json:"icon_code"`
	Humidity    float64  `json:"humidity"`
	WindSpeed   float64  `json:"wind_speed"`
	Pressure    *float64 `json:"pressure,omitempty"`
}

// weatherPayload mirrors the OpenWeatherMap current-conditions shape.
// Required numerics are pointers so a missing field is distinguishable
// from zero.
type weatherPayload struct {
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
		Pressure  *float64 `json:"pressure,omitempty"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description,omitempty"`
		Icon        string `json:"icon,omitempty"`
	} `json:"weather"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

// ParseWeatherRecord maps a provider body to a WeatherRecord. Missing or
// non-numeric required fields (main.temp, main.feels_like, main.humidity,
// wind.speed) and an empty weather array fail with ErrMalformedResponse;
// description/icon default when absent and main.pressure stays optional.
func ParseWeatherRecord(raw []byte) (*WeatherRecord, error) {
	var payload weatherPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding weather body: %v", ErrMalformedResponse, err)
	}

	switch {
	case payload.Main.Temp == nil:
		return nil, fmt.Errorf("%w: missing main.temp", ErrMalformedResponse)
	case payload.Main.FeelsLike == nil:
		return nil, fmt.Errorf("%w: missing main.feels_like", ErrMalformedResponse)
	case payload.Main.Humidity == nil:
		return nil, fmt.Errorf("%w: missing main.humidity", ErrMalformedResponse)
	case payload.Wind.Speed == nil:
		return nil, fmt.Errorf("%w: missing wind.speed", ErrMalformedResponse)
	case len(payload.Weather) == 0:
		return nil, fmt.Errorf("%w: empty weather array", ErrMalformedResponse)
	}

	description := payload.Weather[0].Description
	if description == "" {
		description = "Unknown"
	}
	icon := payload.Weather[0].Icon
	if icon == "" {
		icon = "01d"
	}

	return &WeatherRecord{
		Temperature: *payload.Main.Temp,
		FeelsLike:   *payload.Main.FeelsLike,
		Description: description,
		IconCode:    icon,
		Humidity:    *payload.Main.Humidity,
		WindSpeed:   *payload.Wind.Speed,
		Pressure:    payload.Main.Pressure,
	}, nil
}

// Serialize emits the same provider shape consumed by ParseWeatherRecord,
// so parse(serialize(w)) reproduces w. Absent pressure stays absent.
func (w *WeatherRecord) Serialize() ([]byte, error) {
	var payload weatherPayload
	payload.Main.Temp = &w.Temperature
	payload.Main.FeelsLike = &w.FeelsLike
	payload.Main.Humidity = &w.Humidity
	payload.Main.Pressure = w.Pressure
	payload.Weather = append(payload.Weather, struct {
		Description string `json:"description,omitempty"`
		Icon        string `json:"icon,omitempty"`
	}{Description: w.Description, Icon: w.IconCode})
	payload.Wind.Speed = &w.WindSpeed

	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize weather record: %w", err)
	}
	return out, nil
}

// IconURL returns the provider-hosted icon image for this observation.
// Consumed by presentation clients only.
func (w *WeatherRecord) IconURL() string {
	return fmt.Sprintf(iconURLTemplate, w.IconCode)
}
