package types

import "errors"

// Failure taxonomy for the weather/advice pipeline. Callers classify with
// errors.Is; only the controller translates these into user-facing messages.
var (
	// ErrEmptyInput marks a blank city name. Silently ignored upstream.
	ErrEmptyInput = errors.New("empty input")

	// ErrCityNotFound covers any non-200 answer from the weather provider.
	ErrCityNotFound = errors.New("city not found")

	// ErrNetwork covers transport-level failures (timeout, DNS, refused).
	ErrNetwork = errors.New("network error")

	// ErrMalformedResponse marks a 200 body that cannot be mapped to a
	// WeatherRecord.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrLocationUnavailable covers every location failure stage; it is
	// never surfaced, the controller degrades to a city-based fetch.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrAdviceGeneration marks a failed generative call. The generator
	// still returns a usable fallback advice alongside it.
	ErrAdviceGeneration = errors.New("advice generation failed")
)
