package types

// AppState is the single application state bag. It is only ever rewritten by
// the controller through Reduce; everything else observes snapshots.
type AppState struct {
	CurrentCity        string          `json:"current_city"`
	Loading            bool            `json:"loading"`
	ErrorMessage       string          `json:"error_message,omitempty"`
	Weather            *WeatherRecord  `json:"weather,omitempty"`
	Advice             *ClothingAdvice `json:"advice,omitempty"`
	CitySuggestions    []string        `json:"city_suggestions,omitempty"`
	SuggestionsVisible bool            `json:"suggestions_visible"`
}

// Event is one state transition input. The concrete event types below are the
// only way AppState changes.
type Event interface {
	isEvent()
}

// FetchStarted marks the beginning of a weather fetch: loading turns on and
// any previous error is cleared.
type FetchStarted struct{}

// CityResolved carries a place name produced by the location resolver.
type CityResolved struct {
	City string
}

// WeatherRestored hydrates a persisted snapshot at cold start, before the
// first live fetch settles.
type WeatherRestored struct {
	City    string
	Weather *WeatherRecord
}

// FetchSucceeded lands a fresh observation. Advice is cleared until the
// generative (or fallback) result arrives with AdviceReady.
type FetchSucceeded struct {
	City    string
	Weather *WeatherRecord
}

// AdviceReady completes a fetch cycle: advice lands and loading turns off.
type AdviceReady struct {
	Advice *ClothingAdvice
}

// FetchFailed settles a fetch with a user-facing message. Previous weather
// and advice stay untouched.
type FetchFailed struct {
	Message string
}

// SuggestionsUpdated replaces the search suggestion list.
type SuggestionsUpdated struct {
	Matches []string
}

// SuggestionsCleared hides and empties the suggestion list.
type SuggestionsCleared struct{}

func (FetchStarted) isEvent()       {}
func (CityResolved) isEvent()       {}
func (WeatherRestored) isEvent()    {}
func (FetchSucceeded) isEvent()     {}
func (AdviceReady) isEvent()        {}
func (FetchFailed) isEvent()        {}
func (SuggestionsUpdated) isEvent() {}
func (SuggestionsCleared) isEvent() {}

// Reduce applies one event to a state value and returns the next state.
// It is a pure function so every transition is testable without a running
// controller.
func Reduce(s AppState, ev Event) AppState {
	switch e := ev.(type) {
	case FetchStarted:
		s.Loading = true
		s.ErrorMessage = ""
	case CityResolved:
		s.CurrentCity = e.City
	case WeatherRestored:
		if e.City != "" {
			s.CurrentCity = e.City
		}
		s.Weather = e.Weather
	case FetchSucceeded:
		s.CurrentCity = e.City
		s.Weather = e.Weather
		s.Advice = nil
		s.ErrorMessage = ""
	case AdviceReady:
		s.Advice = e.Advice
		s.Loading = false
	case FetchFailed:
		s.ErrorMessage = e.Message
		s.Loading = false
	case SuggestionsUpdated:
		s.CitySuggestions = e.Matches
		s.SuggestionsVisible = len(e.Matches) > 0
	case SuggestionsCleared:
		s.CitySuggestions = nil
		s.SuggestionsVisible = false
	}
	return s
}
