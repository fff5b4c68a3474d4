package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wearcast/wearcast-api/internal/api"
	"github.com/wearcast/wearcast-api/internal/types"
)

// HandlerImpl exposes the controller over HTTP. Error messages ride inside
// the state snapshot; the status code only classifies the failure.
type HandlerImpl struct {
	logger *slog.Logger
	ctrl   *Controller
}

func NewHandler(ctrl *Controller, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger: logger,
		ctrl:   ctrl,
	}
}

type cityRequest struct {
	City string `json:"city"`
}

type searchRequest struct {
	Text string `json:"text"`
}

// GetState returns the current application state snapshot.
func (h *HandlerImpl) GetState(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, h.ctrl.State())
}

// FetchWeather triggers a fetch cycle for the requested city and returns the
// settled state.
func (h *HandlerImpl) FetchWeather(w http.ResponseWriter, r *http.Request) {
	var req cityRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := h.ctrl.FetchWeatherForCity(r.Context(), req.City)
	api.WriteJSONResponse(w, r, statusFor(err), h.ctrl.State())
}

// DetectLocation resolves the current position to a city and fetches weather
// for it, degrading to the current city when the resolver fails.
func (h *HandlerImpl) DetectLocation(w http.ResponseWriter, r *http.Request) {
	err := h.ctrl.DetectLocationAndFetch(r.Context())
	api.WriteJSONResponse(w, r, statusFor(err), h.ctrl.State())
}

// SearchInput feeds one keystroke into the debounced suggestion pipeline.
// The recomputation lands in the state asynchronously.
func (h *HandlerImpl) SearchInput(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.ctrl.OnSearchInput(req.Text)
	w.WriteHeader(http.StatusAccepted)
}

// Suggestions is the immediate, undebounced suggestion filter for clients
// that debounce on their own side.
func (h *HandlerImpl) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	matches := []string{}
	if len(query) > 2 {
		matches = h.ctrl.Suggest(query)
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"suggestions": matches,
	})
}

// SelectSuggestion closes the suggestion list and fetches the chosen city.
func (h *HandlerImpl) SelectSuggestion(w http.ResponseWriter, r *http.Request) {
	var req cityRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := h.ctrl.SelectSuggestion(r.Context(), req.City)
	api.WriteJSONResponse(w, r, statusFor(err), h.ctrl.State())
}

func statusFor(err error) int {
	switch {
	case err == nil, errors.Is(err, types.ErrEmptyInput):
		return http.StatusOK
	case errors.Is(err, types.ErrCityNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
