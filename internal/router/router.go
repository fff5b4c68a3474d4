package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/wearcast/wearcast-api/internal/app/controller"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	ControllerHandler *controller.HandlerImpl
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied before
// mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", cfg.ControllerHandler.GetState)
		r.Post("/weather/fetch", cfg.ControllerHandler.FetchWeather)
		r.Post("/location/detect", cfg.ControllerHandler.DetectLocation)
		r.Post("/search/input", cfg.ControllerHandler.SearchInput)
		r.Get("/suggestions", cfg.ControllerHandler.Suggestions)
		r.Post("/suggestions/select", cfg.ControllerHandler.SelectSuggestion)
	})

	return r
}
