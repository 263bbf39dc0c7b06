package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/wanderplan/wanderplan/internal/api/flights"
	"github.com/wanderplan/wanderplan/internal/api/hotspots"
	"github.com/wanderplan/wanderplan/internal/api/media"
	"github.com/wanderplan/wanderplan/internal/api/trip"
)

// Config contains the handlers the router wires up.
type Config struct {
	TripHandler     trip.Handler
	HotspotsHandler hotspots.Handler
	MediaHandler    media.Handler
	FlightsHandler  flights.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", cfg.TripHandler.Chat)
		r.Get("/hotspots/{city}", cfg.HotspotsHandler.SearchCityHotspots)
		r.Get("/media/rating/{spot}", cfg.MediaHandler.GetMediaRating)
		r.Post("/flights/search", cfg.FlightsHandler.SearchFlights)
	})

	return r
}
