package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wanderplan/wanderplan/internal/api/flights"
	"github.com/wanderplan/wanderplan/internal/api/hotspots"
	"github.com/wanderplan/wanderplan/internal/api/media"
	"github.com/wanderplan/wanderplan/internal/api/trip"
	"github.com/wanderplan/wanderplan/internal/router"
	"github.com/wanderplan/wanderplan/internal/types"
)

func setupBenchmarkRouter() http.Handler {
	logger := slog.New(slog.DiscardHandler)

	spotService := &stubSpotService{spots: []types.CandidateSpot{
		{ID: "b1", Title: "Old Town", Category: "sightseeing", Rating: 4.7},
		{ID: "b2", Title: "Night Market", Category: "food", Rating: 4.5},
		{ID: "b3", Title: "City Museum", Category: "culture", Rating: 4.6},
		{ID: "b4", Title: "River Walk", Category: "sightseeing", Rating: 4.4},
	}}
	hotspotService := &stubHotspotService{}

	mediaRepo := media.NewRepository("data/search_contents.json", "data/search_comments.json", logger)
	mediaService := media.NewService(mediaRepo, &stubCompleter{reply: `{"rating": 4.2, "summary": "ok", "highlights": ["a"], "concerns": []}`}, logger)

	tripService := trip.NewService(
		trip.NewSessionStore(time.Hour),
		spotService,
		hotspotService,
		mediaService,
		&stubCompleter{reply: "noted"},
		logger,
	)
	flightService := flights.NewService(flights.StaticProvider{}, logger)

	return router.SetupRouter(&router.Config{
		TripHandler:     trip.NewHandlerImpl(tripService, logger),
		HotspotsHandler: hotspots.NewHandlerImpl(hotspotService, logger),
		MediaHandler:    media.NewHandlerImpl(mediaService, logger),
		FlightsHandler:  flights.NewHandlerImpl(flightService, logger),
	})
}

func benchChatTurn(b *testing.B, h http.Handler, sessionID, message string) types.ChatResponse {
	body, _ := json.Marshal(types.ChatRequest{SessionID: sessionID, Message: message})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		b.Fatalf("unexpected status %d", rec.Code)
	}
	var resp types.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		b.Fatalf("decode response: %v", err)
	}
	return resp
}

// BenchmarkChatPlanningTurn measures the full handler path for the turn that
// ranks the pool, buckets day one and renders the timeline. A fresh session is
// greeted each iteration so every measured turn takes the planning path.
func BenchmarkChatPlanningTurn(b *testing.B) {
	h := setupBenchmarkRouter()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		greeted := benchChatTurn(b, h, "", "hi")
		planned := benchChatTurn(b, h, greeted.SessionID, "4 days in Shanghai for food and sightseeing")
		if planned.Phase != types.PhaseRefiningDay {
			b.Fatalf("unexpected phase %q", planned.Phase)
		}
	}
}

func BenchmarkFlightSearch(b *testing.B) {
	h := setupBenchmarkRouter()
	body, _ := json.Marshal(types.FlightSearchRequest{Origin: "Beijing", Destination: "Shanghai"})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/flights/search", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
