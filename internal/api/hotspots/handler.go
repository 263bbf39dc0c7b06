package hotspots

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderplan/wanderplan/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	SearchCityHotspots(w http.ResponseWriter, r *http.Request)
}

// HandlerImpl exposes city hotspot discovery over HTTP.
type HandlerImpl struct {
	hotspotService Service
	logger         *slog.Logger
}

func NewHandlerImpl(hotspotService Service, logger *slog.Logger) *HandlerImpl {
	instanceLogger := logger.With(slog.String("handler", "hotspots"))
	return &HandlerImpl{
		hotspotService: hotspotService,
		logger:         instanceLogger,
	}
}

// SearchCityHotspots handles GET /hotspots/{city}.
func (h *HandlerImpl) SearchCityHotspots(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HandlerImpl").Start(r.Context(), "SearchCityHotspots", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/hotspots/{city}"),
	))
	defer span.End()

	city := strings.TrimSpace(chi.URLParam(r, "city"))
	if city == "" {
		span.SetStatus(codes.Error, "missing city")
		api.ErrorResponse(w, r, http.StatusBadRequest, "city is required")
		return
	}
	span.SetAttributes(attribute.String("city", city))

	results := h.hotspotService.SearchCityHotspots(ctx, city)
	span.SetAttributes(attribute.Int("hotspots.count", len(results)))

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"city":     city,
		"hotspots": results,
	})
}
