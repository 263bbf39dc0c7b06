package flights

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderplan/wanderplan/internal/api"
	"github.com/wanderplan/wanderplan/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	SearchFlights(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	flightService Service
	logger        *slog.Logger
}

func NewHandlerImpl(flightService Service, logger *slog.Logger) *HandlerImpl {
	instanceLogger := logger.With(slog.String("handler", "flights"))
	return &HandlerImpl{
		flightService: flightService,
		logger:        instanceLogger,
	}
}

// SearchFlights handles POST /flights/search.
func (h *HandlerImpl) SearchFlights(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HandlerImpl").Start(r.Context(), "SearchFlights", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/flights/search"),
	))
	defer span.End()

	var req types.FlightSearchRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.flightService.SearchFlights(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "flight search rejected")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
