package media

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
	GetMediaRating(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	mediaService Service
	logger       *slog.Logger
}

func NewHandlerImpl(mediaService Service, logger *slog.Logger) *HandlerImpl {
	instanceLogger := logger.With(slog.String("handler", "media"))
	return &HandlerImpl{
		mediaService: mediaService,
		logger:       instanceLogger,
	}
}

// GetMediaRating handles GET /media/rating/{spot}?city=... .
func (h *HandlerImpl) GetMediaRating(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HandlerImpl").Start(r.Context(), "GetMediaRating", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/media/rating/{spot}"),
	))
	defer span.End()

	spot := strings.TrimSpace(chi.URLParam(r, "spot"))
	if spot == "" {
		span.SetStatus(codes.Error, "missing spot")
		api.ErrorResponse(w, r, http.StatusBadRequest, "spot is required")
		return
	}
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	span.SetAttributes(attribute.String("media.spot", spot))

	report := h.mediaService.LookupMediaRating(ctx, spot, city)

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"report":  report,
		"message": FormatReportForUser(report),
	})
}
