package flights

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wanderplan/wanderplan/internal/types"
)

// Provider is the upstream flight inventory. The static demo provider ships
// by default; a real GDS client satisfies the same interface.
type Provider interface {
	SearchFlights(ctx context.Context, req types.FlightSearchRequest) ([]types.FlightOffer, error)
}

type Service interface {
	SearchFlights(ctx context.Context, req types.FlightSearchRequest) (types.FlightSearchResponse, error)
}

type ServiceImpl struct {
	provider Provider
	logger   *slog.Logger
}

var _ Service = (*ServiceImpl)(nil)

func NewService(provider Provider, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{provider: provider, logger: logger}
}

// SearchFlights normalizes the request, queries the provider and attaches
// the recommended offer. Provider failures surface as an empty result, not
// an error, so a chat turn never breaks on flights.
func (s *ServiceImpl) SearchFlights(ctx context.Context, req types.FlightSearchRequest) (types.FlightSearchResponse, error) {
	ctx, span := otel.Tracer("FlightsService").Start(ctx, "SearchFlights")
	defer span.End()

	req.Origin = ResolveIATA(req.Origin)
	req.Destination = ResolveIATA(req.Destination)
	if req.Adults <= 0 {
		req.Adults = 1
	}
	span.SetAttributes(
		attribute.String("flight.origin", req.Origin),
		attribute.String("flight.destination", req.Destination),
	)

	if req.Origin == "" || req.Destination == "" {
		span.SetStatus(codes.Error, "missing route endpoints")
		return types.FlightSearchResponse{}, fmt.Errorf("origin and destination are required")
	}

	offers, err := s.provider.SearchFlights(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider search failed")
		s.logger.WarnContext(ctx, "Flight provider failed",
			slog.String("origin", req.Origin),
			slog.String("destination", req.Destination),
			slog.Any("error", err),
		)
		return types.FlightSearchResponse{Flights: []types.FlightOffer{}}, nil
	}
	span.SetAttributes(attribute.Int("flight.offers", len(offers)))

	return types.FlightSearchResponse{
		Flights: offers,
		Best:    ChooseBestFlight(offers),
	}, nil
}

var iataPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// cityIATA maps common city names to their main airport code; anything not
// listed passes through unchanged.
var cityIATA = map[string]string{
	"北京": "PEK", "beijing": "PEK",
	"上海": "PVG", "shanghai": "PVG",
	"广州": "CAN", "guangzhou": "CAN",
	"深圳": "SZX", "shenzhen": "SZX",
	"杭州": "HGH", "hangzhou": "HGH",
	"西安": "XIY", "xian": "XIY",
	"香港": "HKG", "hong kong": "HKG",
	"成都": "CTU", "chengdu": "CTU",
	"重庆": "CKG", "chongqing": "CKG",
	"南京": "NKG", "nanjing": "NKG",
	"武汉": "WUH", "wuhan": "WUH",
	"厦门": "XMN", "xiamen": "XMN",
	"青岛": "TAO", "qingdao": "TAO",
	"大连": "DLC", "dalian": "DLC",
	"天津": "TSN", "tianjin": "TSN",
}

// ResolveIATA turns a city name into its airport code. Three-letter input is
// treated as an IATA code already.
func ResolveIATA(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if iataPattern.MatchString(name) {
		return strings.ToUpper(name)
	}
	if code, ok := cityIATA[strings.ToLower(name)]; ok {
		return code
	}
	return name
}

// StaticProvider serves a deterministic demo inventory for routes without a
// configured GDS backend.
type StaticProvider struct{}

var _ Provider = (*StaticProvider)(nil)

func (StaticProvider) SearchFlights(_ context.Context, req types.FlightSearchRequest) ([]types.FlightOffer, error) {
	date := req.DepartureDate
	if date == "" {
		date = "TBD"
	}
	return []types.FlightOffer{
		{
			Carrier:   "CA",
			FlightNo:  "CA1831",
			Departure: fmt.Sprintf("%s %s 08:30", req.Origin, date),
			Arrival:   fmt.Sprintf("%s %s 11:00", req.Destination, date),
			Price:     "¥1280",
			Duration:  "PT2H30M",
		},
		{
			Carrier:   "MU",
			FlightNo:  "MU5112",
			Departure: fmt.Sprintf("%s %s 13:15", req.Origin, date),
			Arrival:   fmt.Sprintf("%s %s 15:35", req.Destination, date),
			Price:     "¥980",
			Duration:  "PT2H20M",
		},
		{
			Carrier:   "HU",
			FlightNo:  "HU7604",
			Departure: fmt.Sprintf("%s %s 19:40", req.Origin, date),
			Arrival:   fmt.Sprintf("%s %s 22:10", req.Destination, date),
			Price:     "¥1450",
			Duration:  "PT2H30M",
		},
	}, nil
}
