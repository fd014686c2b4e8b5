package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anyascii/go"
	"github.com/gilby125/airport-routes/airports"
	"github.com/gilby125/airport-routes/dataset"
	"github.com/gilby125/airport-routes/pkg/logger"
	"github.com/gilby125/airport-routes/routing"
)

// Error kinds surfaced by the shortest route service.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrTranslation  = errors.New("code translation failed")
)

const (
	msgMissingParams = "Missing query params ´from´ or/and ´to´"
	msgInvalidParams = "Invalid query params ´from´ or/and ´to´"
	msgSameParams    = "´from´ and ´to´ params are the same"
	msgInternal      = "Something went wrong!"
	msgTimeout       = "Route search timed out"
)

// RouteFinder is implemented by *routing.Finder.
type RouteFinder interface {
	FindShortestRoute(ctx context.Context, source, sink string) (*routing.Route, error)
}

// AirportResolver is implemented by *airports.Directory.
type AirportResolver interface {
	Lookup(ctx context.Context, code string) (dataset.Airport, error)
	SecondaryToPrimary(ctx context.Context, code string) (string, error)
}

// CodeSystem is the code space a request is expressed in.
type CodeSystem string

const (
	CodeSystemIATA CodeSystem = "iata"
	CodeSystemICAO CodeSystem = "icao"
)

func (s CodeSystem) codeLength() int {
	if s == CodeSystemICAO {
		return dataset.SecondaryCodeLength
	}
	return dataset.PrimaryCodeLength
}

// ParseCodeSystem accepts "iata" or "icao" in any case.
func ParseCodeSystem(raw string) (CodeSystem, error) {
	switch CodeSystem(strings.ToLower(strings.TrimSpace(raw))) {
	case CodeSystemIATA:
		return CodeSystemIATA, nil
	case CodeSystemICAO:
		return CodeSystemICAO, nil
	}
	return "", fmt.Errorf("%w: unknown code system %q", ErrInvalidInput, raw)
}

// RouteData is the success payload.
type RouteData struct {
	AirportCodes []string `json:"airportCodes"`
	RouteLength  string   `json:"routeLength"`
}

// Error is a failed request: the HTTP status, the message shown to the
// client, and the underlying kind.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func failure(status int, err error, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...), Err: err}
}

// ShortestRouteService validates requests in either code system and runs
// them through the route finder.
type ShortestRouteService struct {
	finder   RouteFinder
	airports AirportResolver
	timeout  time.Duration
}

// NewShortestRouteService creates the service. A zero timeout disables the
// search deadline.
func NewShortestRouteService(finder RouteFinder, resolver AirportResolver, timeout time.Duration) *ShortestRouteService {
	return &ShortestRouteService{finder: finder, airports: resolver, timeout: timeout}
}

// NormalizeCode trims, transliterates to ASCII and uppercases a query code.
func NormalizeCode(raw string) string {
	return strings.ToUpper(anyascii.Transliterate(strings.TrimSpace(raw)))
}

// Shortest finds the shortest route between two codes of the given system.
// Failures are returned as *Error.
func (s *ShortestRouteService) Shortest(ctx context.Context, system CodeSystem, from, to string) (*RouteData, error) {
	log := logger.WithContext(ctx)
	log.Info("Received request to find shortest route", "from", from, "to", to, "code_system", system)

	if from == "" || to == "" {
		log.Info("Missing required request parameters")
		return nil, failure(http.StatusBadRequest, ErrInvalidInput, msgMissingParams)
	}

	fromCode, toCode := NormalizeCode(from), NormalizeCode(to)
	want := system.codeLength()
	if utf8.RuneCountInString(fromCode) != want || utf8.RuneCountInString(toCode) != want {
		log.Info("Request params have invalid length")
		return nil, failure(http.StatusBadRequest, ErrInvalidInput, msgInvalidParams)
	}
	if fromCode == toCode {
		return nil, failure(http.StatusBadRequest, ErrInvalidInput, msgSameParams)
	}

	source, err := s.toPrimary(ctx, system, fromCode)
	if err != nil {
		return nil, err
	}
	sink, err := s.toPrimary(ctx, system, toCode)
	if err != nil {
		return nil, err
	}

	searchCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	route, err := s.finder.FindShortestRoute(searchCtx, source, sink)
	switch {
	case err == nil:
	case errors.Is(err, routing.ErrNoRoute):
		log.Info("Search algorithm did not find route", "from", fromCode, "to", toCode)
		return nil, failure(http.StatusNotFound, err, "Unable to find path from-%s to-%s", fromCode, toCode)
	case errors.Is(err, routing.ErrNotFound):
		missing := toCode
		var notFound *routing.NotFoundError
		if errors.As(err, &notFound) && notFound.Code == source {
			missing = fromCode
		}
		return nil, failure(http.StatusNotFound, err, "Could not find airport-%s", missing)
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("Route search timed out", "from", fromCode, "to", toCode, "timeout", s.timeout)
		return nil, failure(http.StatusGatewayTimeout, err, msgTimeout)
	default:
		log.Error(err, "Route search failed", "from", fromCode, "to", toCode)
		return nil, failure(http.StatusInternalServerError, err, msgInternal)
	}

	codes := route.AirportCodes
	if system == CodeSystemICAO {
		codes, err = s.toSecondary(ctx, route.AirportCodes)
		if err != nil {
			log.Error(err, "Could not translate primary codes back to secondary codes")
			return nil, failure(http.StatusInternalServerError, err, msgInternal)
		}
	}

	return &RouteData{AirportCodes: codes, RouteLength: route.RouteLength}, nil
}

func (s *ShortestRouteService) toPrimary(ctx context.Context, system CodeSystem, code string) (string, error) {
	var err error
	primary := code
	if system == CodeSystemICAO {
		primary, err = s.airports.SecondaryToPrimary(ctx, code)
	} else {
		_, err = s.airports.Lookup(ctx, code)
	}

	if errors.Is(err, airports.ErrAirportNotFound) {
		return "", failure(http.StatusNotFound, routing.ErrNotFound, "Could not find airport-%s", code)
	}
	if err != nil {
		logger.WithContext(ctx).Error(err, "Airport lookup failed", "code", code)
		return "", failure(http.StatusInternalServerError, err, msgInternal)
	}
	return primary, nil
}

func (s *ShortestRouteService) toSecondary(ctx context.Context, codes []string) ([]string, error) {
	out := make([]string, len(codes))
	for i, code := range codes {
		airport, err := s.airports.Lookup(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTranslation, code, err)
		}
		if airport.SecondaryCode == "" {
			return nil, fmt.Errorf("%w: %s has no secondary code", ErrTranslation, code)
		}
		out[i] = airport.SecondaryCode
	}
	return out, nil
}
