package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gilby125/airport-routes/airports"
	"github.com/gilby125/airport-routes/dataset"
	"github.com/gilby125/airport-routes/pkg/health"
	"github.com/gilby125/airport-routes/routing"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	airports []dataset.Airport
	routes   []dataset.Route
}

func (s *staticSource) Airports(ctx context.Context) ([]dataset.Airport, error) {
	return s.airports, nil
}

func (s *staticSource) Routes(ctx context.Context) ([]dataset.Route, error) {
	return s.routes, nil
}

const airportsDat = `1,"Lennart Meri Tallinn Airport","Tallinn-ulemiste International","Estonia","TLL","EETN",59.41329956049999,24.832799911499997,131,2,"E","Europe/Tallinn","airport","OurAirports"
2,"Helsinki Vantaa Airport","Helsinki","Finland","HEL","EFHK",60.317199707031,24.963300704956,179,2,"E","Europe/Helsinki","airport","OurAirports"
3,"Taiwan Taoyuan International Airport","Taipei","Taiwan","TPE","RCTP",25.0777,121.233002,106,8,"U","Asia/Taipei","airport","OurAirports"
4,"Anchorage Seaplane","Anchorage","United States",\N,"PAWS",0,0,0,-9,"A","America/Anchorage","seaplane base","OurAirports"
`

const routesDat = `AY,1,TLL,1,HEL,2,,0,320
AY,1,HEL,2,TPE,3,,0,359
AY,1,HEL,2,TPE,3,,0,359
`

func newEndToEndRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ap, err := dataset.ParseAirports(strings.NewReader(airportsDat))
	require.NoError(t, err)
	rt, err := dataset.ParseRoutes(strings.NewReader(routesDat))
	require.NoError(t, err)

	src := &staticSource{airports: ap, routes: rt}
	dir := airports.NewDirectory(src)
	graph := routing.NewGraph(src)
	finder := routing.NewFinder(dir, graph, routing.NewDistanceOracle(dir))

	router := gin.New()
	RegisterRoutes(router, NewShortestRouteService(finder, dir, 0), health.NewHealthChecker("test"))
	return router
}

func TestEndToEnd_IATA(t *testing.T) {
	w := get(newEndToEndRouter(t), "iata", "TLL", "TPE")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"airportCodes":["TLL","HEL","TPE"]`)
	assert.Contains(t, w.Body.String(), `km"`)
}

func TestEndToEnd_ICAO(t *testing.T) {
	w := get(newEndToEndRouter(t), "icao", "EETN", "RCTP")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"airportCodes":["EETN","EFHK","RCTP"]`)
}

func TestEndToEnd_Reverse(t *testing.T) {
	w := get(newEndToEndRouter(t), "iata", "TPE", "TLL")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Unable to find path from-TPE to-TLL"}`, w.Body.String())
}

func TestEndToEnd_SecondaryOnlyAirport(t *testing.T) {
	// PAWS has no primary code, so it cannot be translated.
	w := get(newEndToEndRouter(t), "icao", "PAWS", "EETN")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Could not find airport-PAWS"}`, w.Body.String())
}
