package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAirports = `415,"Lennart Meri Tallinn Airport","Tallinn-ulemiste International","Estonia","TLL","EETN",59.41329956049999,24.832799911499997,131,2,"E","Europe/Tallinn","airport","OurAirports"
609,"Kastrup Airport","Copenhagen","Denmark","CPH","EKCH",55.617900848389,12.656000137329,17,1,"E","Europe/Copenhagen","airport","OurAirports"
5562,"Wasilla Airport","Wasilla","United States",\N,"PAWS",61.5717010498,-149.539993286,354,-9,"A","America/Anchorage","airport","OurAirports"
9999,"Broken, Airport","Nowhere","Nowhere","tll","EE1",not-a-number,,0,0,"U","\N","airport","OurAirports"
short,row
`

const sampleRoutes = `2B,410,AER,2965,KZN,2990,,0,CR2
2B,410,ASF,2966,KZN,2990,,0,CR2
2B,410,ASF,2966,KZN,2990,,0,CR2
2B,410,\N,2966,MRV,2962,,0,CR2
too,short
`

func TestNormalizeCodes(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		primary   string
		secondary string
	}{
		{"quoted primary", `"TLL"`, "TLL", ""},
		{"quoted secondary", `"EETN"`, "", "EETN"},
		{"lowercase rejected", "tll", "", ""},
		{"digits rejected", "T1L", "", ""},
		{"null marker", `\N`, "", ""},
		{"padded", "  CPH ", "CPH", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.primary, NormalizePrimaryCode(tt.raw))
			assert.Equal(t, tt.secondary, NormalizeSecondaryCode(tt.raw))
		})
	}
}

func TestParseAirports(t *testing.T) {
	airports, err := ParseAirports(strings.NewReader(sampleAirports))
	require.NoError(t, err)
	require.Len(t, airports, 4)

	assert.Equal(t, "TLL", airports[0].PrimaryCode)
	assert.Equal(t, "EETN", airports[0].SecondaryCode)
	assert.InDelta(t, 59.4133, airports[0].Latitude, 0.0001)
	assert.InDelta(t, 24.8328, airports[0].Longitude, 0.0001)

	assert.Equal(t, "", airports[2].PrimaryCode, "\\N is not a primary code")
	assert.Equal(t, "PAWS", airports[2].SecondaryCode)

	assert.Equal(t, "", airports[3].PrimaryCode)
	assert.Equal(t, "", airports[3].SecondaryCode)
	assert.Zero(t, airports[3].Latitude)
	assert.Zero(t, airports[3].Longitude)
}

func TestParseRoutes_KeepsDuplicates(t *testing.T) {
	routes, err := ParseRoutes(strings.NewReader(sampleRoutes))
	require.NoError(t, err)

	assert.Equal(t, []Route{
		{Source: "AER", Destination: "KZN"},
		{Source: "ASF", Destination: "KZN"},
		{Source: "ASF", Destination: "KZN"},
	}, routes)
}

func TestFileSource_LocalFiles(t *testing.T) {
	dir := t.TempDir()
	airportsPath := filepath.Join(dir, "airports.dat")
	routesPath := filepath.Join(dir, "routes.dat")
	require.NoError(t, os.WriteFile(airportsPath, []byte(sampleAirports), 0o644))
	require.NoError(t, os.WriteFile(routesPath, []byte(sampleRoutes), 0o644))

	src := NewFileSource(airportsPath, routesPath, time.Second)
	ctx := context.Background()

	airports, err := src.Airports(ctx)
	require.NoError(t, err)
	assert.Len(t, airports, 4)

	routes, err := src.Routes(ctx)
	require.NoError(t, err)
	assert.Len(t, routes, 3)
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.dat"), "", time.Second)

	_, err := src.Airports(context.Background())
	assert.Error(t, err)

	_, err = src.Routes(context.Background())
	assert.Error(t, err)
}

func TestFileSource_Download(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/airports.dat":
			_, _ = w.Write([]byte(sampleAirports))
		case "/routes.dat":
			_, _ = w.Write([]byte(sampleRoutes))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	src := NewFileSource(server.URL+"/airports.dat", server.URL+"/routes.dat", time.Second)
	ctx := context.Background()

	airports, err := src.Airports(ctx)
	require.NoError(t, err)
	assert.Len(t, airports, 4)

	routes, err := src.Routes(ctx)
	require.NoError(t, err)
	assert.Len(t, routes, 3)

	missing := NewFileSource(server.URL+"/missing.dat", "", time.Second)
	_, err = missing.Airports(ctx)
	assert.Error(t, err)
}
