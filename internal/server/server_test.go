package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/countymap/internal/config"
)

const testArtifact = `{
	"type": "FeatureCollection",
	"features": [{
		"type": "Feature",
		"id": "06037",
		"properties": {
			"population": 10000000,
			"population_formatted": "10,000,000",
			"log_pop": 7.0,
			"quantile": 1.0,
			"fill_color": [255, 70, 0, 200],
			"county_name": "Los Angeles County, California",
			"fips": "06037"
		},
		"geometry": {"type": "Polygon", "coordinates": [[[-118.9,33.7],[-117.6,33.7],[-117.6,34.8],[-118.9,34.8],[-118.9,33.7]]]}
	}]
}`

func testViewerConfig() config.ViewerConfig {
	return config.ViewerConfig{
		ElevationScaleMin:     1000,
		ElevationScaleMax:     80000,
		ElevationScaleDefault: 20000,
		ElevationScaleStep:    1000,
		PitchMin:              0,
		PitchMax:              60,
		PitchDefault:          45,
		PitchStep:             5,
		OpacityMin:            0.1,
		OpacityMax:            1.0,
		OpacityDefault:        0.85,
		OpacityStep:           0.05,
		MapStyleDefault:       "dark",
		WireframeDefault:      true,
	}
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counties.geojson")
	require.NoError(t, os.WriteFile(path, []byte(testArtifact), 0o644))
	return New(path, testViewerConfig()), path
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv.Router(), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestIndexPage(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv.Router(), "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "deck.gl")
	assert.Contains(t, rec.Body.String(), "US County Population")
}

func TestCountiesServesArtifact(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv.Router(), "/api/counties.geojson")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, testArtifact, rec.Body.String())
}

func TestCountiesCachedAfterFirstLoad(t *testing.T) {
	srv, path := newTestServer(t)
	router := srv.Router()

	first := get(t, router, "/api/counties.geojson")
	require.Equal(t, http.StatusOK, first.Code)

	// Rewriting the file must not affect the session's cached copy.
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644))

	second := get(t, router, "/api/counties.geojson")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestCountiesMissingArtifact(t *testing.T) {
	srv := New(filepath.Join(t.TempDir(), "nope.geojson"), testViewerConfig())
	rec := get(t, srv.Router(), "/api/counties.geojson")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCountiesCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counties.geojson")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	srv := New(path, testViewerConfig())
	rec := get(t, srv.Router(), "/api/counties.geojson")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCountiesEmptyArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counties.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644))

	srv := New(path, testViewerConfig())
	rec := get(t, srv.Router(), "/api/counties.geojson")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLoadFailureIsCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counties.geojson")
	srv := New(path, testViewerConfig())
	router := srv.Router()

	rec := get(t, router, "/api/counties.geojson")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Creating the artifact after the failed load does not revive the
	// session; the failure is cached until restart.
	require.NoError(t, os.WriteFile(path, []byte(testArtifact), 0o644))
	rec = get(t, router, "/api/counties.geojson")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestViewConfig(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv.Router(), "/api/viewconfig")

	require.Equal(t, http.StatusOK, rec.Code)

	var cfg viewConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))

	assert.Equal(t, 1000.0, cfg.ElevationScale.Min)
	assert.Equal(t, 80000.0, cfg.ElevationScale.Max)
	assert.Equal(t, 20000.0, cfg.ElevationScale.Default)
	assert.Equal(t, 45.0, cfg.Pitch.Default)
	assert.InDelta(t, 0.85, cfg.Opacity.Default, 0.001)
	assert.Equal(t, []string{"dark", "light", "satellite", "road"}, cfg.MapStyles)
	assert.Equal(t, "dark", cfg.MapStyle)
	assert.True(t, cfg.Wireframe)
	assert.InDelta(t, 38.5, cfg.InitialView.Latitude, 0.001)
	assert.InDelta(t, -96.0, cfg.InitialView.Longitude, 0.001)
	assert.InDelta(t, 3.8, cfg.InitialView.Zoom, 0.001)
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/viewconfig", nil)
	req.Header.Set("Origin", "http://example.com")
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
