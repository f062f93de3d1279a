// Package server hosts the 3D county map viewer: an embedded deck.gl page,
// the prepared GeoJSON artifact, and the control bounds the page renders.
package server

import (
	"embed"
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/countymap/internal/config"
)

//go:embed index.html
var assets embed.FS

// MapStyles is the fixed set of base map styles the viewer offers.
var MapStyles = []string{"dark", "light", "satellite", "road"}

// Server serves the viewer page and the prepared artifact. The artifact is
// loaded lazily on first use and cached for the server's lifetime; a load
// failure is cached too, so a missing artifact fails every data request
// rather than rendering a partial map.
type Server struct {
	artifactPath string
	viewer       config.ViewerConfig

	loadOnce sync.Once
	artifact []byte
	loadErr  error
}

// New creates a viewer server for the given artifact path.
func New(artifactPath string, viewer config.ViewerConfig) *Server {
	return &Server{
		artifactPath: artifactPath,
		viewer:       viewer,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/api/counties.geojson", s.handleCounties)
	r.Get("/api/viewconfig", s.handleViewConfig)

	return r
}

// Artifact returns the cached artifact bytes, loading and validating them
// on first call.
func (s *Server) Artifact() ([]byte, error) {
	s.loadOnce.Do(func() {
		data, err := os.ReadFile(s.artifactPath)
		if err != nil {
			s.loadErr = eris.Wrapf(err, "server: read artifact %s (run `countymap prepare` first)", s.artifactPath)
			return
		}

		var fc geojson.FeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			s.loadErr = eris.Wrapf(err, "server: artifact %s is not a valid feature collection", s.artifactPath)
			return
		}
		if len(fc.Features) == 0 {
			s.loadErr = eris.Errorf("server: artifact %s has no features", s.artifactPath)
			return
		}

		zap.L().Info("artifact loaded",
			zap.String("path", s.artifactPath),
			zap.Int("features", len(fc.Features)),
			zap.Int("bytes", len(data)),
		)
		s.artifact = data
	})
	return s.artifact, s.loadErr
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := assets.ReadFile("index.html")
	if err != nil {
		http.Error(w, "viewer page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleCounties(w http.ResponseWriter, _ *http.Request) {
	data, err := s.Artifact()
	if err != nil {
		zap.L().Error("artifact load failed", zap.Error(err))
		http.Error(w, `{"error":"artifact unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

// viewConfig is the JSON shape the page reads to build its sidebar.
type viewConfig struct {
	ElevationScale sliderConfig `json:"elevationScale"`
	Pitch          sliderConfig `json:"pitch"`
	Opacity        sliderConfig `json:"opacity"`
	MapStyles      []string     `json:"mapStyles"`
	MapStyle       string       `json:"mapStyle"`
	Wireframe      bool         `json:"wireframe"`
	InitialView    initialView  `json:"initialView"`
}

type sliderConfig struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

type initialView struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	MinZoom   float64 `json:"minZoom"`
	MaxZoom   float64 `json:"maxZoom"`
}

func (s *Server) handleViewConfig(w http.ResponseWriter, _ *http.Request) {
	v := s.viewer
	cfg := viewConfig{
		ElevationScale: sliderConfig{
			Min:     float64(v.ElevationScaleMin),
			Max:     float64(v.ElevationScaleMax),
			Default: float64(v.ElevationScaleDefault),
			Step:    float64(v.ElevationScaleStep),
		},
		Pitch: sliderConfig{
			Min:     float64(v.PitchMin),
			Max:     float64(v.PitchMax),
			Default: float64(v.PitchDefault),
			Step:    float64(v.PitchStep),
		},
		Opacity: sliderConfig{
			Min:     v.OpacityMin,
			Max:     v.OpacityMax,
			Default: v.OpacityDefault,
			Step:    v.OpacityStep,
		},
		MapStyles:   MapStyles,
		MapStyle:    v.MapStyleDefault,
		Wireframe:   v.WireframeDefault,
		InitialView: initialView{Latitude: 38.5, Longitude: -96.0, Zoom: 3.8, MinZoom: 2, MaxZoom: 15},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(cfg)
}
