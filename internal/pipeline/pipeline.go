// Package pipeline runs the one-shot data preparation: fetch county
// boundaries and ACS population data, derive visual encodings, join on
// FIPS, and persist the GeoJSON and CSV artifacts.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/countymap/internal/boundary"
	"github.com/sells-group/countymap/internal/census"
	"github.com/sells-group/countymap/internal/fetcher"
)

// Options configures a preparation run.
type Options struct {
	BoundariesURL string
	CensusURL     string
	GeoJSONPath   string
	CSVPath       string
}

// Pipeline orchestrates the preparation steps.
type Pipeline struct {
	fetcher fetcher.Fetcher
	opts    Options
}

// Result summarizes a completed preparation run.
type Result struct {
	Counties    int // cleaned census records
	Matched     int // features in the output collection
	GeoJSONPath string
	CSVPath     string
}

// New creates a new preparation pipeline.
func New(f fetcher.Fetcher, opts Options) *Pipeline {
	return &Pipeline{fetcher: f, opts: opts}
}

// Run executes the full preparation. Any fetch, parse, or write error is
// returned as-is; there is no partial-output mode. Both artifacts are full
// overwrites of whatever was there before.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := zap.L().With(zap.String("component", "pipeline"))

	log.Info("downloading county boundaries", zap.String("url", p.opts.BoundariesURL))
	fc, err := boundary.Fetch(ctx, p.fetcher, p.opts.BoundariesURL)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch boundaries")
	}

	log.Info("fetching population data", zap.String("url", p.opts.CensusURL))
	records, err := census.Fetch(ctx, p.fetcher, p.opts.CensusURL)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch census")
	}
	logPopulationSummary(log, records)

	log.Info("computing derived fields")
	attrs := Derive(records)

	log.Info("merging attributes into boundaries")
	matched := Join(fc, attrs)
	if len(matched.Features) == 0 {
		return nil, eris.New("pipeline: no boundary features matched a population record")
	}
	log.Info("counties matched", zap.Int("count", len(matched.Features)))

	if err := WriteGeoJSON(p.opts.GeoJSONPath, matched); err != nil {
		return nil, eris.Wrap(err, "pipeline: write GeoJSON artifact")
	}
	if err := WriteCSV(p.opts.CSVPath, records, attrs); err != nil {
		return nil, eris.Wrap(err, "pipeline: write CSV artifact")
	}

	log.Info("preparation complete",
		zap.String("geojson", p.opts.GeoJSONPath),
		zap.String("csv", p.opts.CSVPath),
	)

	return &Result{
		Counties:    len(records),
		Matched:     len(matched.Features),
		GeoJSONPath: p.opts.GeoJSONPath,
		CSVPath:     p.opts.CSVPath,
	}, nil
}

func logPopulationSummary(log *zap.Logger, records []census.Record) {
	if len(records) == 0 {
		return
	}
	min, max := records[0].Population, records[0].Population
	for _, r := range records[1:] {
		if r.Population < min {
			min = r.Population
		}
		if r.Population > max {
			max = r.Population
		}
	}
	log.Info("population data cleaned",
		zap.Int("counties", len(records)),
		zap.Int("min", min),
		zap.Int("max", max),
	)
}
