package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/countymap/internal/fetcher"
	"github.com/sells-group/countymap/internal/pipeline"
)

var (
	prepareGeoJSONOut string
	prepareCSVOut     string
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Fetch, join, and persist the county population artifacts",
	Long:  "Downloads county boundaries and ACS population data, computes derived fields, joins on FIPS, and overwrites the GeoJSON and CSV artifacts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("prepare"); err != nil {
			return err
		}

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:    cfg.Fetch.UserAgent,
			Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			RateLimiters: fetcher.DefaultRateLimiters(),
		})

		geoJSONPath := prepareGeoJSONOut
		if geoJSONPath == "" {
			geoJSONPath = cfg.Output.GeoJSONPath
		}
		csvPath := prepareCSVOut
		if csvPath == "" {
			csvPath = cfg.Output.CSVPath
		}

		p := pipeline.New(f, pipeline.Options{
			BoundariesURL: cfg.Sources.BoundariesURL,
			CensusURL:     cfg.Sources.CensusURL,
			GeoJSONPath:   geoJSONPath,
			CSVPath:       csvPath,
		})

		result, err := p.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "prepare")
		}

		zap.L().Info("prepare complete",
			zap.Int("counties", result.Counties),
			zap.Int("matched", result.Matched),
			zap.String("geojson", result.GeoJSONPath),
			zap.String("csv", result.CSVPath),
		)

		return nil
	},
}

func init() {
	prepareCmd.Flags().StringVar(&prepareGeoJSONOut, "geojson-out", "", "GeoJSON artifact path (default from config)")
	prepareCmd.Flags().StringVar(&prepareCSVOut, "csv-out", "", "CSV artifact path (default from config)")
	rootCmd.AddCommand(prepareCmd)
}
