package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/countymap/internal/census"
)

// csvHeader matches the flat artifact's column order.
var csvHeader = []string{"FIPS", "NAME", "population", "population_formatted", "log_pop", "quantile"}

// WriteGeoJSON writes the enriched feature collection, replacing any
// existing file.
func WriteGeoJSON(path string, fc *geojson.FeatureCollection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "persist: create output dir")
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return eris.Wrap(err, "persist: marshal GeoJSON")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "persist: write GeoJSON file")
	}

	return nil
}

// WriteCSV writes the flat tabular artifact, one row per cleaned county,
// replacing any existing file.
func WriteCSV(path string, records []census.Record, attrs map[string]Attributes) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "persist: create output dir")
	}

	file, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "persist: create CSV file")
	}
	defer file.Close() //nolint:errcheck

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return eris.Wrap(err, "persist: write CSV header")
	}

	for _, r := range records {
		a := attrs[r.FIPS]
		row := []string{
			r.FIPS,
			r.Name,
			strconv.Itoa(a.Population),
			a.Formatted,
			strconv.FormatFloat(a.LogPop, 'f', 4, 64),
			strconv.FormatFloat(a.Quantile, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "persist: write CSV row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "persist: flush CSV")
	}

	return nil
}
