package pipeline

import (
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/countymap/internal/boundary"
)

// Join attaches the derived attribute bundle to every boundary feature
// whose FIPS has a population record. Features without a match are dropped
// from the output entirely; the FIPS code is the sole join key.
func Join(fc *geojson.FeatureCollection, attrs map[string]Attributes) *geojson.FeatureCollection {
	matched := make([]*geojson.Feature, 0, len(fc.Features))

	for _, f := range fc.Features {
		fips := boundary.FIPS(f)
		a, ok := attrs[fips]
		if !ok {
			continue
		}

		if f.Properties == nil {
			f.Properties = make(map[string]interface{}, 7)
		}
		f.Properties["population"] = a.Population
		f.Properties["population_formatted"] = a.Formatted
		f.Properties["log_pop"] = a.LogPop
		f.Properties["quantile"] = a.Quantile
		f.Properties["fill_color"] = a.FillColor
		f.Properties["county_name"] = a.Name
		f.Properties["fips"] = fips

		matched = append(matched, f)
	}

	return &geojson.FeatureCollection{Features: matched}
}
