// Package boundary fetches the US county boundary GeoJSON collection.
package boundary

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/countymap/internal/fetcher"
	"github.com/sells-group/countymap/internal/transform"
)

// Fetch downloads and decodes the county boundary FeatureCollection.
// Geometry is carried through unchanged; no reprojection or simplification.
func Fetch(ctx context.Context, f fetcher.Fetcher, url string) (*geojson.FeatureCollection, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: download")
	}
	defer body.Close() //nolint:errcheck

	fc, err := fetcher.DecodeJSONObject[geojson.FeatureCollection](body)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: decode GeoJSON")
	}

	if len(fc.Features) == 0 {
		return nil, eris.New("boundary: collection has no features")
	}

	zap.L().Info("county boundaries loaded", zap.Int("features", len(fc.Features)))

	return fc, nil
}

// FIPS resolves a feature's 5-digit county FIPS code. The upstream file
// carries it as the feature ID; older vintages only carry a long-form
// GEO_ID property, so that is the fallback. Returns "" if neither resolves.
func FIPS(f *geojson.Feature) string {
	if len(f.ID) == 5 {
		return f.ID
	}
	if geoID, ok := f.Properties["GEO_ID"].(string); ok {
		return transform.FIPSFromGeoID(geoID)
	}
	return ""
}
