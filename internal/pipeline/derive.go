package pipeline

import (
	"github.com/sells-group/countymap/internal/census"
	"github.com/sells-group/countymap/internal/choropleth"
)

// Attributes is the per-county bundle attached to each output feature.
type Attributes struct {
	Population int
	Formatted  string
	LogPop     float64
	Quantile   float64
	FillColor  [4]int
	Name       string
}

// Derive computes the immutable derived fields for every cleaned record
// and returns them keyed by FIPS. LogPop and Quantile are rounded to
// 4 decimal places, the precision persisted in the artifacts.
func Derive(records []census.Record) map[string]Attributes {
	pops := make([]int, len(records))
	for i, r := range records {
		pops[i] = r.Population
	}
	ranks := choropleth.PercentileRanks(pops)

	attrs := make(map[string]Attributes, len(records))
	for i, r := range records {
		attrs[r.FIPS] = Attributes{
			Population: r.Population,
			Formatted:  r.Formatted(),
			LogPop:     choropleth.Round4(choropleth.LogMagnitude(r.Population)),
			Quantile:   choropleth.Round4(ranks[i]),
			FillColor:  choropleth.Color(ranks[i]),
			Name:       r.Name,
		}
	}
	return attrs
}
