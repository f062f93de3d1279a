// Package choropleth computes the visual encodings for the county map:
// log-scaled extrusion magnitude, percentile rank, and the fill color ramp.
// Everything here is a pure function so reruns over identical input produce
// identical derived fields.
package choropleth

import (
	"math"
	"sort"
)

// LogMagnitude returns log10(population + 1), compressing the
// multi-order-of-magnitude population range for extrusion height.
func LogMagnitude(population int) float64 {
	return math.Log10(float64(population) + 1)
}

// PercentileRanks returns the fractional percentile rank of each value,
// average rank for ties, normalized so results land in (0, 1].
func PercentileRanks(values []int) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, n)
	for lo := 0; lo < n; {
		hi := lo
		for hi+1 < n && values[order[hi+1]] == values[order[lo]] {
			hi++
		}
		// Average of the 1-based positions lo+1..hi+1.
		avg := float64(lo+hi+2) / 2
		for i := lo; i <= hi; i++ {
			ranks[order[i]] = avg / float64(n)
		}
		lo = hi + 1
	}

	return ranks
}

// Color maps a percentile rank in [0, 1] to an RGBA fill color along a
// blue -> cyan -> green -> yellow -> red ramp. The bands are an explicit
// piecewise table with truncating integer conversion so output is
// bit-identical to the reference artifact.
func Color(t float64) [4]int {
	var r, g, b int
	switch {
	case t < 0.25:
		s := t / 0.25
		r, g, b = 30, int(60+140*s), int(150+105*s)
	case t < 0.5:
		s := (t - 0.25) / 0.25
		r, g, b = int(30+100*s), int(200+55*s), int(255-100*s)
	case t < 0.75:
		s := (t - 0.5) / 0.25
		r, g, b = int(130+125*s), int(255-55*s), int(155-105*s)
	default:
		s := (t - 0.75) / 0.25
		r, g, b = 255, int(200-130*s), int(50-50*s)
	}
	return [4]int{r, g, b, 200}
}

// Round4 rounds to 4 decimal places, the precision persisted in artifacts.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
