// Package transform holds small pure normalization helpers for geographic codes.
package transform

import "strings"

// NormalizeFIPSState normalizes a state FIPS code to 2 digits with zero-padding.
func NormalizeFIPSState(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if len(code) == 1 {
		return "0" + code
	}
	return code
}

// NormalizeFIPSCounty normalizes a county FIPS code to 3 digits with zero-padding.
func NormalizeFIPSCounty(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	for len(code) < 3 {
		code = "0" + code
	}
	return code
}

// CombineFIPS combines state and county FIPS codes into a 5-digit code.
func CombineFIPS(state, county string) string {
	s := NormalizeFIPSState(state)
	c := NormalizeFIPSCounty(county)
	if s == "" || c == "" {
		return ""
	}
	return s + c
}

// FIPSFromGeoID extracts the 5-digit county FIPS from a long-form GEO_ID
// such as "0500000US06037". Returns "" if the value is too short.
func FIPSFromGeoID(geoID string) string {
	geoID = strings.TrimSpace(geoID)
	if len(geoID) < 5 {
		return ""
	}
	return geoID[len(geoID)-5:]
}
