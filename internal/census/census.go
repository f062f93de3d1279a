// Package census fetches and cleans county population data from the
// Census Bureau ACS API.
package census

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/countymap/internal/fetcher"
	"github.com/sells-group/countymap/internal/transform"
)

// Record is one county's population row after cleaning.
type Record struct {
	FIPS       string
	Name       string
	Population int
}

// Formatted returns the population with thousands separators, for tooltips.
func (r Record) Formatted() string {
	return message.NewPrinter(language.English).Sprintf("%d", r.Population)
}

// Fetch downloads the ACS response from url and returns cleaned records.
// The API returns a JSON array of string arrays where the first row is the
// header. Rows with a non-numeric or non-positive population are dropped;
// this is also what filters out the -666666666 "no data" sentinel.
func Fetch(ctx context.Context, f fetcher.Fetcher, url string) ([]Record, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "census: download")
	}
	defer body.Close() //nolint:errcheck

	raw, err := fetcher.DecodeJSONObject[[][]string](body)
	if err != nil {
		return nil, eris.Wrap(err, "census: decode response")
	}

	return Parse(*raw)
}

// Parse converts the raw header-row table into cleaned records.
func Parse(rows [][]string) ([]Record, error) {
	if len(rows) < 2 {
		return nil, eris.New("census: response has no data rows")
	}

	colIdx := mapColumns(rows[0])
	for _, col := range []string{"name", "b01003_001e", "state", "county"} {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("census: missing column %q in response header", col)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	var dropped int
	for _, row := range rows[1:] {
		pop, err := strconv.Atoi(strings.TrimSpace(getCol(row, colIdx, "b01003_001e")))
		if err != nil || pop <= 0 {
			dropped++
			continue
		}

		fips := transform.CombineFIPS(getCol(row, colIdx, "state"), getCol(row, colIdx, "county"))
		if fips == "" {
			dropped++
			continue
		}

		records = append(records, Record{
			FIPS:       fips,
			Name:       getCol(row, colIdx, "name"),
			Population: pop,
		})
	}

	if len(records) == 0 {
		return nil, eris.New("census: no rows survived cleaning")
	}

	zap.L().Info("census data cleaned",
		zap.Int("kept", len(records)),
		zap.Int("dropped", dropped),
	)

	return records, nil
}

// mapColumns builds a case-insensitive column name to index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// getCol gets a column value by name, returning empty string if not found.
func getCol(row []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
