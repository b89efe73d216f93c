package ingest

import (
	"github.com/gocarina/gocsv"

	"forex-journal/internal/types"
)

// ExportCSV renders canonical trades back out as a comma-separated export
// using the standard MT4-style header names, so an export round-trips through
// ParseCSV unchanged.
func ExportCSV(trades []types.Trade) (string, error) {
	return gocsv.MarshalString(&trades)
}
