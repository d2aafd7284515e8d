package catalog

import (
	"context"

	"github.com/willowtrellis/farmstand-api/internal/domain/catalog"
)

var _ RecordSource = (*SheetReader)(nil)

// SheetReader reads one spreadsheet range and parses it into valid records.
type SheetReader struct {
	fetcher RowFetcher
	rng     string
}

// NewSheetReader builds a reader for the given A1 range (e.g. "Produce!A2:F1000").
func NewSheetReader(fetcher RowFetcher, rng string) *SheetReader {
	return &SheetReader{fetcher: fetcher, rng: rng}
}

// Read fetches the range and returns the rows with a name and a positive price, in sheet order.
// Upstream failures come back as *catalog.TransportError.
func (r *SheetReader) Read(ctx context.Context) ([]catalog.Record, error) {
	rows, err := r.fetcher.FetchRows(ctx, r.rng)
	if err != nil {
		return nil, &catalog.TransportError{Range: r.rng, Err: err}
	}
	return catalog.ParseRows(rows), nil
}

// Range returns the configured sheet range.
func (r *SheetReader) Range() string {
	return r.rng
}
