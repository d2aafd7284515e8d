// Package catalog keeps the persisted product catalog in step with the farm spreadsheet.
//
// A SheetReader parses rows from the sheet, a FreshnessCache keeps the last parsed snapshot
// for a short TTL, and the Reconciler upserts that snapshot into the products table,
// zeroing the quantity of products that disappeared from the sheet.
package catalog

import (
	"context"
	"time"

	"github.com/willowtrellis/farmstand-api/internal/domain/catalog"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
)

// RowFetcher returns the raw cell values of a sheet range, one slice per row.
type RowFetcher interface {
	FetchRows(ctx context.Context, rng string) ([][]string, error)
}

// RecordSource produces the current list of valid catalog records.
type RecordSource interface {
	Read(ctx context.Context) ([]catalog.Record, error)
}

// Snapshot is the cached result of one successful sheet read.
type Snapshot struct {
	Records   []catalog.Record `json:"records"`
	FetchedAt time.Time        `json:"fetchedAt"`
}

// SnapshotStore keeps one snapshot per catalog kind.
// Load reports ok=false when nothing is stored for kind.
type SnapshotStore interface {
	Load(ctx context.Context, kind entity.CatalogKind) (snap Snapshot, ok bool, err error)
	Save(ctx context.Context, kind entity.CatalogKind, snap Snapshot) error
	Reset(ctx context.Context, kind entity.CatalogKind) error
}

// TxRunner runs fn inside a database transaction with a repository bound to it.
// An error returned by fn rolls the transaction back.
type TxRunner interface {
	Run(ctx context.Context, fn func(products repository.ProductRepository) error) error
}
