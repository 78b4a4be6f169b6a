// Package ledger orchestrates the sales ledger: it validates input, writes
// records through a Store, applies the access policy to every read and
// delete, and feeds the aggregation engine.
package ledger

import (
	"context"

	"github.com/Adnan1921/radnja-tracker/internal/core"
)

// FindByDateCap bounds the number of rows a single-day listing returns.
// Callers must not assume completeness beyond the cap.
const FindByDateCap = 500

// Store is the persistence contract for sale records. Implementations are
// per-record atomic; no cross-record transactions are needed because every
// sale is self-contained.
type Store interface {
	// Insert persists a fully validated sale. It fails only on
	// storage-layer errors.
	Insert(ctx context.Context, s core.Sale) error

	// GetByID returns a single sale or core.ErrSaleNotFound.
	GetByID(ctx context.Context, id string) (core.Sale, error)

	// FindByDate returns the sales of one date, newest first, capped at
	// FindByDateCap rows. An empty owner means unrestricted.
	FindByDate(ctx context.Context, date, owner string) ([]core.Sale, error)

	// FindByMonth returns all sales whose date falls in the given
	// year-month. Internal ordering is unspecified.
	FindByMonth(ctx context.Context, year, month int, owner string) ([]core.Sale, error)

	// DeleteByID removes the record only if it exists and, when owner is
	// set, belongs to that owner. The returned bool is the only signal
	// distinguishing "removed" from "not found / not yours".
	DeleteByID(ctx context.Context, id, owner string) (deleted bool, err error)
}

// Publisher emits ledger events for the backup pipeline. Publish failures
// are logged and never fail the originating request.
type Publisher interface {
	PublishSaleRecorded(ctx context.Context, saleID string) error
	PublishSaleDeleted(ctx context.Context, saleID, date, itemName, recordedBy string, totalCents int64) error
}
