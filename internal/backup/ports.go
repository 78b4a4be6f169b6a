// Package backup defines the outbound ports of the backup pipeline: an
// append-only journal that mirrors every ledger mutation outside the shop.
package backup

import (
	"context"

	"github.com/Adnan1921/radnja-tracker/internal/core"
)

// Ports for outbound adapters.
type (
	// JournalWriter appends ledger mutations to the backup journal. The
	// journal is append-only: deletions become reversal rows, never
	// removed rows.
	JournalWriter interface {
		AppendSale(ctx context.Context, s core.Sale) error
		AppendReversal(ctx context.Context, r Reversal) error
	}
)

// Reversal is the journal entry written when a sale is deleted. Total is
// the original amount; the journal row carries it negated.
type Reversal struct {
	SaleID     string
	Date       string
	ItemName   string
	RecordedBy string
	Total      core.Money
}
