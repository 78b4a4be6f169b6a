// Package memory is an in-process journal used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"github.com/Adnan1921/radnja-tracker/internal/backup"
	"github.com/Adnan1921/radnja-tracker/internal/core"
)

type Journal struct {
	mu        sync.Mutex
	sales     []core.Sale
	reversals []backup.Reversal
	failWith  error
}

var _ backup.JournalWriter = (*Journal)(nil)

func New() *Journal {
	return &Journal{}
}

func (j *Journal) AppendSale(_ context.Context, s core.Sale) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failWith != nil {
		return j.failWith
	}
	j.sales = append(j.sales, s)
	return nil
}

func (j *Journal) AppendReversal(_ context.Context, r backup.Reversal) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failWith != nil {
		return j.failWith
	}
	j.reversals = append(j.reversals, r)
	return nil
}

// FailWith makes every append return err until reset with nil.
func (j *Journal) FailWith(err error) {
	j.mu.Lock()
	j.failWith = err
	j.mu.Unlock()
}

// Sales returns a copy of the appended sale rows.
func (j *Journal) Sales() []core.Sale {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]core.Sale(nil), j.sales...)
}

// Reversals returns a copy of the appended reversal rows.
func (j *Journal) Reversals() []backup.Reversal {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]backup.Reversal(nil), j.reversals...)
}
