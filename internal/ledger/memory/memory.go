// Package memory holds an in-memory ledger store, used by tests and by the
// memory data backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Adnan1921/radnja-tracker/internal/core"
)

const findByDateCap = 500

// Store keeps sale records in memory. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]core.Sale
	order []string // insertion order, oldest first
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{byID: make(map[string]core.Sale)}
}

func (s *Store) Insert(_ context.Context, sale core.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[sale.ID]; exists {
		return core.WrapStorage("insert sale", fmt.Errorf("duplicate id %s", sale.ID))
	}
	s.byID[sale.ID] = sale
	s.order = append(s.order, sale.ID)
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (core.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, ok := s.byID[id]
	if !ok {
		return core.Sale{}, core.ErrSaleNotFound
	}
	return sale.Normalize(), nil
}

func (s *Store) FindByDate(_ context.Context, date, owner string) ([]core.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Sale
	for i := len(s.order) - 1; i >= 0 && len(out) < findByDateCap; i-- {
		sale := s.byID[s.order[i]]
		if sale.Date != date {
			continue
		}
		if owner != "" && sale.RecordedBy != owner {
			continue
		}
		out = append(out, sale.Normalize())
	}
	return out, nil
}

func (s *Store) FindByMonth(_ context.Context, year, month int, owner string) ([]core.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	var out []core.Sale
	for _, id := range s.order {
		sale := s.byID[id]
		if len(sale.Date) < len(prefix) || sale.Date[:len(prefix)] != prefix {
			continue
		}
		if owner != "" && sale.RecordedBy != owner {
			continue
		}
		out = append(out, sale.Normalize())
	}
	return out, nil
}

func (s *Store) DeleteByID(_ context.Context, id, owner string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	if owner != "" && sale.RecordedBy != owner {
		return false, nil
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
