// Package backend selects the persistence backend from configuration. The
// sqlite backend holds both the ledger and the staff accounts; the memory
// backend keeps everything in process, for development and tests.
package backend

import (
	"fmt"

	"github.com/Adnan1921/radnja-tracker/internal/auth"
	"github.com/Adnan1921/radnja-tracker/internal/config"
	"github.com/Adnan1921/radnja-tracker/internal/ledger"
	ledgermem "github.com/Adnan1921/radnja-tracker/internal/ledger/memory"
	"github.com/Adnan1921/radnja-tracker/internal/storage"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result bundles the stores a backend provides.
type Result struct {
	Sales   ledger.Store
	Users   auth.UserStore
	Cleanup CleanupFunc
}

// New builds the stores for the configured DATA_BACKEND.
func New(cfg *config.Config) (*Result, error) {
	switch cfg.DataBackend {
	case "sqlite":
		db, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		return &Result{Sales: db, Users: db, Cleanup: db.Close}, nil
	case "memory":
		return &Result{
			Sales:   ledgermem.NewStore(),
			Users:   auth.NewMemoryStore(),
			Cleanup: func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
