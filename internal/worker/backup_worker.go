// Package worker mirrors ledger mutations into the backup journal. Events
// arrive over AMQP; a periodic pending scan catches anything the broker lost.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Adnan1921/radnja-tracker/internal/amqp"
	"github.com/Adnan1921/radnja-tracker/internal/backup"
	"github.com/Adnan1921/radnja-tracker/internal/core"
	applog "github.com/Adnan1921/radnja-tracker/internal/log"
)

// SaleSource is the slice of the store the worker needs: reading sales and
// tracking their backup state.
type SaleSource interface {
	GetByID(ctx context.Context, id string) (core.Sale, error)
	GetPendingBackup(ctx context.Context, limit int) ([]core.Sale, error)
	MarkBackedUp(ctx context.Context, id string) error
	MarkBackupError(ctx context.Context, id, message string) error
}

// BackupWorker consumes sale events and writes them to the journal.
type BackupWorker struct {
	store     SaleSource
	journal   backup.JournalWriter
	batchSize int
}

func NewBackupWorker(store SaleSource, journal backup.JournalWriter, batchSize int) *BackupWorker {
	return &BackupWorker{
		store:     store,
		journal:   journal,
		batchSize: batchSize,
	}
}

// HandleEvent dispatches one AMQP message by kind.
func (w *BackupWorker) HandleEvent(ctx context.Context, msg *amqp.SaleEventMessage) error {
	switch msg.Kind {
	case amqp.KindSaleRecorded:
		return w.handleRecorded(ctx, msg.SaleID)
	case amqp.KindSaleDeleted:
		return w.handleDeleted(ctx, msg)
	default:
		slog.WarnContext(ctx, "Dropping sale event of unknown kind", "kind", msg.Kind, applog.FieldSaleID, msg.SaleID)
		return nil
	}
}

func (w *BackupWorker) handleRecorded(ctx context.Context, saleID string) error {
	sale, err := w.store.GetByID(ctx, saleID)
	if errors.Is(err, core.ErrSaleNotFound) {
		// Deleted before the event was processed; the delete event will
		// not find a journal row to reverse either, so drop it.
		slog.WarnContext(ctx, "Sale vanished before backup", applog.FieldSaleID, saleID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get sale from storage: %w", err)
	}

	return w.backupSale(ctx, sale)
}

func (w *BackupWorker) handleDeleted(ctx context.Context, msg *amqp.SaleEventMessage) error {
	if err := w.journal.AppendReversal(ctx, backup.Reversal{
		SaleID:     msg.SaleID,
		Date:       msg.Date,
		ItemName:   msg.ItemName,
		RecordedBy: msg.RecordedBy,
		Total:      core.Money{Cents: msg.TotalCents},
	}); err != nil {
		return fmt.Errorf("append reversal to journal: %w", err)
	}

	slog.InfoContext(ctx, "Reversal written for deleted sale", applog.FieldSaleID, msg.SaleID)
	return nil
}

// ProcessPending backs up sales the event stream missed. This is the safety
// net for lost AMQP messages and worker downtime.
func (w *BackupWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.GetPendingBackup(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending sales: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending backups", "count", len(pending))

	for _, sale := range pending {
		if err := w.backupSale(ctx, sale); err != nil {
			slog.ErrorContext(ctx, "Failed to back up sale", applog.FieldSaleID, sale.ID, applog.FieldError, err)
			continue
		}
	}

	return nil
}

// StartupCheck drains the pending backlog once at worker start, with a
// larger batch than the periodic scan.
func (w *BackupWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingBackup(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending sales for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending backups found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending backups on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, sale := range pending {
		if err := w.backupSale(ctx, sale); err != nil {
			slog.ErrorContext(ctx, "Failed to back up sale during startup",
				applog.FieldSaleID, sale.ID, applog.FieldError, err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup backup check completed",
		"total", len(pending),
		"backed_up", successCount,
		"errors", errorCount)

	return nil
}

func (w *BackupWorker) backupSale(ctx context.Context, sale core.Sale) error {
	if err := w.journal.AppendSale(ctx, sale); err != nil {
		if markErr := w.store.MarkBackupError(ctx, sale.ID, err.Error()); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark backup error", applog.FieldSaleID, sale.ID, applog.FieldError, markErr)
		}
		return fmt.Errorf("append to journal: %w", err)
	}

	if err := w.store.MarkBackedUp(ctx, sale.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as backed up", applog.FieldSaleID, sale.ID, applog.FieldError, err)
		// The journal write succeeded; the pending scan will retry the
		// flag update and at worst duplicate one row.
	}

	slog.InfoContext(ctx, "Sale backed up",
		applog.FieldSaleID, sale.ID,
		applog.FieldSaleDate, sale.Date,
		applog.FieldTotalCents, sale.Total.Cents)

	return nil
}
