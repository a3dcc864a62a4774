package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"vaanipay/internal/core"
	"vaanipay/internal/events"
	"vaanipay/internal/log"
	"vaanipay/internal/statement"
)

// Archive is the slice of the SQLite repository the worker needs.
type Archive interface {
	ArchiveTransaction(ctx context.Context, rec core.TransactionRecord) error
	GetTransaction(ctx context.Context, id string) (core.TransactionRecord, error)
	ListUnexported(ctx context.Context, limit int) ([]core.TransactionRecord, error)
	MarkExported(ctx context.Context, id string) error
	MarkExportError(ctx context.Context, id string) error
}

// ReceiptWorker archives settled payments and exports them to the bank
// statement sheet.
type ReceiptWorker struct {
	archive   Archive
	statement statement.Writer
	batchSize int
}

func NewReceiptWorker(archive Archive, stmt statement.Writer, batchSize int) *ReceiptWorker {
	return &ReceiptWorker{
		archive:   archive,
		statement: stmt,
		batchSize: batchSize,
	}
}

// HandleMessage processes a single payment completed message: archive the
// transaction, then export it to the statement. Redelivered messages whose
// transaction is already archived skip the insert.
func (w *ReceiptWorker) HandleMessage(ctx context.Context, msg *events.PaymentCompletedMessage) error {
	slog.InfoContext(ctx, "Processing payment completed message",
		"transaction_id", msg.TransactionID,
		"amount_paise", msg.AmountPaise)

	rec := msg.Record()

	_, err := w.archive.GetTransaction(ctx, rec.ID)
	switch {
	case err == nil:
		slog.InfoContext(ctx, "Transaction already archived, skipping insert",
			"transaction_id", rec.ID)
	case errors.Is(err, sql.ErrNoRows):
		if err := w.archive.ArchiveTransaction(ctx, rec); err != nil {
			return fmt.Errorf("archive transaction: %w", err)
		}
	default:
		return fmt.Errorf("check archived transaction: %w", err)
	}

	if err := w.exportToStatement(ctx, rec); err != nil {
		return fmt.Errorf("export transaction to statement: %w", err)
	}

	return nil
}

// ProcessUnexported exports any archived transactions that have not reached
// the statement yet. This is a backup mechanism in case AMQP messages are
// lost.
func (w *ReceiptWorker) ProcessUnexported(ctx context.Context) error {
	pending, err := w.archive.ListUnexported(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unexported transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing unexported transactions", "count", len(pending))

	for _, rec := range pending {
		if err := w.exportToStatement(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction",
				"transaction_id", rec.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupCheck exports transactions left behind by missed messages or worker
// downtime, using a larger batch than the periodic sweep.
func (w *ReceiptWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.archive.ListUnexported(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list unexported transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No unexported transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found unexported transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, rec := range pending {
		if err := w.exportToStatement(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"transaction_id", rec.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

func (w *ReceiptWorker) exportToStatement(ctx context.Context, rec core.TransactionRecord) error {
	ref, err := w.statement.Append(ctx, rec)
	if err != nil {
		if markErr := w.archive.MarkExportError(ctx, rec.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error",
				"transaction_id", rec.ID, "error", markErr)
		}
		return fmt.Errorf("append to statement: %w", err)
	}

	if err := w.archive.MarkExported(ctx, rec.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as exported",
			"transaction_id", rec.ID, "error", err)
		// Don't return error here - the export actually worked
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		log.FieldComponent, log.ComponentWorker,
		log.FieldTransactionID, rec.ID,
		log.FieldSheetRef, ref,
		log.FieldAmountPaise, rec.Amount.Paise)

	return nil
}
