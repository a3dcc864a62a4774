package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"vaanipay/internal/core"
	"vaanipay/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository archives settled payments. The archive is append-only:
// rows are inserted once and only their export flags ever change.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ArchiveTransaction implements session.Archiver.
func (r *SQLiteRepository) ArchiveTransaction(ctx context.Context, rec core.TransactionRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	err := r.queries.InsertTransaction(ctx, InsertTransactionParams{
		ID:                 rec.ID,
		CounterpartyName:   rec.CounterpartyName,
		CounterpartyHandle: rec.CounterpartyHandle,
		AmountPaise:        rec.Amount.Paise,
		Category:           string(rec.Category),
		CompletedAt:        rec.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction archived",
		log.FieldComponent, log.ComponentStorage,
		log.FieldTransactionID, rec.ID,
		log.FieldCounterparty, rec.CounterpartyName,
		log.FieldAmountPaise, rec.Amount.Paise,
		log.FieldCategory, rec.Category)

	return nil
}

// GetTransaction retrieves a single archived transaction by ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.TransactionRecord, error) {
	t, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		return core.TransactionRecord{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return toRecord(t), nil
}

// ListRecent returns the newest archived transactions, newest first.
func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]core.TransactionRecord, error) {
	rows, err := r.queries.ListRecentTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}

	out := make([]core.TransactionRecord, len(rows))
	for i, t := range rows {
		out[i] = toRecord(t)
	}
	return out, nil
}

// ListUnexported returns archived transactions not yet written to the
// statement sheet, oldest first.
func (r *SQLiteRepository) ListUnexported(ctx context.Context, limit int) ([]core.TransactionRecord, error) {
	rows, err := r.queries.ListUnexportedTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list unexported transactions: %w", err)
	}

	out := make([]core.TransactionRecord, len(rows))
	for i, t := range rows {
		out[i] = toRecord(t)
	}
	return out, nil
}

// MarkExported marks a transaction as successfully written to the statement.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id string) error {
	if err := r.queries.MarkTransactionExported(ctx, id); err != nil {
		return fmt.Errorf("mark transaction exported: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as exported", "transaction_id", id)
	return nil
}

// MarkExportError flags a transaction whose statement export failed so the
// sweep can retry it later.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id string) error {
	if err := r.queries.MarkTransactionExportError(ctx, id); err != nil {
		return fmt.Errorf("mark transaction export error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with export error", "transaction_id", id)
	return nil
}

// Count returns the number of archived transactions.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountTransactions(ctx)
}

func toRecord(t Transaction) core.TransactionRecord {
	return core.TransactionRecord{
		ID:                 t.ID,
		CounterpartyName:   t.CounterpartyName,
		CounterpartyHandle: t.CounterpartyHandle,
		Amount:             core.Money{Paise: t.AmountPaise},
		Category:           core.Category(t.Category),
		Timestamp:          t.CompletedAt,
	}
}
