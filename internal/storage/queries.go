package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds the prepared statement surface over the archive schema.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Transaction is a row of the transactions table.
type Transaction struct {
	ID                 string
	CounterpartyName   string
	CounterpartyHandle string
	AmountPaise        int64
	Category           string
	CompletedAt        time.Time
	Exported           bool
	ExportError        bool
	CreatedAt          time.Time
}

const insertTransaction = `
INSERT INTO transactions (id, counterparty_name, counterparty_handle, amount_paise, category, completed_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertTransactionParams struct {
	ID                 string
	CounterpartyName   string
	CounterpartyHandle string
	AmountPaise        int64
	Category           string
	CompletedAt        time.Time
}

func (q *Queries) InsertTransaction(ctx context.Context, arg InsertTransactionParams) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		arg.ID,
		arg.CounterpartyName,
		arg.CounterpartyHandle,
		arg.AmountPaise,
		arg.Category,
		arg.CompletedAt,
	)
	return err
}

const getTransaction = `
SELECT id, counterparty_name, counterparty_handle, amount_paise, category, completed_at, exported, export_error, created_at
FROM transactions
WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var t Transaction
	err := row.Scan(
		&t.ID,
		&t.CounterpartyName,
		&t.CounterpartyHandle,
		&t.AmountPaise,
		&t.Category,
		&t.CompletedAt,
		&t.Exported,
		&t.ExportError,
		&t.CreatedAt,
	)
	return t, err
}

const listRecentTransactions = `
SELECT id, counterparty_name, counterparty_handle, amount_paise, category, completed_at, exported, export_error, created_at
FROM transactions
ORDER BY completed_at DESC
LIMIT ?
`

func (q *Queries) ListRecentTransactions(ctx context.Context, limit int64) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listRecentTransactions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

const listUnexportedTransactions = `
SELECT id, counterparty_name, counterparty_handle, amount_paise, category, completed_at, exported, export_error, created_at
FROM transactions
WHERE exported = 0
ORDER BY completed_at ASC
LIMIT ?
`

func (q *Queries) ListUnexportedTransactions(ctx context.Context, limit int64) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listUnexportedTransactions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

const markTransactionExported = `
UPDATE transactions SET exported = 1, export_error = 0 WHERE id = ?
`

func (q *Queries) MarkTransactionExported(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markTransactionExported, id)
	return err
}

const markTransactionExportError = `
UPDATE transactions SET export_error = 1 WHERE id = ?
`

func (q *Queries) MarkTransactionExportError(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markTransactionExportError, id)
	return err
}

const countTransactions = `
SELECT COUNT(*) FROM transactions
`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTransactions).Scan(&n)
	return n, err
}

func scanTransactions(rows *sql.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(
			&t.ID,
			&t.CounterpartyName,
			&t.CounterpartyHandle,
			&t.AmountPaise,
			&t.Category,
			&t.CompletedAt,
			&t.Exported,
			&t.ExportError,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
