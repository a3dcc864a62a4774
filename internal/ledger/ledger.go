// Package ledger holds the session's append-only payment history and
// running balance. All mutation funnels through Commit; reads get copies.
package ledger

import (
	"sync"

	"vaanipay/internal/core"
)

// Ledger is the session-local store of completed payments. The balance is
// seeded once and only ever debited; records are never removed.
type Ledger struct {
	mu      sync.Mutex
	balance core.Money
	history []core.TransactionRecord // newest first
}

// New creates a ledger seeded with an opening balance and prior history.
// The seed slice is expected newest-first and is copied.
func New(openingBalance core.Money, seed []core.TransactionRecord) *Ledger {
	l := &Ledger{balance: openingBalance}
	l.history = append(l.history, seed...)
	return l
}

// Commit validates the record, debits the balance and prepends the record
// to the history. The operation is atomic: a rejected record leaves the
// ledger unchanged. No implicit retries.
func (l *Ledger) Commit(rec core.TransactionRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balance.LessThan(rec.Amount) {
		return core.ErrInsufficientBalance
	}

	l.history = append([]core.TransactionRecord{rec}, l.history...)
	l.balance = l.balance.Sub(rec.Amount)
	return nil
}

// Balance returns the current balance.
func (l *Ledger) Balance() core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// History returns a copy of the ledger, newest-first.
func (l *Ledger) History() []core.TransactionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.TransactionRecord, len(l.history))
	copy(out, l.history)
	return out
}

// Len returns the number of committed records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.history)
}

// Find returns the record with the given ID, if present.
func (l *Ledger) Find(id string) (core.TransactionRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range l.history {
		if rec.ID == id {
			return rec, true
		}
	}
	return core.TransactionRecord{}, false
}
