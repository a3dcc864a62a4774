// Package session owns the per-session state of the payment demo: the
// ledger, the payment simulator and the selected category filter. All
// mutation funnels through the session's operations; the presentation
// layer only ever sees read-only view snapshots.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vaanipay/internal/core"
	"vaanipay/internal/insights"
	"vaanipay/internal/ledger"
	"vaanipay/internal/log"
	"vaanipay/internal/payment"
)

type (
	// Archiver persists settled payments outside the session (SQLite).
	Archiver interface {
		ArchiveTransaction(ctx context.Context, rec core.TransactionRecord) error
	}

	// Publisher emits settled payments onto the message bus.
	Publisher interface {
		PublishPaymentCompleted(ctx context.Context, rec core.TransactionRecord) error
	}

	// Config assembles a session. Archiver and Publisher are optional;
	// settled payments are archived and published best-effort and never
	// fail the payment itself.
	Config struct {
		OpeningBalance core.Money
		SeedHistory    []core.TransactionRecord
		Contacts       []core.Contact
		Delays         payment.Delays
		Archiver       Archiver
		Publisher      Publisher
	}

	// ViewState is the read-only projection handed to the presentation
	// layer after every operation.
	ViewState struct {
		Balance        core.Money
		History        []core.TransactionRecord
		WeeklyTotal    core.Money
		Breakdown      []core.CategoryShare
		SimulatorState payment.State
		Filter         string
	}
)

// Session is created once at start and discarded at the end; there is no
// persistence of the session itself across restarts.
type Session struct {
	ledger    *ledger.Ledger
	sim       *payment.Simulator
	contacts  []core.Contact
	archiver  Archiver
	publisher Publisher

	mu     sync.Mutex
	filter insights.Filter
}

// New builds a session seeded with the configured balance and history.
func New(cfg Config) *Session {
	l := ledger.New(cfg.OpeningBalance, cfg.SeedHistory)
	s := &Session{
		ledger:    l,
		sim:       payment.NewSimulator(l, cfg.Delays),
		contacts:  cfg.Contacts,
		archiver:  cfg.Archiver,
		publisher: cfg.Publisher,
		filter:    insights.All(),
	}
	s.sim.OnSettled(s.settled)
	return s
}

// RequestPayment starts a simulated payment to the given contact.
func (s *Session) RequestPayment(to core.Contact, amount core.Money, category core.Category) error {
	return s.sim.Request(to, amount, category)
}

// RepeatPayment re-issues a past payment by transaction ID. The new record
// gets its own ID and timestamp; the original stays untouched.
func (s *Session) RepeatPayment(id string) error {
	rec, ok := s.ledger.Find(id)
	if !ok {
		return fmt.Errorf("no transaction with id %s", id)
	}
	return s.sim.Repeat(rec)
}

// SelectCategoryFilter sets the filter applied to the weekly total.
func (s *Session) SelectCategoryFilter(f insights.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Contacts returns the payee directory.
func (s *Session) Contacts() []core.Contact {
	out := make([]core.Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// ContactByHandle looks up a payee by handle.
func (s *Session) ContactByHandle(handle string) (core.Contact, bool) {
	for _, c := range s.contacts {
		if c.Handle == handle {
			return c, true
		}
	}
	return core.Contact{}, false
}

// View computes a fresh snapshot: balance, history, the aggregated weekly
// view and the simulator state. Aggregation is recomputed on every call.
func (s *Session) View() ViewState {
	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()

	history := s.ledger.History()
	summary := insights.Aggregate(history, time.Now().Add(-insights.Window), filter)

	return ViewState{
		Balance:        s.ledger.Balance(),
		History:        history,
		WeeklyTotal:    summary.WeeklyTotal,
		Breakdown:      summary.Breakdown,
		SimulatorState: s.sim.State(),
		Filter:         filter.String(),
	}
}

// Close cancels any in-flight payment timers.
func (s *Session) Close() {
	s.sim.Close()
}

// settled archives and publishes a committed payment. Both are outbound
// side effects; failures are logged and never unwind the commit.
func (s *Session) settled(rec core.TransactionRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.archiver != nil {
		if err := s.archiver.ArchiveTransaction(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to archive transaction",
				log.FieldComponent, log.ComponentSession,
				log.FieldTransactionID, rec.ID,
				log.FieldError, err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishPaymentCompleted(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to publish payment event",
				log.FieldComponent, log.ComponentSession,
				log.FieldTransactionID, rec.ID,
				log.FieldError, err)
		}
	}
}
