// Package payment implements the simulated payment flow as an explicit
// state machine: Idle -> Processing -> Succeeded -> Idle. There is no real
// settlement; the Processing phase is an artificial, bounded delay.
package payment

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"vaanipay/internal/core"
)

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateSucceeded  State = "succeeded"
)

type (
	// State names where the simulator is in the payment flow.
	State string

	// Delays controls the artificial latency of the flow. ProcessingJitter
	// is a bounded random addition on top of ProcessingBase; SuccessHold is
	// how long the success indicator stays visible before returning to idle.
	Delays struct {
		ProcessingBase   time.Duration
		ProcessingJitter time.Duration
		SuccessHold      time.Duration
	}

	// Committer is the ledger surface the simulator needs: a balance to
	// guard against and a single commit point for settled payments.
	Committer interface {
		Commit(core.TransactionRecord) error
		Balance() core.Money
	}
)

// ErrPaymentInFlight is returned when a request arrives while a previous
// payment has not yet settled.
var ErrPaymentInFlight = errors.New("payment already in flight")

// DefaultDelays matches the observed animation timing: ~1.6s processing
// plus up to 500ms jitter, then a 1.5s success hold.
func DefaultDelays() Delays {
	return Delays{
		ProcessingBase:   1600 * time.Millisecond,
		ProcessingJitter: 500 * time.Millisecond,
		SuccessHold:      1500 * time.Millisecond,
	}
}

// Simulator drives a payment through its states on scheduled timers.
// Exactly one payment can be in flight at a time; the insufficient-balance
// check happens synchronously before Processing is ever entered.
type Simulator struct {
	mu        sync.Mutex
	state     State
	ledger    Committer
	delays    Delays
	timer     *time.Timer
	closed    bool
	onSettled func(core.TransactionRecord)
}

// NewSimulator creates an idle simulator committing into the given ledger.
func NewSimulator(ledger Committer, delays Delays) *Simulator {
	return &Simulator{
		state:  StateIdle,
		ledger: ledger,
		delays: delays,
	}
}

// OnSettled registers a hook invoked after each successful commit, outside
// the simulator's lock. Used for event publishing and archiving.
func (s *Simulator) OnSettled(fn func(core.TransactionRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSettled = fn
}

// State returns the current machine state.
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Request starts a payment. Guard failures (invalid amount, insufficient
// balance, payment already in flight) are reported synchronously and leave
// the machine in Idle with no ledger mutation.
func (s *Simulator) Request(to core.Contact, amount core.Money, category core.Category) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("simulator closed")
	}
	if s.state != StateIdle {
		return ErrPaymentInFlight
	}
	if s.ledger.Balance().LessThan(amount) {
		return core.ErrInsufficientBalance
	}

	s.state = StateProcessing
	s.timer = time.AfterFunc(s.processingDelay(), func() {
		s.settle(to, amount, category)
	})
	return nil
}

// Repeat re-invokes the same request with a past record's payee, amount and
// category. The resulting record gets a new ID and timestamp; the original
// is untouched.
func (s *Simulator) Repeat(rec core.TransactionRecord) error {
	to := core.Contact{
		Name:     rec.CounterpartyName,
		Handle:   rec.CounterpartyHandle,
		Category: rec.Category,
	}
	return s.Request(to, rec.Amount, rec.Category)
}

// Close cancels any pending timer so a torn-down session can never mutate
// released state. Safe to call more than once.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = StateIdle
}

// settle runs at the end of the Processing delay: commit the record and
// show success, or fall back to Idle if the balance changed underneath us.
func (s *Simulator) settle(to core.Contact, amount core.Money, category core.Category) {
	rec := core.NewTransactionRecord(to, amount, category, time.Now())

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if err := s.ledger.Commit(rec); err != nil {
		// Defensive: not reachable with a single in-flight payment, but a
		// failed commit must not report success.
		s.state = StateIdle
		s.mu.Unlock()
		slog.Error("Payment commit failed",
			"counterparty", rec.CounterpartyName,
			"amount_paise", rec.Amount.Paise,
			"error", err)
		return
	}
	s.state = StateSucceeded
	s.timer = time.AfterFunc(s.delays.SuccessHold, s.reset)
	settled := s.onSettled
	s.mu.Unlock()

	slog.Info("Payment settled",
		"transaction_id", rec.ID,
		"counterparty", rec.CounterpartyName,
		"amount_paise", rec.Amount.Paise,
		"category", rec.Category)

	if settled != nil {
		settled(rec)
	}
}

func (s *Simulator) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.state = StateIdle
	s.timer = nil
}

// processingDelay is base plus bounded non-negative jitter; it always
// eventually fires.
func (s *Simulator) processingDelay() time.Duration {
	d := s.delays.ProcessingBase
	if s.delays.ProcessingJitter > 0 {
		d += rand.N(s.delays.ProcessingJitter + 1)
	}
	if d < 0 {
		d = 0
	}
	return d
}
