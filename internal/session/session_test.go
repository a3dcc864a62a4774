package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"vaanipay/internal/core"
	"vaanipay/internal/insights"
	"vaanipay/internal/payment"
)

func testConfig() Config {
	return Config{
		OpeningBalance: OpeningBalance,
		SeedHistory:    SeedHistory(time.Now()),
		Contacts:       DefaultContacts(),
		Delays: payment.Delays{
			ProcessingBase: 2 * time.Millisecond,
			SuccessHold:    2 * time.Millisecond,
		},
	}
}

// waitHistoryLen polls until the ledger holds n records.
func waitHistoryLen(t *testing.T, s *Session, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.View().History) == n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("history never reached %d records (at %d)", n, len(s.View().History))
}

func TestSeededView(t *testing.T) {
	s := New(testConfig())
	defer s.Close()

	view := s.View()
	if view.Balance != OpeningBalance {
		t.Errorf("balance = %v, want %v", view.Balance, OpeningBalance)
	}
	if len(view.History) != 3 {
		t.Errorf("seed history length = %d, want 3", len(view.History))
	}
	// Grocery 3200 + Market 1800 + Cafe 1420, all inside the window.
	if view.WeeklyTotal != core.RupeesToMoney(6420) {
		t.Errorf("weekly total = %v, want ₹6420.00", view.WeeklyTotal)
	}
	if view.SimulatorState != payment.StateIdle {
		t.Errorf("simulator state = %s, want idle", view.SimulatorState)
	}
	if view.Filter != "All" {
		t.Errorf("filter = %q, want All", view.Filter)
	}
}

func TestRequestPaymentUpdatesView(t *testing.T) {
	s := New(testConfig())
	defer s.Close()

	to, ok := s.ContactByHandle("grocery@upi")
	if !ok {
		t.Fatal("grocery@upi missing from contact directory")
	}
	if err := s.RequestPayment(to, core.RupeesToMoney(500), core.Groceries); err != nil {
		t.Fatalf("RequestPayment: %v", err)
	}

	waitHistoryLen(t, s, 4)

	view := s.View()
	if want := core.RupeesToMoney(249500); view.Balance != want {
		t.Errorf("balance = %v, want %v", view.Balance, want)
	}
	if view.History[0].Amount != core.RupeesToMoney(500) || view.History[0].Category != core.Groceries {
		t.Errorf("history[0] = %+v", view.History[0])
	}
}

func TestRepeatPaymentByID(t *testing.T) {
	s := New(testConfig())
	defer s.Close()

	original := s.View().History[0]
	if err := s.RepeatPayment(original.ID); err != nil {
		t.Fatalf("RepeatPayment: %v", err)
	}

	waitHistoryLen(t, s, 4)

	view := s.View()
	repeated := view.History[0]
	if repeated.ID == original.ID {
		t.Error("repeat reused the original ID")
	}
	if repeated.Amount != original.Amount || repeated.Category != original.Category {
		t.Errorf("repeated = %+v, want amount/category of %+v", repeated, original)
	}

	if err := s.RepeatPayment("no-such-id"); err == nil {
		t.Error("RepeatPayment(no-such-id) should fail")
	}
}

func TestSelectCategoryFilter(t *testing.T) {
	s := New(testConfig())
	defer s.Close()

	s.SelectCategoryFilter(insights.Only(core.Market))

	view := s.View()
	if view.Filter != "Market" {
		t.Errorf("filter = %q, want Market", view.Filter)
	}
	if view.WeeklyTotal != core.RupeesToMoney(1800) {
		t.Errorf("filtered weekly total = %v, want ₹1800.00", view.WeeklyTotal)
	}
	// Breakdown still covers all categories in the window.
	if len(view.Breakdown) != 3 {
		t.Errorf("breakdown groups = %d, want 3", len(view.Breakdown))
	}
}

type captureArchiver struct {
	mu   sync.Mutex
	recs []core.TransactionRecord
}

func (a *captureArchiver) ArchiveTransaction(_ context.Context, rec core.TransactionRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recs = append(a.recs, rec)
	return nil
}

type capturePublisher struct {
	mu   sync.Mutex
	recs []core.TransactionRecord
}

func (p *capturePublisher) PublishPaymentCompleted(_ context.Context, rec core.TransactionRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recs = append(p.recs, rec)
	return nil
}

func TestSettledPaymentsAreArchivedAndPublished(t *testing.T) {
	archiver := &captureArchiver{}
	publisher := &capturePublisher{}
	cfg := testConfig()
	cfg.Archiver = archiver
	cfg.Publisher = publisher

	s := New(cfg)
	defer s.Close()

	to, _ := s.ContactByHandle("cafe@upi")
	if err := s.RequestPayment(to, core.RupeesToMoney(120), core.Cafe); err != nil {
		t.Fatalf("RequestPayment: %v", err)
	}
	waitHistoryLen(t, s, 4)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		archiver.mu.Lock()
		publisher.mu.Lock()
		done := len(archiver.recs) == 1 && len(publisher.recs) == 1
		publisher.mu.Unlock()
		archiver.mu.Unlock()
		if done {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("settled payment was not archived and published")
}

func TestInsufficientBalanceLeavesViewUnchanged(t *testing.T) {
	s := New(testConfig())
	defer s.Close()

	to, _ := s.ContactByHandle("grocery@upi")
	err := s.RequestPayment(to, core.RupeesToMoney(999999), core.Groceries)
	if err != core.ErrInsufficientBalance {
		t.Fatalf("RequestPayment: got %v, want ErrInsufficientBalance", err)
	}

	view := s.View()
	if view.Balance != OpeningBalance {
		t.Errorf("balance = %v, want %v", view.Balance, OpeningBalance)
	}
	if len(view.History) != 3 {
		t.Errorf("history length = %d, want 3", len(view.History))
	}
}
