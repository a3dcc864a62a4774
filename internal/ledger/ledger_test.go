package ledger

import (
	"testing"
	"time"

	"vaanipay/internal/core"
)

func record(name string, rupees int64, cat core.Category, at time.Time) core.TransactionRecord {
	return core.NewTransactionRecord(
		core.Contact{Name: name, Handle: "x@upi", Category: cat},
		core.RupeesToMoney(rupees),
		cat,
		at,
	)
}

func TestCommitDebitsBalance(t *testing.T) {
	l := New(core.RupeesToMoney(250000), nil)

	if err := l.Commit(record("Grocery Store", 500, core.Groceries, time.Now())); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if got, want := l.Balance(), core.RupeesToMoney(249500); got != want {
		t.Errorf("balance = %v, want %v", got, want)
	}
	hist := l.History()
	if len(hist) != 1 {
		t.Fatalf("history length = %d, want 1", len(hist))
	}
	if hist[0].Amount != core.RupeesToMoney(500) || hist[0].Category != core.Groceries {
		t.Errorf("history[0] = %+v", hist[0])
	}
}

func TestCommitRejectsOverBalance(t *testing.T) {
	l := New(core.RupeesToMoney(250000), nil)

	err := l.Commit(record("Grocery Store", 999999, core.Groceries, time.Now()))
	if err != core.ErrInsufficientBalance {
		t.Fatalf("Commit: got %v, want ErrInsufficientBalance", err)
	}

	// Rejection must leave the ledger untouched.
	if got, want := l.Balance(), core.RupeesToMoney(250000); got != want {
		t.Errorf("balance = %v, want %v", got, want)
	}
	if l.Len() != 0 {
		t.Errorf("history length = %d, want 0", l.Len())
	}
}

func TestCommitRejectsInvalidRecord(t *testing.T) {
	l := New(core.RupeesToMoney(1000), nil)

	tests := []struct {
		name string
		rec  core.TransactionRecord
		want error
	}{
		{
			name: "zero amount",
			rec: core.TransactionRecord{
				ID: "t1", CounterpartyName: "Cafe", Category: core.Cafe, Timestamp: time.Now(),
			},
			want: core.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			rec: core.TransactionRecord{
				ID: "t2", CounterpartyName: "Cafe", Amount: core.Money{Paise: -100},
				Category: core.Cafe, Timestamp: time.Now(),
			},
			want: core.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := l.Commit(tt.rec); err != tt.want {
				t.Errorf("Commit: got %v, want %v", err, tt.want)
			}
			if l.Len() != 0 {
				t.Errorf("rejected commit mutated history")
			}
		})
	}
}

func TestBalanceEqualsOpeningMinusSum(t *testing.T) {
	l := New(core.RupeesToMoney(250000), nil)

	amounts := []int64{500, 1200, 42, 3200, 7}
	var sum int64
	for _, a := range amounts {
		if err := l.Commit(record("Market", a, core.Market, time.Now())); err != nil {
			t.Fatalf("Commit(%d): %v", a, err)
		}
		sum += a
	}

	if got, want := l.Balance(), core.RupeesToMoney(250000-sum); got != want {
		t.Errorf("balance = %v, want %v", got, want)
	}
	if l.Len() != len(amounts) {
		t.Errorf("history length = %d, want %d", l.Len(), len(amounts))
	}
}

func TestHistoryIsNewestFirst(t *testing.T) {
	l := New(core.RupeesToMoney(10000), nil)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := record("Cafe", 10, core.Cafe, base)
	second := record("Market", 20, core.Market, base.Add(time.Minute))
	for _, r := range []core.TransactionRecord{first, second} {
		if err := l.Commit(r); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}

	hist := l.History()
	if hist[0].ID != second.ID {
		t.Errorf("history[0] = %s, want most recently committed %s", hist[0].ID, second.ID)
	}
	if hist[1].ID != first.ID {
		t.Errorf("history[1] = %s, want %s", hist[1].ID, first.ID)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	seedAt := time.Now()
	l := New(core.RupeesToMoney(1000), []core.TransactionRecord{record("Cafe", 10, core.Cafe, seedAt)})

	hist := l.History()
	hist[0].CounterpartyName = "tampered"

	if got := l.History()[0].CounterpartyName; got != "Cafe" {
		t.Errorf("ledger history mutated through returned slice: %q", got)
	}
}

func TestFind(t *testing.T) {
	rec := record("Cafe", 10, core.Cafe, time.Now())
	l := New(core.RupeesToMoney(1000), []core.TransactionRecord{rec})

	got, ok := l.Find(rec.ID)
	if !ok || got.ID != rec.ID {
		t.Errorf("Find(%s) = %+v, %v", rec.ID, got, ok)
	}
	if _, ok := l.Find("missing"); ok {
		t.Error("Find(missing) reported a record")
	}
}
