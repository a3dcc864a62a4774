package session

import (
	"time"

	"vaanipay/internal/core"
	"vaanipay/internal/payment"
)

// OpeningBalance is the demo account's starting balance: ₹2,50,000.
var OpeningBalance = core.RupeesToMoney(250000)

// DefaultContacts is the demo payee directory.
func DefaultContacts() []core.Contact {
	return []core.Contact{
		{Name: "Asha Patel", Handle: "asha@upi", Category: core.Person},
		{Name: "Rohit Kumar", Handle: "rohit@upi", Category: core.Person},
		{Name: "Nina Roy", Handle: "nina@upi", Category: core.Person},
		{Name: "Grocery Store", Handle: "grocery@upi", Category: core.Groceries},
		{Name: "Market", Handle: "market@upi", Category: core.Market},
		{Name: "Cafe", Handle: "cafe@upi", Category: core.Cafe},
	}
}

// SeedHistory returns the recent transactions the session starts with, so
// the weekly spend view shows an initial value. Newest first.
func SeedHistory(now time.Time) []core.TransactionRecord {
	seed := []struct {
		contact  core.Contact
		rupees   int64
		category core.Category
		age      time.Duration
	}{
		{core.Contact{Name: "Grocery Store", Handle: "grocery@upi"}, 3200, core.Groceries, 2 * 24 * time.Hour},
		{core.Contact{Name: "Market", Handle: "market@upi"}, 1800, core.Market, 4 * 24 * time.Hour},
		{core.Contact{Name: "Cafe", Handle: "cafe@upi"}, 1420, core.Cafe, 6 * 24 * time.Hour},
	}

	out := make([]core.TransactionRecord, 0, len(seed))
	for _, s := range seed {
		out = append(out, core.NewTransactionRecord(
			s.contact, core.RupeesToMoney(s.rupees), s.category, now.Add(-s.age)))
	}
	return out
}

// DefaultConfig is a fully seeded session configuration with production
// delays and no outbound adapters.
func DefaultConfig() Config {
	return Config{
		OpeningBalance: OpeningBalance,
		SeedHistory:    SeedHistory(time.Now()),
		Contacts:       DefaultContacts(),
		Delays:         payment.DefaultDelays(),
	}
}
