package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Groceries Category = "Groceries"
	Market    Category = "Market"
	Cafe      Category = "Cafe"
	Utilities Category = "Utilities"
	Rent      Category = "Rent"
	Bills     Category = "Bills"
	Person    Category = "Person"
	Other     Category = "Other"
)

type (
	Category string

	// TransactionRecord is one completed payment in the ledger. Records are
	// immutable once created and never removed.
	TransactionRecord struct {
		ID                 string
		CounterpartyName   string
		CounterpartyHandle string
		Amount             Money
		Category           Category
		Timestamp          time.Time
	}

	// Contact is a payee the user can send money to.
	Contact struct {
		Name     string
		Handle   string
		Category Category
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrEmptyCounterparty   = errors.New("empty counterparty name")
	ErrUnknownCategory     = errors.New("unknown category")
)

// Categories lists every valid payment category, in display order.
func Categories() []Category {
	return []Category{Groceries, Market, Cafe, Utilities, Rent, Bills, Person, Other}
}

// ParseCategory maps a string to a known Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	for _, known := range Categories() {
		if c == known {
			return known, nil
		}
	}
	return "", ErrUnknownCategory
}

// CategoryOrOther maps a string to a known Category, falling back to Other
// for empty or unrecognised input.
func CategoryOrOther(s string) Category {
	c, err := ParseCategory(s)
	if err != nil {
		return Other
	}
	return c
}

// NewTransactionRecord builds a record for a completed payment, stamping it
// with a fresh ID and the completion time.
func NewTransactionRecord(to Contact, amount Money, category Category, completedAt time.Time) TransactionRecord {
	return TransactionRecord{
		ID:                 uuid.NewString(),
		CounterpartyName:   to.Name,
		CounterpartyHandle: to.Handle,
		Amount:             amount,
		Category:           category,
		Timestamp:          completedAt,
	}
}

func (r TransactionRecord) Validate() error {
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.CounterpartyName) == "" {
		return ErrEmptyCounterparty
	}
	if _, err := ParseCategory(string(r.Category)); err != nil {
		return err
	}
	if r.Timestamp.IsZero() {
		return errors.New("timestamp cannot be zero")
	}
	return nil
}

func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCounterparty
	}
	if strings.TrimSpace(c.Handle) == "" {
		return errors.New("empty counterparty handle")
	}
	return nil
}
