package events

import (
	"encoding/json"
	"time"

	"vaanipay/internal/core"
)

// PaymentCompletedMessage carries a settled payment onto the bus. The worker
// archives it and exports it to the statement sheet, so the message holds the
// full record rather than just a reference.
type PaymentCompletedMessage struct {
	TransactionID      string    `json:"transaction_id"`
	CounterpartyName   string    `json:"counterparty_name"`
	CounterpartyHandle string    `json:"counterparty_handle"`
	AmountPaise        int64     `json:"amount_paise"`
	Category           string    `json:"category"`
	CompletedAt        time.Time `json:"completed_at"`
	PublishedAt        time.Time `json:"published_at"`
}

func NewPaymentCompletedMessage(rec core.TransactionRecord) *PaymentCompletedMessage {
	return &PaymentCompletedMessage{
		TransactionID:      rec.ID,
		CounterpartyName:   rec.CounterpartyName,
		CounterpartyHandle: rec.CounterpartyHandle,
		AmountPaise:        rec.Amount.Paise,
		Category:           string(rec.Category),
		CompletedAt:        rec.Timestamp,
		PublishedAt:        time.Now(),
	}
}

// Record converts the message back into a domain record.
func (m *PaymentCompletedMessage) Record() core.TransactionRecord {
	return core.TransactionRecord{
		ID:                 m.TransactionID,
		CounterpartyName:   m.CounterpartyName,
		CounterpartyHandle: m.CounterpartyHandle,
		Amount:             core.Money{Paise: m.AmountPaise},
		Category:           core.Category(m.Category),
		Timestamp:          m.CompletedAt,
	}
}

func (m *PaymentCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PaymentCompletedMessageFromJSON(data []byte) (*PaymentCompletedMessage, error) {
	var msg PaymentCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
