package entities

import "time"

type LedgerEventType string

const (
	TransactionCreated LedgerEventType = "transaction.created"
	TransactionUpdated LedgerEventType = "transaction.updated"
	TransactionDeleted LedgerEventType = "transaction.deleted"
)

// LedgerEvent is pushed to live listeners and the event queue after a
// transaction mutation has been committed.
type LedgerEvent struct {
	Type        LedgerEventType `json:"type"`
	UserID      uint            `json:"user_id"`
	Transaction TransactionView `json:"transaction"`
	At          time.Time       `json:"at"`
}

// TransactionView is the JSON shape of a transaction on the wire.
type TransactionView struct {
	ID       uint            `json:"id"`
	UserID   uint            `json:"user_id"`
	Amount   float64         `json:"amount"`
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Date     *string         `json:"date"`
	Month    *string         `json:"month"`
}

func (t *Transaction) View() TransactionView {
	return TransactionView{
		ID:       t.ID,
		UserID:   t.UserID,
		Amount:   t.Amount,
		Type:     t.Type,
		Category: t.Category,
		Date:     t.DateString(),
		Month:    t.Month,
	}
}
