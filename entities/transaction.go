package entities

import (
	"time"
)

type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpenses TransactionType = "expenses"

	DefaultCategory = "General"

	// DateLayout is the calendar-date wire format.
	DateLayout = "2006-01-02"
	// MonthLayout renders period labels such as "Sep/2025".
	MonthLayout = "Jan/2006"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpenses
}

type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	Amount    float64         `gorm:"not null" json:"amount"`
	Type      TransactionType `gorm:"size:20;not null" json:"type"`
	Category  string          `gorm:"size:100" json:"category"`
	Date      *time.Time      `gorm:"type:date" json:"-"`
	Month     *string         `gorm:"size:20" json:"month"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

// DateString returns the calendar date as YYYY-MM-DD, or nil when unset.
func (t *Transaction) DateString() *string {
	if t.Date == nil {
		return nil
	}
	s := t.Date.Format(DateLayout)
	return &s
}

// MonthLabel derives the "Mon/YYYY" label for a date.
func MonthLabel(d time.Time) string {
	return d.Format(MonthLayout)
}
