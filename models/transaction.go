package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Title     string          `json:"title" example:"Ifood Delivery"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" example:"45.90"`
	Type      TransactionType `json:"type" example:"EXPENSE"`
	Category  string          `json:"category" example:"Alimentação"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// DateRange is an inclusive [From, To] window.
type DateRange struct {
	From time.Time
	To   time.Time
}

// MonthRange covers the whole calendar month, from the first day at 00:00:00
// to the last day at 23:59:59 UTC.
func MonthRange(year int, month time.Month) DateRange {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{
		From: from,
		To:   from.AddDate(0, 1, 0).Add(-time.Second),
	}
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}
