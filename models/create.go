package models

import "github.com/shopspring/decimal"

// CreateTransaction is the body of POST /transactions. Amount is a pointer so
// that a missing amount can be told apart from zero.
type CreateTransaction struct {
	Title    string           `json:"title" example:"Aluguel"`
	Amount   *decimal.Decimal `json:"amount" swaggertype:"string" example:"1500.00"`
	Type     TransactionType  `json:"type" example:"EXPENSE"`
	Category string           `json:"category" example:"Moradia"`
	Date     string           `json:"date" example:"2025-09-05"`
}

// UpdateTransaction is the body of PUT /transactions/:id. Nil fields are left
// untouched.
type UpdateTransaction struct {
	Title    *string          `json:"title,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty" swaggertype:"string"`
	Type     *TransactionType `json:"type,omitempty"`
	Category *string          `json:"category,omitempty"`
	Date     *string          `json:"date,omitempty"`
}

type ImportTransactions struct {
	Text string `json:"text" example:"05/09/2025 - Ifood Delivery - R$ 45,90"`
}

type CreateUser struct {
	Email    string `json:"email" binding:"required,email" example:"ana@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

type CreateSession struct {
	Email    string `json:"email" binding:"required" example:"ana@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}
