package models

import (
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the known discriminators.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a financial transaction. Amount is always stored
// non-negative; the sign is derived from Type at read time.
type Transaction struct {
	ID          ID              `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Time        string          `json:"time,omitempty"`
	// WalletID is empty for unassigned transactions. The reserved sentinel
	// "global" is a view context, never stored on a record.
	WalletID  string `json:"wallet_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Signed returns the amount with its sign applied: positive for income,
// negative for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
