package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a customer account holding a spendable balance.
// This is the primary representation used by services. The balance is only
// ever mutated inside a database transaction that locks the account row.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary key (UUID)
	AccountNumber string          `json:"accountNumber"` // Unique 10-digit customer-facing number
	DisplayName   string          `json:"displayName"`
	Balance       decimal.Decimal `json:"balance"` // Never negative after commit
	IsActive      bool            `json:"isActive"`
	IsAdmin       bool            `json:"isAdmin"`
	AuditFields
}

// CanAfford reports whether the account balance covers amount plus fee.
// The authoritative check happens again under the row lock; this is the
// fast-path validation before any mutation is attempted.
func (a Account) CanAfford(amount, fee decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount.Add(fee))
}
