package models

import (
	"github.com/shopspring/decimal"
)

// Account represents an account row in the ledger store.
type Account struct {
	AccountID     string          `db:"account_id"`
	AccountNumber string          `db:"account_number"`
	DisplayName   string          `db:"display_name"`
	Balance       decimal.Decimal `db:"balance"`
	IsActive      bool            `db:"is_active"`
	IsAdmin       bool            `db:"is_admin"`
	AuditFields
}
