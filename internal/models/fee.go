package models

import (
	"github.com/shopspring/decimal"
)

// FeePolicy represents a fee configuration row, keyed by transaction kind.
type FeePolicy struct {
	FeePolicyID string           `db:"fee_policy_id"`
	Name        string           `db:"name"`
	Kind        TransactionKind  `db:"kind"`
	Percentage  decimal.Decimal  `db:"percentage"`
	MinimumFee  decimal.Decimal  `db:"minimum_fee"`
	MaximumFee  *decimal.Decimal `db:"maximum_fee"`
	IsActive    bool             `db:"is_active"`
	AuditFields
}
