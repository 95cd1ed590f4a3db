package domain

import (
	"github.com/shopspring/decimal"
)

// FeePolicy is the admin-editable fee configuration for one transaction kind.
// The Money Movement Engine only ever reads it.
type FeePolicy struct {
	FeePolicyID string          `json:"feePolicyID"` // Primary key (UUID)
	Name        string          `json:"name"`
	Kind        TransactionKind `json:"kind"`
	Percentage  decimal.Decimal `json:"percentage"` // e.g. 1 means 1%
	MinimumFee  decimal.Decimal `json:"minimumFee"`
	// MaximumFee is optional; nil means unbounded above.
	MaximumFee *decimal.Decimal `json:"maximumFee,omitempty"`
	IsActive   bool             `json:"isActive"`
	AuditFields
}

// CalculateFee computes the fee for amount under this policy: percentage of
// the amount clamped into [minimum, maximum], rounded half-up to two decimal
// places. An inactive policy charges nothing.
func (p FeePolicy) CalculateFee(amount decimal.Decimal) decimal.Decimal {
	if !p.IsActive {
		return decimal.Zero
	}

	fee := p.Percentage.Div(decimal.NewFromInt(100)).Mul(amount)

	if fee.LessThan(p.MinimumFee) {
		fee = p.MinimumFee
	}
	if p.MaximumFee != nil && fee.GreaterThan(*p.MaximumFee) {
		fee = *p.MaximumFee
	}

	return fee.Round(2)
}
