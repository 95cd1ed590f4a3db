package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a named savings target funded from the owning account's balance.
// Invariant: 0 <= CurrentAmount <= TargetAmount.
type Goal struct {
	GoalID        string          `json:"goalID"` // Primary key (UUID)
	AccountID     string          `json:"accountID"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	IsCompleted   bool            `json:"isCompleted"`
	AuditFields
}

// ProgressPercentage returns saved progress in [0,100].
func (g Goal) ProgressPercentage() decimal.Decimal {
	if g.TargetAmount.IsZero() {
		return decimal.Zero
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// Headroom returns how much the goal can still absorb before hitting its target.
func (g Goal) Headroom() decimal.Decimal {
	room := g.TargetAmount.Sub(g.CurrentAmount)
	if room.IsNegative() {
		return decimal.Zero
	}
	return room
}
