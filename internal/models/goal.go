package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal represents a savings goal row.
type Goal struct {
	GoalID        string          `db:"goal_id"`
	AccountID     string          `db:"account_id"`
	Name          string          `db:"name"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount"`
	Deadline      *time.Time      `db:"deadline"`
	IsCompleted   bool            `db:"is_completed"`
	AuditFields
}
