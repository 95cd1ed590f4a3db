package domain

import (
	"github.com/shopspring/decimal"
)

// SystemStats is the administrative read-only view over the ledger: totals
// computed by summing the accounts and transactions tables, never part of
// the write path.
type SystemStats struct {
	TotalAccounts     int64                     `json:"totalAccounts"`
	TotalBalance      decimal.Decimal           `json:"totalBalance"`
	TotalTransactions int64                     `json:"totalTransactions"`
	TotalFees         decimal.Decimal           `json:"totalFees"`
	CountsByKind      map[TransactionKind]int64 `json:"countsByKind"`
	RecentEntries     []Transaction             `json:"recentEntries"`
}
