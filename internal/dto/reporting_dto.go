package dto

import (
	"time"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SystemStatsResponse defines the aggregate view returned to administrators.
type SystemStatsResponse struct {
	TotalAccounts     int64                            `json:"totalAccounts"`
	TotalBalance      decimal.Decimal                  `json:"totalBalance"`
	TotalTransactions int64                            `json:"totalTransactions"`
	TotalFees         decimal.Decimal                  `json:"totalFees"`
	CountsByKind      map[domain.TransactionKind]int64 `json:"countsByKind"`
	RecentEntries     []TransactionResponse            `json:"recentEntries"`
}

// ToSystemStatsResponse converts domain.SystemStats to SystemStatsResponse DTO
func ToSystemStatsResponse(s *domain.SystemStats, now time.Time) SystemStatsResponse {
	return SystemStatsResponse{
		TotalAccounts:     s.TotalAccounts,
		TotalBalance:      s.TotalBalance,
		TotalTransactions: s.TotalTransactions,
		TotalFees:         s.TotalFees,
		CountsByKind:      s.CountsByKind,
		RecentEntries:     ToTransactionResponses(s.RecentEntries, now),
	}
}
