package repositories

import (
	"context"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
)

// ReportingReader defines read operations for system-wide reporting
type ReportingReader interface {
	// GetSystemStats aggregates account, balance, entry and fee totals,
	// along with the most recent ledger entries.
	GetSystemStats(ctx context.Context, recentLimit int) (*domain.SystemStats, error)
}
