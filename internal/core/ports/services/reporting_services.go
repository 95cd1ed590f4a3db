package services

import (
	"context"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
)

// ReportingSvc defines system-wide reporting operations
type ReportingSvc interface {
	// GetSystemStats aggregates totals across the whole ledger. Admin only.
	GetSystemStats(ctx context.Context, requestingAccountID string) (*domain.SystemStats, error)
}
