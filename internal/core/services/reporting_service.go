package services

import (
	"context"
	"fmt"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	portsrepo "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/repositories"
	portssvc "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/services"
)

// recentEntriesLimit bounds the recent activity sample in the stats view.
const recentEntriesLimit = 10

// reportingService aggregates system-wide ledger statistics for administrators.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingReader, accountReader portsrepo.AccountReader) portssvc.ReportingSvc {
	return &reportingService{
		BaseService:   BaseService{Accounts: accountReader},
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// GetSystemStats aggregates totals across the whole ledger. Admin only.
func (s *reportingService) GetSystemStats(ctx context.Context, requestingAccountID string) (*domain.SystemStats, error) {
	if err := s.RequireAdmin(ctx, requestingAccountID); err != nil {
		return nil, err
	}

	stats, err := s.reportingRepo.GetSystemStats(ctx, recentEntriesLimit)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate system stats")
		return nil, fmt.Errorf("failed to aggregate system stats: %w", err)
	}
	return stats, nil
}
