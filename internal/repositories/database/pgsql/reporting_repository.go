package pgsql

import (
	"context"
	"fmt"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	portsrepo "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/repositories"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/models"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for system-wide reporting.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingReader {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingReader = (*PgxReportingRepository)(nil)

// GetSystemStats aggregates account, balance, entry and fee totals, along with
// the most recent ledger entries. Fees are summed from initiator-side entries
// only so a transfer's fee is not double counted.
func (r *PgxReportingRepository) GetSystemStats(ctx context.Context, recentLimit int) (*domain.SystemStats, error) {
	stats := &domain.SystemStats{
		CountsByKind: make(map[domain.TransactionKind]int64),
	}

	accountQuery := `SELECT COUNT(*), COALESCE(SUM(balance), 0) FROM accounts;`
	if err := r.Pool.QueryRow(ctx, accountQuery).Scan(&stats.TotalAccounts, &stats.TotalBalance); err != nil {
		return nil, fmt.Errorf("failed to aggregate account totals: %w", err)
	}

	entryQuery := `
		SELECT COUNT(*), COALESCE(SUM(fee) FILTER (WHERE is_initiator), 0)
		FROM transactions;
	`
	if err := r.Pool.QueryRow(ctx, entryQuery).Scan(&stats.TotalTransactions, &stats.TotalFees); err != nil {
		return nil, fmt.Errorf("failed to aggregate entry totals: %w", err)
	}

	kindQuery := `SELECT kind, COUNT(*) FROM transactions GROUP BY kind;`
	kindRows, err := r.Pool.Query(ctx, kindQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate entry counts by kind: %w", err)
	}
	defer kindRows.Close()

	for kindRows.Next() {
		var kind string
		var count int64
		if err := kindRows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan kind count row: %w", err)
		}
		stats.CountsByKind[domain.TransactionKind(kind)] = count
	}
	if err := kindRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kind count rows: %w", err)
	}

	if recentLimit <= 0 {
		recentLimit = 10
	}
	recentQuery := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $1;
	`
	recentRows, err := r.Pool.Query(ctx, recentQuery, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent entries: %w", err)
	}
	defer recentRows.Close()

	modelEntries := []models.Transaction{}
	for recentRows.Next() {
		m, err := scanTransaction(recentRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recent entry row: %w", err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := recentRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent entry rows: %w", err)
	}
	stats.RecentEntries = mapping.ToDomainTransactionSlice(modelEntries)

	return stats, nil
}
