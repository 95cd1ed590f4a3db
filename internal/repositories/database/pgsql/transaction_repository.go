package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/apperrors"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	portsrepo "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/repositories"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/models"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/utils/mapping"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = "transaction_id, account_id, kind, amount, fee, reference, counterparty_account_number, counterparty_name, is_initiator, status, undo_deadline, original_transaction_id, paired_transaction_id, running_balance, created_at, created_by, last_updated_at, last_updated_by"

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger entries.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

// scanTransaction reads one ledger entry row in transactionColumns order.
func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.Kind,
		&m.Amount,
		&m.Fee,
		&m.Reference,
		&m.CounterpartyAccountNumber,
		&m.CounterpartyName,
		&m.IsInitiator,
		&m.Status,
		&m.UndoDeadline,
		&m.OriginalTransactionID,
		&m.PairedTransactionID,
		&m.RunningBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindTransactionByID retrieves a specific ledger entry by its unique identifier.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", transactionID, err)
	}

	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// FindReversalsByOriginalID retrieves the reversal entries linked to an original entry.
func (r *PgxTransactionRepository) FindReversalsByOriginalID(ctx context.Context, originalTransactionID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE original_transaction_id = $1
		ORDER BY created_at, transaction_id;
	`

	rows, err := r.Pool.Query(ctx, query, originalTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reversals for entry %s: %w", originalTransactionID, err)
	}
	defer rows.Close()

	modelEntries := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reversal row: %w", err)
		}
		modelEntries = append(modelEntries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reversal rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(modelEntries), nil
}

// ListTransactionsByAccountID retrieves a page of an account's entries, newest
// first, using token-based keyset pagination over (created_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []any{accountID, limit + 1}
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
	`
	if nextToken != nil && *nextToken != "" {
		createdAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, transaction_id) < ($3, $4)`
		args = append(args, createdAt, lastID)
	}
	query += `
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $2;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	modelEntries := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		modelEntries = append(modelEntries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	// We fetched one extra row to know whether another page exists.
	var token *string
	if len(modelEntries) > limit {
		modelEntries = modelEntries[:limit]
		last := modelEntries[len(modelEntries)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		token = &t
	}

	return mapping.ToDomainTransactionSlice(modelEntries), token, nil
}

// SaveTransactionsInTx inserts ledger entries within a transaction.
func (r *PgxTransactionRepository) SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, entries []domain.Transaction) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`

	batch := &pgx.Batch{}
	for _, entry := range entries {
		m := mapping.ToModelTransaction(entry)
		batch.Queue(query,
			m.TransactionID,
			m.AccountID,
			m.Kind,
			m.Amount,
			m.Fee,
			m.Reference,
			m.CounterpartyAccountNumber,
			m.CounterpartyName,
			m.IsInitiator,
			m.Status,
			m.UndoDeadline,
			m.OriginalTransactionID,
			m.PairedTransactionID,
			m.RunningBalance,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert entry %s: %w", entries[i].TransactionID, err)
		}
	}

	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close entry insert batch: %w", err)
	}

	return batchErr
}

// MarkTransactionReversedInTx flips an entry from COMPLETED to REVERSED within
// a transaction. The status guard makes double reversal impossible: whichever
// concurrent reversal commits second affects zero rows and gets a conflict.
func (r *PgxTransactionRepository) MarkTransactionReversedInTx(ctx context.Context, tx pgx.Tx, transactionID string, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND status = $5;
	`

	cmdTag, err := tx.Exec(ctx, query, transactionID, models.StatusReversed, now, userID, models.StatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s reversed: %w", transactionID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM transactions WHERE transaction_id = $1;`, transactionID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to check entry status after reversal attempt for %s: %w", transactionID, err)
		}
		return fmt.Errorf("%w: entry %s has status %s", apperrors.ErrConflict, transactionID, status)
	}

	return nil
}
