package repositories

import (
	"context"
	"time"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for ledger entries
type TransactionReader interface {
	// FindTransactionByID retrieves a specific ledger entry by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindReversalsByOriginalID retrieves the reversal entries linked to an original entry.
	FindReversalsByOriginalID(ctx context.Context, originalTransactionID string) ([]domain.Transaction, error)

	// ListTransactionsByAccountID retrieves a paginated list of entries for a specific account using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for ledger entries.
// The journal is append-only; the only permitted update is the guarded
// status flip from COMPLETED to REVERSED.
type TransactionWriter interface {
	// SaveTransactionsInTx inserts ledger entries within a given transaction.
	SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, entries []domain.Transaction) error

	// MarkTransactionReversedInTx flips an entry from COMPLETED to REVERSED within a transaction.
	// It returns apperrors.ErrConflict if the entry was not in COMPLETED status.
	MarkTransactionReversedInTx(ctx context.Context, tx pgx.Tx, transactionID string, userID string, now time.Time) error
}

// TransactionRepositoryFacade combines all ledger entry repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
