package services

import (
	"context"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/dto"
)

// MovementSvc defines the money movement operations. Every operation is a
// single atomic unit: balance changes, goal allocation changes and journal
// entries commit together or not at all.
type MovementSvc interface {
	// Deposit credits an account from an external source.
	Deposit(ctx context.Context, accountID string, req dto.DepositRequest) (*domain.Transaction, error)

	// Transfer moves money from the caller's account to another account, charging the transfer fee.
	// It returns the sender-side entry.
	Transfer(ctx context.Context, accountID string, req dto.TransferRequest) (*domain.Transaction, error)

	// PayUtility debits the caller's account for a biller payment, charging the utility fee.
	PayUtility(ctx context.Context, accountID string, req dto.UtilityPaymentRequest) (*domain.Transaction, error)

	// GoalDeposit allocates money from the account's available balance into a goal.
	// Allocation beyond the goal target is clamped to the remaining headroom.
	GoalDeposit(ctx context.Context, accountID string, goalID string, req dto.GoalMovementRequest) (*domain.Transaction, error)

	// GoalWithdraw releases money from a goal back into the available balance.
	GoalWithdraw(ctx context.Context, accountID string, goalID string, req dto.GoalMovementRequest) (*domain.Transaction, error)
}

// TransactionReaderSvc defines read operations for ledger entries
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a specific entry together with the
	// reversal entries that compensated it, when it has been reversed.
	// Non-admin callers may only read entries on their own account.
	GetTransactionByID(ctx context.Context, transactionID string, requestingAccountID string) (*domain.Transaction, []domain.Transaction, error)

	// ListTransactions retrieves a page of the account's entries, newest first.
	ListTransactions(ctx context.Context, accountID string, requestingAccountID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
}

// LedgerSvcFacade combines all movement and entry-reading service interfaces
type LedgerSvcFacade interface {
	MovementSvc
	TransactionReaderSvc
}
