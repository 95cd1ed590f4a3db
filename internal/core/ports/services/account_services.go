package services

import (
	"context"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	// Non-admin callers may only read their own account.
	GetAccountByID(ctx context.Context, accountID string, requestingAccountID string) (*domain.Account, error)

	// VerifyAccountByNumber looks up an account by number for pre-transfer confirmation.
	VerifyAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts. Admin only.
	ListAccounts(ctx context.Context, requestingAccountID string, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a new account with a generated account number.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// SetAccountActive freezes or unfreezes an account. Admin only.
	SetAccountActive(ctx context.Context, accountID string, active bool, requestingAccountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
