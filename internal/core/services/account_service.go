package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/apperrors"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	portsrepo "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/repositories"
	portssvc "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/services"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/dto"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/middleware"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/utils"
	"github.com/shopspring/decimal"
)

// accountNumberAttempts bounds the retry loop when a freshly generated
// account number collides with an existing one.
const accountNumberAttempts = 5

// accountService provides account lifecycle and lookup operations.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryWithTx) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: BaseService{Accounts: accountRepo},
		accountRepo: accountRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens a new account with a generated 10-digit account number.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		DisplayName: req.DisplayName,
		Balance:     decimal.Zero,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}

	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		number, err := utils.GenerateAccountNumber()
		if err != nil {
			logger.Error("Failed to generate account number", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to generate account number: %w", err)
		}
		account.AccountNumber = number

		err = s.accountRepo.SaveAccount(ctx, account)
		if err == nil {
			logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
			return &account, nil
		}
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Account number collision, retrying", slog.String("account_number", number))
			continue
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	return nil, fmt.Errorf("%w: could not allocate a unique account number", apperrors.ErrInternal)
}

// GetAccountByID retrieves an account. Non-admin callers may only read their own.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string, requestingAccountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if accountID != requestingAccountID {
		if err := s.RequireAdmin(ctx, requestingAccountID); err != nil {
			logger.Warn("Cross-account read denied", slog.String("account_id", accountID), slog.String("requesting_account_id", requestingAccountID))
			return nil, err
		}
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID", slog.String("account_id", accountID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return account, nil
}

// VerifyAccountByNumber looks up an account by number for pre-transfer confirmation.
// Only name and status are meant to be shown; handlers use the verification DTO.
func (s *accountService) VerifyAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by number")
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves a paginated list of accounts. Admin only.
func (s *accountService) ListAccounts(ctx context.Context, requestingAccountID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	if err := s.RequireAdmin(ctx, requestingAccountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// SetAccountActive freezes or unfreezes an account. Admin only.
func (s *accountService) SetAccountActive(ctx context.Context, accountID string, active bool, requestingAccountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.RequireAdmin(ctx, requestingAccountID); err != nil {
		return err
	}

	// Confirm the target exists so the caller gets NotFound rather than a silent no-op.
	target, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if target.IsAdmin && !active {
		return fmt.Errorf("%w: administrator accounts cannot be deactivated", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	if err := s.accountRepo.SetAccountActive(ctx, accountID, active, requestingAccountID, now); err != nil {
		logger.Error("Failed to set account active flag", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update account status: %w", err)
	}

	logger.Info("Account status changed", slog.String("account_id", accountID), slog.Bool("is_active", active))
	return nil
}
