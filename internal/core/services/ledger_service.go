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
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds = errors.New("insufficient available balance")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrSelfTransfer      = errors.New("cannot transfer to your own account")
	ErrAmountOutOfBounds = errors.New("amount is outside the allowed range")
	ErrGoalOverdraw      = errors.New("withdrawal exceeds goal allocation")
	ErrGoalFullyFunded   = errors.New("goal is already fully funded")
)

// MovementLimits carries the operator-configured bounds on movements.
type MovementLimits struct {
	MinDeposit decimal.Decimal
	MaxDeposit decimal.Decimal
	UndoWindow time.Duration
}

// ledgerService executes money movements. Every movement runs as a single
// database transaction over locked rows, so balances, goal allocations and
// journal entries always change together.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
	txnRepo     portsrepo.TransactionRepositoryWithTx
	goalRepo    portsrepo.GoalRepositoryFacade
	feeSvc      portssvc.FeeReaderSvc
	notifier    Notifier
	limits      MovementLimits
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	accountRepo portsrepo.AccountRepositoryWithTx,
	txnRepo portsrepo.TransactionRepositoryWithTx,
	goalRepo portsrepo.GoalRepositoryFacade,
	feeSvc portssvc.FeeReaderSvc,
	notifier Notifier,
	limits MovementLimits,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: BaseService{Accounts: accountRepo},
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		goalRepo:    goalRepo,
		feeSvc:      feeSvc,
		notifier:    notifier,
		limits:      limits,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) repos() movementRepos {
	return movementRepos{
		accountRepo: s.accountRepo,
		txnRepo:     s.txnRepo,
		goalRepo:    s.goalRepo,
	}
}

// notifyCommitted delivers a post-commit movement event without tying it to
// the request lifetime.
func (s *ledgerService) notifyCommitted(ctx context.Context, entry domain.Transaction) {
	if s.notifier == nil {
		return
	}
	go s.notifier.MovementCompleted(context.WithoutCancel(ctx), entry)
}

func (s *ledgerService) undoDeadline(now time.Time) *time.Time {
	deadline := now.Add(s.limits.UndoWindow)
	return &deadline
}

// activeAccount pulls an account out of the locked set, rejecting missing and
// frozen accounts.
func activeAccount(accounts map[string]domain.Account, accountID string) (domain.Account, error) {
	account, ok := accounts[accountID]
	if !ok {
		return domain.Account{}, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	if !account.IsActive {
		return domain.Account{}, fmt.Errorf("%w: account %s", ErrAccountInactive, accountID)
	}
	return account, nil
}

// Deposit credits an account from an external source.
func (s *ledgerService) Deposit(ctx context.Context, accountID string, req dto.DepositRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThan(s.limits.MinDeposit) || req.Amount.GreaterThan(s.limits.MaxDeposit) {
		return nil, fmt.Errorf("%w: deposit must be between %s and %s", ErrAmountOutOfBounds, s.limits.MinDeposit, s.limits.MaxDeposit)
	}

	now := time.Now().UTC()
	var entry domain.Transaction

	err := runAtomicMovement(ctx, s.repos(), []string{accountID}, nil, accountID, now,
		func(accounts map[string]domain.Account, _ *domain.Goal) (*movementPlan, error) {
			account, err := activeAccount(accounts, accountID)
			if err != nil {
				return nil, err
			}

			newBalance := account.Balance.Add(req.Amount)
			entry = domain.Transaction{
				TransactionID:  uuid.NewString(),
				AccountID:      accountID,
				Kind:           domain.KindDeposit,
				Amount:         req.Amount,
				Fee:            decimal.Zero,
				Reference:      req.Reference,
				IsInitiator:    true,
				Status:         domain.Completed,
				UndoDeadline:   s.undoDeadline(now),
				RunningBalance: newBalance,
				AuditFields:    auditFields(accountID, now),
			}

			return &movementPlan{
				entries:        []domain.Transaction{entry},
				balanceChanges: map[string]decimal.Decimal{accountID: req.Amount},
			}, nil
		})
	if err != nil {
		return nil, err
	}

	logger.Info("Deposit completed", slog.String("transaction_id", entry.TransactionID), slog.String("account_id", accountID), slog.String("amount", req.Amount.String()))
	s.notifyCommitted(ctx, entry)
	return &entry, nil
}

// Transfer moves money from the caller's account to another account, charging
// the transfer fee. Two journal entries are written, one per side; the
// sender-side entry is returned and carries the undo deadline.
func (s *ledgerService) Transfer(ctx context.Context, accountID string, req dto.TransferRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	recipient, err := s.accountRepo.FindAccountByNumber(ctx, req.RecipientAccountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipient account", apperrors.ErrNotFound)
		}
		logger.Error("Failed to resolve recipient account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to resolve recipient account: %w", err)
	}
	if recipient.AccountID == accountID {
		return nil, ErrSelfTransfer
	}

	fee, err := s.feeSvc.ComputeFee(ctx, domain.KindTransfer, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute transfer fee: %w", err)
	}

	now := time.Now().UTC()
	var senderEntry domain.Transaction

	err = runAtomicMovement(ctx, s.repos(), []string{accountID, recipient.AccountID}, nil, accountID, now,
		func(accounts map[string]domain.Account, _ *domain.Goal) (*movementPlan, error) {
			sender, err := activeAccount(accounts, accountID)
			if err != nil {
				return nil, err
			}
			recipientLocked, err := activeAccount(accounts, recipient.AccountID)
			if err != nil {
				return nil, err
			}

			if !sender.CanAfford(req.Amount, fee) {
				return nil, fmt.Errorf("%w: need %s, have %s", ErrInsufficientFunds, req.Amount.Add(fee), sender.Balance)
			}

			senderBalance := sender.Balance.Sub(req.Amount).Sub(fee)
			recipientBalance := recipientLocked.Balance.Add(req.Amount)

			senderEntryID := uuid.NewString()
			recipientEntryID := uuid.NewString()

			senderEntry = domain.Transaction{
				TransactionID:             senderEntryID,
				AccountID:                 accountID,
				Kind:                      domain.KindTransfer,
				Amount:                    req.Amount,
				Fee:                       fee,
				Reference:                 req.Reference,
				CounterpartyAccountNumber: recipientLocked.AccountNumber,
				CounterpartyName:          recipientLocked.DisplayName,
				IsInitiator:               true,
				Status:                    domain.Completed,
				UndoDeadline:              s.undoDeadline(now),
				PairedTransactionID:       &recipientEntryID,
				RunningBalance:            senderBalance,
				AuditFields:               auditFields(accountID, now),
			}
			recipientEntry := domain.Transaction{
				TransactionID:             recipientEntryID,
				AccountID:                 recipientLocked.AccountID,
				Kind:                      domain.KindTransfer,
				Amount:                    req.Amount,
				Fee:                       decimal.Zero,
				Reference:                 incomingTransferReference(sender.DisplayName, req.Reference),
				CounterpartyAccountNumber: sender.AccountNumber,
				CounterpartyName:          sender.DisplayName,
				IsInitiator:               false,
				Status:                    domain.Completed,
				UndoDeadline:              s.undoDeadline(now),
				PairedTransactionID:       &senderEntryID,
				RunningBalance:            recipientBalance,
				AuditFields:               auditFields(accountID, now),
			}

			return &movementPlan{
				entries: []domain.Transaction{senderEntry, recipientEntry},
				balanceChanges: map[string]decimal.Decimal{
					accountID:                 req.Amount.Add(fee).Neg(),
					recipientLocked.AccountID: req.Amount,
				},
			}, nil
		})
	if err != nil {
		return nil, err
	}

	logger.Info("Transfer completed",
		slog.String("transaction_id", senderEntry.TransactionID),
		slog.String("sender_account_id", accountID),
		slog.String("recipient_account_id", recipient.AccountID),
		slog.String("amount", req.Amount.String()),
		slog.String("fee", fee.String()),
	)
	s.notifyCommitted(ctx, senderEntry)
	return &senderEntry, nil
}

// PayUtility debits the caller's account for a biller payment, charging the utility fee.
func (s *ledgerService) PayUtility(ctx context.Context, accountID string, req dto.UtilityPaymentRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	service := domain.UtilityService(req.Service)
	if !service.IsValid() {
		return nil, fmt.Errorf("%w: unknown utility service %q", apperrors.ErrValidation, req.Service)
	}

	fee, err := s.feeSvc.ComputeFee(ctx, domain.KindUtility, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute utility fee: %w", err)
	}

	now := time.Now().UTC()
	var entry domain.Transaction

	err = runAtomicMovement(ctx, s.repos(), []string{accountID}, nil, accountID, now,
		func(accounts map[string]domain.Account, _ *domain.Goal) (*movementPlan, error) {
			account, err := activeAccount(accounts, accountID)
			if err != nil {
				return nil, err
			}
			if !account.CanAfford(req.Amount, fee) {
				return nil, fmt.Errorf("%w: need %s, have %s", ErrInsufficientFunds, req.Amount.Add(fee), account.Balance)
			}

			newBalance := account.Balance.Sub(req.Amount).Sub(fee)
			entry = domain.Transaction{
				TransactionID:             uuid.NewString(),
				AccountID:                 accountID,
				Kind:                      domain.KindUtility,
				Amount:                    req.Amount,
				Fee:                       fee,
				Reference:                 req.Reference,
				CounterpartyAccountNumber: req.TargetAccount,
				CounterpartyName:          service.Label(),
				IsInitiator:               true,
				Status:                    domain.Completed,
				UndoDeadline:              s.undoDeadline(now),
				RunningBalance:            newBalance,
				AuditFields:               auditFields(accountID, now),
			}

			return &movementPlan{
				entries:        []domain.Transaction{entry},
				balanceChanges: map[string]decimal.Decimal{accountID: req.Amount.Add(fee).Neg()},
			}, nil
		})
	if err != nil {
		return nil, err
	}

	logger.Info("Utility payment completed", slog.String("transaction_id", entry.TransactionID), slog.String("account_id", accountID), slog.String("service", req.Service), slog.String("target_account", req.TargetAccount))
	s.notifyCommitted(ctx, entry)
	return &entry, nil
}

// GoalDeposit allocates money from the available balance into a goal.
// Allocation beyond the goal target is clamped to the remaining headroom, so
// the journal entry amount is the applied amount, not the requested one.
func (s *ledgerService) GoalDeposit(ctx context.Context, accountID string, goalID string, req dto.GoalMovementRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	var entry domain.Transaction

	err := runAtomicMovement(ctx, s.repos(), []string{accountID}, &goalID, accountID, now,
		func(accounts map[string]domain.Account, goal *domain.Goal) (*movementPlan, error) {
			account, err := activeAccount(accounts, accountID)
			if err != nil {
				return nil, err
			}
			if goal.AccountID != accountID {
				// Obscure existence of other accounts' goals.
				return nil, fmt.Errorf("%w: goal %s", apperrors.ErrNotFound, goalID)
			}

			headroom := goal.Headroom()
			if headroom.LessThanOrEqual(decimal.Zero) {
				return nil, ErrGoalFullyFunded
			}
			applied := decimal.Min(req.Amount, headroom)

			if account.Balance.LessThan(applied) {
				return nil, fmt.Errorf("%w: need %s, have %s", ErrInsufficientFunds, applied, account.Balance)
			}

			goal.CurrentAmount = goal.CurrentAmount.Add(applied)
			goal.IsCompleted = goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount)
			goal.LastUpdatedAt = now
			goal.LastUpdatedBy = accountID

			newBalance := account.Balance.Sub(applied)
			entry = domain.Transaction{
				TransactionID:    uuid.NewString(),
				AccountID:        accountID,
				Kind:             domain.KindGoalDeposit,
				Amount:           applied,
				Fee:              decimal.Zero,
				CounterpartyName: goal.Name,
				IsInitiator:      true,
				Status:           domain.Completed,
				RunningBalance:   newBalance,
				AuditFields:      auditFields(accountID, now),
			}

			return &movementPlan{
				entries:        []domain.Transaction{entry},
				balanceChanges: map[string]decimal.Decimal{accountID: applied.Neg()},
				goal:           goal,
			}, nil
		})
	if err != nil {
		return nil, err
	}

	logger.Info("Goal deposit completed", slog.String("transaction_id", entry.TransactionID), slog.String("goal_id", goalID), slog.String("applied", entry.Amount.String()))
	s.notifyCommitted(ctx, entry)
	return &entry, nil
}

// GoalWithdraw releases money from a goal back into the available balance.
func (s *ledgerService) GoalWithdraw(ctx context.Context, accountID string, goalID string, req dto.GoalMovementRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	var entry domain.Transaction

	err := runAtomicMovement(ctx, s.repos(), []string{accountID}, &goalID, accountID, now,
		func(accounts map[string]domain.Account, goal *domain.Goal) (*movementPlan, error) {
			account, err := activeAccount(accounts, accountID)
			if err != nil {
				return nil, err
			}
			if goal.AccountID != accountID {
				return nil, fmt.Errorf("%w: goal %s", apperrors.ErrNotFound, goalID)
			}

			if req.Amount.GreaterThan(goal.CurrentAmount) {
				return nil, fmt.Errorf("%w: allocated %s, requested %s", ErrGoalOverdraw, goal.CurrentAmount, req.Amount)
			}

			goal.CurrentAmount = goal.CurrentAmount.Sub(req.Amount)
			goal.IsCompleted = goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount)
			goal.LastUpdatedAt = now
			goal.LastUpdatedBy = accountID

			newBalance := account.Balance.Add(req.Amount)
			entry = domain.Transaction{
				TransactionID:    uuid.NewString(),
				AccountID:        accountID,
				Kind:             domain.KindGoalWithdrawal,
				Amount:           req.Amount,
				Fee:              decimal.Zero,
				CounterpartyName: goal.Name,
				IsInitiator:      true,
				Status:           domain.Completed,
				RunningBalance:   newBalance,
				AuditFields:      auditFields(accountID, now),
			}

			return &movementPlan{
				entries:        []domain.Transaction{entry},
				balanceChanges: map[string]decimal.Decimal{accountID: req.Amount},
				goal:           goal,
			}, nil
		})
	if err != nil {
		return nil, err
	}

	logger.Info("Goal withdrawal completed", slog.String("transaction_id", entry.TransactionID), slog.String("goal_id", goalID), slog.String("amount", req.Amount.String()))
	s.notifyCommitted(ctx, entry)
	return &entry, nil
}

// GetTransactionByID retrieves a specific entry together with the reversal
// entries that compensated it, when it has been reversed. Non-admin callers
// may only read entries on their own account.
func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string, requestingAccountID string) (*domain.Transaction, []domain.Transaction, error) {
	entry, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find entry by ID", slog.String("transaction_id", transactionID))
		}
		return nil, nil, err
	}

	if entry.AccountID != requestingAccountID {
		if err := s.RequireAdmin(ctx, requestingAccountID); err != nil {
			// Obscure existence of other accounts' entries.
			return nil, nil, apperrors.ErrNotFound
		}
	}

	var reversals []domain.Transaction
	if entry.Status == domain.Reversed {
		reversals, err = s.txnRepo.FindReversalsByOriginalID(ctx, entry.TransactionID)
		if err != nil {
			s.LogError(ctx, err, "Failed to load reversals for entry", slog.String("transaction_id", transactionID))
			return nil, nil, fmt.Errorf("failed to load reversals: %w", err)
		}
	}
	return entry, reversals, nil
}

// ListTransactions retrieves a page of the account's entries, newest first.
func (s *ledgerService) ListTransactions(ctx context.Context, accountID string, requestingAccountID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if accountID != requestingAccountID {
		if err := s.RequireAdmin(ctx, requestingAccountID); err != nil {
			return nil, nil, err
		}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.txnRepo.ListTransactionsByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list entries by account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	logger.Debug("Entries listed successfully", slog.String("account_id", accountID), slog.Int("count", len(entries)))
	return entries, nextToken, nil
}

// incomingTransferReference labels the recipient's side of a transfer with the
// sender's name, keeping any reference the sender attached.
func incomingTransferReference(senderName string, reference string) string {
	if reference == "" {
		return fmt.Sprintf("From %s", senderName)
	}
	return fmt.Sprintf("From %s: %s", senderName, reference)
}

// auditFields stamps creation metadata for entries written on behalf of an account.
func auditFields(actorID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
}
