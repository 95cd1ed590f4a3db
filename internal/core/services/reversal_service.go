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
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyReversed   = errors.New("entry has already been reversed")
	ErrUndoWindowExpired = errors.New("undo window has expired")
	ErrNotInitiator      = errors.New("only the initiating side of an entry can be reversed")
	ErrNotUndoable       = errors.New("this entry kind cannot be undone")
)

// reversalService reverses completed entries: customer undo within the time
// window, and admin force-reverse at any time. A reversal writes compensating
// entries and flips the original to REVERSED; fees are never refunded.
type reversalService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
	txnRepo     portsrepo.TransactionRepositoryWithTx
	goalRepo    portsrepo.GoalRepositoryFacade
	notifier    Notifier
}

// NewReversalService creates a new reversal service.
func NewReversalService(
	accountRepo portsrepo.AccountRepositoryWithTx,
	txnRepo portsrepo.TransactionRepositoryWithTx,
	goalRepo portsrepo.GoalRepositoryFacade,
	notifier Notifier,
) portssvc.ReversalSvc {
	return &reversalService{
		BaseService: BaseService{Accounts: accountRepo},
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		goalRepo:    goalRepo,
		notifier:    notifier,
	}
}

var _ portssvc.ReversalSvc = (*reversalService)(nil)

// Undo reverses the caller's own entry while its undo window is still open.
func (s *reversalService) Undo(ctx context.Context, transactionID string, requestingAccountID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry for undo", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	if entry.AccountID != requestingAccountID {
		// Obscure existence of other accounts' entries.
		return nil, apperrors.ErrNotFound
	}

	if !entry.Kind.IsUndoableKind() {
		return nil, ErrNotUndoable
	}
	if entry.Status != domain.Completed {
		return nil, ErrAlreadyReversed
	}
	if !entry.IsInitiator {
		return nil, ErrNotInitiator
	}
	now := time.Now().UTC()
	if entry.UndoDeadline == nil || !now.Before(*entry.UndoDeadline) {
		return nil, ErrUndoWindowExpired
	}

	reversal, err := s.performReversal(ctx, entry, requestingAccountID, "Undo of "+entry.Description(), now)
	if err != nil {
		return nil, err
	}

	logger.Info("Entry undone", slog.String("transaction_id", transactionID), slog.String("reversal_id", reversal.TransactionID))
	return reversal, nil
}

// ForceReverse reverses any completed entry regardless of the undo window.
// Admin only. Either side of a transfer may be named; the reversal always
// runs against the initiating entry. The reason is recorded on the reversal
// entries.
func (s *reversalService) ForceReverse(ctx context.Context, transactionID string, requestingAccountID string, reason string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.RequireAdmin(ctx, requestingAccountID); err != nil {
		return nil, err
	}

	entry, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry for force reverse", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		}
		return nil, err
	}

	if entry.Kind == domain.KindReversal {
		return nil, fmt.Errorf("%w: cannot reverse a reversal", apperrors.ErrValidation)
	}
	if entry.Kind == domain.KindGoalDeposit || entry.Kind == domain.KindGoalWithdrawal {
		return nil, fmt.Errorf("%w: goal allocations are balanced by an opposite goal movement", apperrors.ErrValidation)
	}
	if !entry.IsInitiator {
		// The recipient side of a transfer was named; reverse through the
		// initiating sibling so both sides unwind together.
		if entry.PairedTransactionID == nil {
			return nil, fmt.Errorf("%w: entry has no initiating side", apperrors.ErrValidation)
		}
		sibling, err := s.txnRepo.FindTransactionByID(ctx, *entry.PairedTransactionID)
		if err != nil {
			logger.Error("Failed to resolve initiating side for force reverse", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to resolve initiating side: %w", err)
		}
		entry = sibling
	}
	if entry.Status != domain.Completed {
		return nil, ErrAlreadyReversed
	}

	now := time.Now().UTC()
	reversal, err := s.performReversal(ctx, entry, requestingAccountID, reason, now)
	if err != nil {
		return nil, err
	}

	logger.Info("Entry force-reversed",
		slog.String("transaction_id", transactionID),
		slog.String("reversal_id", reversal.TransactionID),
		slog.String("admin_account_id", requestingAccountID),
	)
	return reversal, nil
}

// performReversal writes the compensating entries for an original entry and
// flips it to REVERSED, all in one atomic movement. It returns the reversal
// entry on the original account's side.
//
// The money that comes back is the principal only: fees stay collected, both
// for customer undo and admin reversal.
func (s *reversalService) performReversal(ctx context.Context, original *domain.Transaction, actorID string, reference string, now time.Time) (*domain.Transaction, error) {
	var reversal domain.Transaction

	accountIDs := []string{original.AccountID}
	var counterparty *domain.Account
	if original.Kind == domain.KindTransfer {
		found, err := s.accountRepo.FindAccountByNumber(ctx, original.CounterpartyAccountNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve transfer counterparty: %w", err)
		}
		counterparty = found
		accountIDs = append(accountIDs, counterparty.AccountID)
	}

	repos := movementRepos{
		accountRepo: s.accountRepo,
		txnRepo:     s.txnRepo,
		goalRepo:    s.goalRepo,
	}

	err := runAtomicMovement(ctx, repos, accountIDs, nil, actorID, now,
		func(accounts map[string]domain.Account, _ *domain.Goal) (*movementPlan, error) {
			owner, ok := accounts[original.AccountID]
			if !ok {
				return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, original.AccountID)
			}

			plan := &movementPlan{
				balanceChanges: make(map[string]decimal.Decimal),
				reverseOfIDs:   []string{original.TransactionID},
			}

			switch original.Kind {
			case domain.KindDeposit:
				// Claw the deposit back; the account must still hold it.
				if owner.Balance.LessThan(original.Amount) {
					return nil, fmt.Errorf("%w: need %s, have %s", ErrInsufficientFunds, original.Amount, owner.Balance)
				}
				reversal = s.reversalEntry(original, owner.AccountID, false, owner.Balance.Sub(original.Amount), actorID, reference, now)
				plan.balanceChanges[owner.AccountID] = original.Amount.Neg()
				plan.entries = []domain.Transaction{reversal}

			case domain.KindUtility:
				reversal = s.reversalEntry(original, owner.AccountID, true, owner.Balance.Add(original.Amount), actorID, reference, now)
				plan.balanceChanges[owner.AccountID] = original.Amount
				plan.entries = []domain.Transaction{reversal}

			case domain.KindTransfer:
				recipient, ok := accounts[counterparty.AccountID]
				if !ok {
					return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, counterparty.AccountID)
				}
				// The principal returns from the recipient, who must still hold it.
				if recipient.Balance.LessThan(original.Amount) {
					return nil, fmt.Errorf("%w: recipient holds %s, reversal needs %s", ErrInsufficientFunds, recipient.Balance, original.Amount)
				}
				reversal = s.reversalEntry(original, owner.AccountID, true, owner.Balance.Add(original.Amount), actorID, reference, now)
				recipientReversal := s.reversalEntry(original, recipient.AccountID, false, recipient.Balance.Sub(original.Amount), actorID, reference, now)
				recipientReversal.CounterpartyAccountNumber = owner.AccountNumber
				recipientReversal.CounterpartyName = owner.DisplayName
				if original.PairedTransactionID != nil {
					// Link the recipient reversal to the recipient's own
					// entry and flip that side too.
					recipientReversal.OriginalTransactionID = original.PairedTransactionID
					plan.reverseOfIDs = append(plan.reverseOfIDs, *original.PairedTransactionID)
				}
				reversal.PairedTransactionID = &recipientReversal.TransactionID
				recipientReversal.PairedTransactionID = &reversal.TransactionID
				plan.balanceChanges[owner.AccountID] = original.Amount
				plan.balanceChanges[recipient.AccountID] = original.Amount.Neg()
				plan.entries = []domain.Transaction{reversal, recipientReversal}

			default:
				return nil, fmt.Errorf("%w: kind %s cannot be reversed", apperrors.ErrValidation, original.Kind)
			}

			return plan, nil
		})
	if err != nil {
		// The guarded status flip reports a conflict when another reversal won the race.
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadyReversed
		}
		return nil, err
	}

	if s.notifier != nil {
		go s.notifier.MovementCompleted(context.WithoutCancel(ctx), reversal)
	}
	return &reversal, nil
}

// reversalEntry builds one side of a reversal. isCredit records whether the
// entry returns money to the account, which drives how history displays it.
func (s *reversalService) reversalEntry(original *domain.Transaction, accountID string, isCredit bool, runningBalance decimal.Decimal, actorID string, reference string, now time.Time) domain.Transaction {
	originalID := original.TransactionID
	return domain.Transaction{
		TransactionID:             uuid.NewString(),
		AccountID:                 accountID,
		Kind:                      domain.KindReversal,
		Amount:                    original.Amount,
		Fee:                       decimal.Zero,
		Reference:                 reference,
		CounterpartyAccountNumber: original.CounterpartyAccountNumber,
		CounterpartyName:          original.CounterpartyName,
		IsInitiator:               isCredit,
		Status:                    domain.Completed,
		OriginalTransactionID:     &originalID,
		RunningBalance:            runningBalance,
		AuditFields:               auditFields(actorID, now),
	}
}
