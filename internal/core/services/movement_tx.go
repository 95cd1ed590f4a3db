package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	portsrepo "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// movementPlan describes everything a single atomic movement writes:
// the journal entries, the net balance change per account, an optional
// goal write-back and an optional guarded status flip of an original entry.
type movementPlan struct {
	entries        []domain.Transaction
	balanceChanges map[string]decimal.Decimal
	goal           *domain.Goal
	reverseOfIDs   []string
}

// movementRepos bundles the repositories a movement touches.
type movementRepos struct {
	accountRepo portsrepo.AccountRepositoryWithTx
	txnRepo     portsrepo.TransactionRepositoryWithTx
	goalRepo    portsrepo.GoalRepositoryFacade
}

// runAtomicMovement executes one money movement as a single database
// transaction. It locks the affected account rows (and goal row, when given),
// hands the locked state to build, then applies the resulting plan and
// commits. Any error rolls everything back, leaving balances, goals and the
// journal untouched.
//
// Account IDs are locked in sorted order by the repository so concurrent
// movements over the same accounts cannot deadlock.
func runAtomicMovement(
	ctx context.Context,
	repos movementRepos,
	accountIDs []string,
	goalID *string,
	userID string,
	now time.Time,
	build func(accounts map[string]domain.Account, goal *domain.Goal) (*movementPlan, error),
) error {
	tx, err := repos.txnRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin movement transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = repos.txnRepo.Rollback(ctx, tx)
		}
	}()

	accounts, err := repos.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}

	var goal *domain.Goal
	if goalID != nil {
		goal, err = repos.goalRepo.FindGoalByIDForUpdate(ctx, tx, *goalID)
		if err != nil {
			return fmt.Errorf("failed to lock goal: %w", err)
		}
	}

	plan, err := build(accounts, goal)
	if err != nil {
		return err
	}

	if len(plan.balanceChanges) > 0 {
		if err := repos.accountRepo.UpdateAccountBalancesInTx(ctx, tx, plan.balanceChanges, userID, now); err != nil {
			return fmt.Errorf("failed to update balances: %w", err)
		}
	}

	if err := repos.txnRepo.SaveTransactionsInTx(ctx, tx, plan.entries); err != nil {
		return fmt.Errorf("failed to save ledger entries: %w", err)
	}

	if plan.goal != nil {
		if err := repos.goalRepo.UpdateGoalInTx(ctx, tx, *plan.goal); err != nil {
			return fmt.Errorf("failed to update goal allocation: %w", err)
		}
	}

	for _, originalID := range plan.reverseOfIDs {
		if err := repos.txnRepo.MarkTransactionReversedInTx(ctx, tx, originalID, userID, now); err != nil {
			return err
		}
	}

	if err := repos.txnRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit movement: %w", err)
	}
	committed = true
	return nil
}
