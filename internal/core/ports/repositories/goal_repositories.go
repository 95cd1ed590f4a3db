package repositories

import (
	"context"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// GoalReader defines read operations for savings goal data
type GoalReader interface {
	// FindGoalByID retrieves a specific goal by its unique identifier.
	FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error)

	// ListGoalsByAccountID retrieves all goals belonging to an account.
	ListGoalsByAccountID(ctx context.Context, accountID string) ([]domain.Goal, error)
}

// GoalWriter defines write operations for savings goal data
type GoalWriter interface {
	// SaveGoal persists a new goal.
	SaveGoal(ctx context.Context, goal domain.Goal) error

	// UpdateGoal updates an existing goal's details.
	UpdateGoal(ctx context.Context, goal domain.Goal) error
}

// GoalTransactionSupport defines operations that support atomic goal allocation
type GoalTransactionSupport interface {
	// FindGoalByIDForUpdate selects a goal and locks it for update within a transaction.
	FindGoalByIDForUpdate(ctx context.Context, tx pgx.Tx, goalID string) (*domain.Goal, error)

	// UpdateGoalInTx writes back a goal's allocation state within a given transaction.
	UpdateGoalInTx(ctx context.Context, tx pgx.Tx, goal domain.Goal) error
}

// GoalRepositoryFacade combines all goal-related repository interfaces
type GoalRepositoryFacade interface {
	GoalReader
	GoalWriter
	GoalTransactionSupport
}
