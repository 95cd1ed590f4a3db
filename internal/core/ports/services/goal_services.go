package services

import (
	"context"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/dto"
)

// GoalReaderSvc defines read operations for savings goals
type GoalReaderSvc interface {
	// GetGoalByID retrieves a specific goal. Callers may only read their own goals.
	GetGoalByID(ctx context.Context, goalID string, requestingAccountID string) (*domain.Goal, error)

	// ListGoals retrieves all goals belonging to the caller's account.
	ListGoals(ctx context.Context, accountID string, requestingAccountID string) ([]domain.Goal, error)
}

// GoalWriterSvc defines write operations for savings goals
type GoalWriterSvc interface {
	// CreateGoal creates a new savings goal for the caller's account.
	CreateGoal(ctx context.Context, accountID string, req dto.CreateGoalRequest) (*domain.Goal, error)
}

// GoalSvcFacade combines all goal-related service interfaces
type GoalSvcFacade interface {
	GoalReaderSvc
	GoalWriterSvc
}
