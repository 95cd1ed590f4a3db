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

// goalService manages savings goal lifecycle. Money movement in and out of
// goals is handled by the ledger service; this service owns creation and reads.
type goalService struct {
	BaseService
	goalRepo    portsrepo.GoalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryWithTx
}

// NewGoalService creates a new goal service.
func NewGoalService(goalRepo portsrepo.GoalRepositoryFacade, accountRepo portsrepo.AccountRepositoryWithTx) portssvc.GoalSvcFacade {
	return &goalService{
		BaseService: BaseService{Accounts: accountRepo},
		goalRepo:    goalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.GoalSvcFacade = (*goalService)(nil)

// CreateGoal creates a new savings goal for the caller's account.
func (s *goalService) CreateGoal(ctx context.Context, accountID string, req dto.CreateGoalRequest) (*domain.Goal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: target amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	if req.Deadline != nil && req.Deadline.Before(now) {
		return nil, fmt.Errorf("%w: deadline must be in the future", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s", ErrAccountInactive, accountID)
	}

	goal := domain.Goal{
		GoalID:        uuid.NewString(),
		AccountID:     accountID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      req.Deadline,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     accountID,
			LastUpdatedAt: now,
			LastUpdatedBy: accountID,
		},
	}

	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		logger.Error("Failed to save goal", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}

	logger.Info("Goal created", slog.String("goal_id", goal.GoalID), slog.String("account_id", accountID))
	return &goal, nil
}

// GetGoalByID retrieves a specific goal. Callers may only read their own goals.
func (s *goalService) GetGoalByID(ctx context.Context, goalID string, requestingAccountID string) (*domain.Goal, error) {
	goal, err := s.goalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find goal by ID", slog.String("goal_id", goalID))
		}
		return nil, err
	}

	if goal.AccountID != requestingAccountID {
		// Obscure existence of other accounts' goals.
		return nil, apperrors.ErrNotFound
	}
	return goal, nil
}

// ListGoals retrieves all goals belonging to the caller's account.
func (s *goalService) ListGoals(ctx context.Context, accountID string, requestingAccountID string) ([]domain.Goal, error) {
	if accountID != requestingAccountID {
		if err := s.RequireAdmin(ctx, requestingAccountID); err != nil {
			return nil, err
		}
	}

	goals, err := s.goalRepo.ListGoalsByAccountID(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goals", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}
