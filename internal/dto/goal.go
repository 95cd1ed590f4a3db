package dto

import (
	"time"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateGoalRequest defines the data needed to create a savings goal.
type CreateGoalRequest struct {
	Name         string          `json:"name" binding:"required,min=2,max=100"`
	TargetAmount decimal.Decimal `json:"targetAmount" binding:"required"`
	Deadline     *time.Time      `json:"deadline"` // Optional
}

// GoalResponse defines the data returned for a savings goal.
type GoalResponse struct {
	GoalID        string          `json:"goalID"`
	AccountID     string          `json:"accountID"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Progress      decimal.Decimal `json:"progress"` // percentage, 2dp
	Deadline      *time.Time      `json:"deadline,omitempty"`
	IsCompleted   bool            `json:"isCompleted"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToGoalResponse converts a domain.Goal to GoalResponse DTO
func ToGoalResponse(g *domain.Goal) GoalResponse {
	return GoalResponse{
		GoalID:        g.GoalID,
		AccountID:     g.AccountID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Progress:      g.ProgressPercentage(),
		Deadline:      g.Deadline,
		IsCompleted:   g.IsCompleted,
		CreatedAt:     g.CreatedAt,
	}
}

// ToListGoalResponse converts a slice of domain.Goal to a slice of GoalResponse DTOs
func ToListGoalResponse(goals []domain.Goal) []GoalResponse {
	res := make([]GoalResponse, len(goals))
	for i, g := range goals {
		res[i] = ToGoalResponse(&g)
	}
	return res
}

// ListGoalsResponse wraps the list of goals.
type ListGoalsResponse struct {
	Goals []GoalResponse `json:"goals"`
}
