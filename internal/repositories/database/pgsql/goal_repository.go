package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/apperrors"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	portsrepo "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/repositories"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/models"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const goalColumns = "goal_id, account_id, name, target_amount, current_amount, deadline, is_completed, created_at, created_by, last_updated_at, last_updated_by"

type PgxGoalRepository struct {
	BaseRepository
}

// newPgxGoalRepository creates a new repository for savings goal data.
func newPgxGoalRepository(pool *pgxpool.Pool) portsrepo.GoalRepositoryFacade {
	return &PgxGoalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GoalRepositoryFacade = (*PgxGoalRepository)(nil)

// scanGoal reads one goal row in goalColumns order.
func scanGoal(row pgx.Row) (models.Goal, error) {
	var m models.Goal
	err := row.Scan(
		&m.GoalID,
		&m.AccountID,
		&m.Name,
		&m.TargetAmount,
		&m.CurrentAmount,
		&m.Deadline,
		&m.IsCompleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveGoal persists a new goal.
func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)

	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	_, err := r.Pool.Exec(ctx, query,
		m.GoalID,
		m.AccountID,
		m.Name,
		m.TargetAmount,
		m.CurrentAmount,
		m.Deadline,
		m.IsCompleted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save goal %s: %w", m.GoalID, err)
	}
	return nil
}

// FindGoalByID retrieves a specific goal by its unique identifier.
func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE goal_id = $1;`

	m, err := scanGoal(r.Pool.QueryRow(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find goal by ID %s: %w", goalID, err)
	}

	d := mapping.ToDomainGoal(m)
	return &d, nil
}

// ListGoalsByAccountID retrieves all goals belonging to an account.
func (r *PgxGoalRepository) ListGoalsByAccountID(ctx context.Context, accountID string) ([]domain.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE account_id = $1
		ORDER BY created_at DESC, goal_id;
	`

	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals for account %s: %w", accountID, err)
	}
	defer rows.Close()

	modelGoals := []models.Goal{}
	for rows.Next() {
		m, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal row: %w", err)
		}
		modelGoals = append(modelGoals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goal rows: %w", err)
	}

	return mapping.ToDomainGoalSlice(modelGoals), nil
}

// UpdateGoal updates an existing goal's details.
func (r *PgxGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)

	query := `
		UPDATE goals
		SET name = $2, target_amount = $3, current_amount = $4, deadline = $5, is_completed = $6, last_updated_at = $7, last_updated_by = $8
		WHERE goal_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.GoalID,
		m.Name,
		m.TargetAmount,
		m.CurrentAmount,
		m.Deadline,
		m.IsCompleted,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update goal %s: %w", m.GoalID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// FindGoalByIDForUpdate selects a goal and locks it for update within a transaction.
func (r *PgxGoalRepository) FindGoalByIDForUpdate(ctx context.Context, tx pgx.Tx, goalID string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE goal_id = $1 FOR UPDATE;`

	m, err := scanGoal(tx.QueryRow(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock goal %s: %w", goalID, err)
	}

	d := mapping.ToDomainGoal(m)
	return &d, nil
}

// UpdateGoalInTx writes back a goal's allocation state within a transaction.
func (r *PgxGoalRepository) UpdateGoalInTx(ctx context.Context, tx pgx.Tx, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)

	query := `
		UPDATE goals
		SET current_amount = $2, is_completed = $3, last_updated_at = $4, last_updated_by = $5
		WHERE goal_id = $1;
	`

	cmdTag, err := tx.Exec(ctx, query,
		m.GoalID,
		m.CurrentAmount,
		m.IsCompleted,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal allocation %s: %w", m.GoalID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
