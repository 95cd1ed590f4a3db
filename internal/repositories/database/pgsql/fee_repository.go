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

const feePolicyColumns = "fee_policy_id, name, kind, percentage, minimum_fee, maximum_fee, is_active, created_at, created_by, last_updated_at, last_updated_by"

type PgxFeePolicyRepository struct {
	BaseRepository
}

// newPgxFeePolicyRepository creates a new repository for fee policy data.
func newPgxFeePolicyRepository(pool *pgxpool.Pool) portsrepo.FeePolicyRepositoryFacade {
	return &PgxFeePolicyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FeePolicyRepositoryFacade = (*PgxFeePolicyRepository)(nil)

// scanFeePolicy reads one fee policy row in feePolicyColumns order.
func scanFeePolicy(row pgx.Row) (models.FeePolicy, error) {
	var m models.FeePolicy
	err := row.Scan(
		&m.FeePolicyID,
		&m.Name,
		&m.Kind,
		&m.Percentage,
		&m.MinimumFee,
		&m.MaximumFee,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindActiveFeePolicyByKind retrieves the active fee policy for a movement kind.
func (r *PgxFeePolicyRepository) FindActiveFeePolicyByKind(ctx context.Context, kind domain.TransactionKind) (*domain.FeePolicy, error) {
	query := `
		SELECT ` + feePolicyColumns + `
		FROM fee_policies
		WHERE kind = $1 AND is_active = TRUE
		ORDER BY last_updated_at DESC
		LIMIT 1;
	`

	m, err := scanFeePolicy(r.Pool.QueryRow(ctx, query, models.TransactionKind(kind)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active fee policy for kind %s: %w", kind, err)
	}

	d := mapping.ToDomainFeePolicy(m)
	return &d, nil
}

// FindFeePolicyByID retrieves a specific fee policy by its unique identifier.
func (r *PgxFeePolicyRepository) FindFeePolicyByID(ctx context.Context, feePolicyID string) (*domain.FeePolicy, error) {
	query := `SELECT ` + feePolicyColumns + ` FROM fee_policies WHERE fee_policy_id = $1;`

	m, err := scanFeePolicy(r.Pool.QueryRow(ctx, query, feePolicyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fee policy by ID %s: %w", feePolicyID, err)
	}

	d := mapping.ToDomainFeePolicy(m)
	return &d, nil
}

// ListFeePolicies retrieves all fee policies, active and inactive.
func (r *PgxFeePolicyRepository) ListFeePolicies(ctx context.Context) ([]domain.FeePolicy, error) {
	query := `
		SELECT ` + feePolicyColumns + `
		FROM fee_policies
		ORDER BY kind, is_active DESC, last_updated_at DESC;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fee policies: %w", err)
	}
	defer rows.Close()

	modelPolicies := []models.FeePolicy{}
	for rows.Next() {
		m, err := scanFeePolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fee policy row: %w", err)
		}
		modelPolicies = append(modelPolicies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee policy rows: %w", err)
	}

	return mapping.ToDomainFeePolicySlice(modelPolicies), nil
}

// SaveFeePolicy persists a new fee policy.
func (r *PgxFeePolicyRepository) SaveFeePolicy(ctx context.Context, policy domain.FeePolicy) error {
	m := mapping.ToModelFeePolicy(policy)

	query := `
		INSERT INTO fee_policies (` + feePolicyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	_, err := r.Pool.Exec(ctx, query,
		m.FeePolicyID,
		m.Name,
		m.Kind,
		m.Percentage,
		m.MinimumFee,
		m.MaximumFee,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save fee policy %s: %w", m.FeePolicyID, err)
	}
	return nil
}

// UpdateFeePolicy updates an existing fee policy.
func (r *PgxFeePolicyRepository) UpdateFeePolicy(ctx context.Context, policy domain.FeePolicy) error {
	m := mapping.ToModelFeePolicy(policy)

	query := `
		UPDATE fee_policies
		SET name = $2, percentage = $3, minimum_fee = $4, maximum_fee = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE fee_policy_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.FeePolicyID,
		m.Name,
		m.Percentage,
		m.MinimumFee,
		m.MaximumFee,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update fee policy %s: %w", m.FeePolicyID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
