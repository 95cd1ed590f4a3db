package repositories

import (
	"context"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
)

// FeePolicyReader defines read operations for fee policy data
type FeePolicyReader interface {
	// FindActiveFeePolicyByKind retrieves the active fee policy for a transaction kind.
	FindActiveFeePolicyByKind(ctx context.Context, kind domain.TransactionKind) (*domain.FeePolicy, error)

	// FindFeePolicyByID retrieves a specific fee policy by its unique identifier.
	FindFeePolicyByID(ctx context.Context, feePolicyID string) (*domain.FeePolicy, error)

	// ListFeePolicies retrieves all fee policies, active and inactive.
	ListFeePolicies(ctx context.Context) ([]domain.FeePolicy, error)
}

// FeePolicyWriter defines write operations for fee policy data
type FeePolicyWriter interface {
	// SaveFeePolicy persists a new fee policy.
	SaveFeePolicy(ctx context.Context, policy domain.FeePolicy) error

	// UpdateFeePolicy updates an existing fee policy.
	UpdateFeePolicy(ctx context.Context, policy domain.FeePolicy) error
}

// FeePolicyRepositoryFacade combines all fee policy repository interfaces
type FeePolicyRepositoryFacade interface {
	FeePolicyReader
	FeePolicyWriter
}
