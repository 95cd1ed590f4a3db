package services

import (
	"context"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/dto"
	"github.com/shopspring/decimal"
)

// FeeReaderSvc defines fee computation and policy read operations
type FeeReaderSvc interface {
	// ComputeFee returns the fee charged for moving the given amount with the given kind.
	// Kinds without an active policy are free.
	ComputeFee(ctx context.Context, kind domain.TransactionKind, amount decimal.Decimal) (decimal.Decimal, error)

	// ListFeePolicies retrieves all fee policies. Admin only.
	ListFeePolicies(ctx context.Context, requestingAccountID string) ([]domain.FeePolicy, error)
}

// FeeWriterSvc defines fee policy administration operations
type FeeWriterSvc interface {
	// CreateFeePolicy creates a new fee policy, deactivating any active policy of the same kind. Admin only.
	CreateFeePolicy(ctx context.Context, req dto.CreateFeePolicyRequest, requestingAccountID string) (*domain.FeePolicy, error)

	// UpdateFeePolicy updates a fee policy's parameters. Admin only.
	UpdateFeePolicy(ctx context.Context, feePolicyID string, req dto.UpdateFeePolicyRequest, requestingAccountID string) (*domain.FeePolicy, error)
}

// FeeSvcFacade combines all fee-related service interfaces
type FeeSvcFacade interface {
	FeeReaderSvc
	FeeWriterSvc
}
