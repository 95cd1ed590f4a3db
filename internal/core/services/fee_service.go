package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
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

// defaultFeePolicies are the built-in fallbacks used when no active policy row
// exists for a kind or the policy store is unreachable. They mirror the seeded
// policies, so deleting or deactivating a policy row never makes movements free.
var defaultFeePolicies = map[domain.TransactionKind]domain.FeePolicy{
	domain.KindTransfer: {
		Name:       "Standard transfer fee",
		Kind:       domain.KindTransfer,
		Percentage: decimal.NewFromInt(1),
		MinimumFee: decimal.NewFromInt(5),
		MaximumFee: decimalPtr(decimal.NewFromInt(50)),
		IsActive:   true,
	},
	domain.KindUtility: {
		Name:       "Standard utility fee",
		Kind:       domain.KindUtility,
		Percentage: decimal.Zero,
		MinimumFee: decimal.NewFromInt(5),
		MaximumFee: decimalPtr(decimal.NewFromInt(5)),
		IsActive:   true,
	},
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// cachedPolicy holds a policy lookup result with its fetch time.
// A nil policy caches the absence of an active policy for a kind.
type cachedPolicy struct {
	policy    *domain.FeePolicy
	fetchedAt time.Time
}

// feeService computes movement fees from admin-editable policies,
// caching lookups for a short TTL to keep them off the hot path.
type feeService struct {
	BaseService
	feeRepo  portsrepo.FeePolicyRepositoryFacade
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[domain.TransactionKind]cachedPolicy
}

// NewFeeService creates a new fee service.
func NewFeeService(feeRepo portsrepo.FeePolicyRepositoryFacade, accountReader portsrepo.AccountReader, cacheTTL time.Duration) portssvc.FeeSvcFacade {
	return &feeService{
		BaseService: BaseService{Accounts: accountReader},
		feeRepo:     feeRepo,
		cacheTTL:    cacheTTL,
		cache:       make(map[domain.TransactionKind]cachedPolicy),
	}
}

var _ portssvc.FeeSvcFacade = (*feeService)(nil)

// ComputeFee returns the fee for moving the given amount with the given kind.
// Kinds with no active policy and no built-in default are free. If the policy
// store is unreachable the built-in defaults are used so movements keep working.
func (s *feeService) ComputeFee(ctx context.Context, kind domain.TransactionKind, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	policy, err := s.activePolicy(ctx, kind)
	if err != nil {
		return decimal.Zero, err
	}
	if policy == nil {
		return decimal.Zero, nil
	}
	return policy.CalculateFee(amount), nil
}

// activePolicy returns the active policy for a kind, consulting the cache first.
func (s *feeService) activePolicy(ctx context.Context, kind domain.TransactionKind) (*domain.FeePolicy, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	s.mu.RLock()
	cached, ok := s.cache[kind]
	s.mu.RUnlock()
	if ok && now.Sub(cached.fetchedAt) < s.cacheTTL {
		return cached.policy, nil
	}

	policy, err := s.feeRepo.FindActiveFeePolicyByKind(ctx, kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// No active row: charge the static defaults, not zero.
			if fallback, ok := defaultFeePolicies[kind]; ok {
				fallbackCopy := fallback
				s.storeCached(kind, &fallbackCopy, now)
				return &fallbackCopy, nil
			}
			s.storeCached(kind, nil, now)
			return nil, nil
		}
		logger.Warn("Fee policy lookup failed, falling back to defaults", slog.String("kind", string(kind)), slog.String("error", err.Error()))
		if fallback, ok := defaultFeePolicies[kind]; ok {
			return &fallback, nil
		}
		return nil, nil
	}

	s.storeCached(kind, policy, now)
	return policy, nil
}

func (s *feeService) storeCached(kind domain.TransactionKind, policy *domain.FeePolicy, fetchedAt time.Time) {
	s.mu.Lock()
	s.cache[kind] = cachedPolicy{policy: policy, fetchedAt: fetchedAt}
	s.mu.Unlock()
}

// invalidateCache drops all cached lookups. Called after any policy write so
// admin edits take effect within a single request rather than a TTL.
func (s *feeService) invalidateCache() {
	s.mu.Lock()
	s.cache = make(map[domain.TransactionKind]cachedPolicy)
	s.mu.Unlock()
}

// ListFeePolicies retrieves all fee policies. Admin only.
func (s *feeService) ListFeePolicies(ctx context.Context, requestingAccountID string) ([]domain.FeePolicy, error) {
	if err := s.RequireAdmin(ctx, requestingAccountID); err != nil {
		return nil, err
	}

	policies, err := s.feeRepo.ListFeePolicies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fee policies")
		return nil, fmt.Errorf("failed to list fee policies: %w", err)
	}
	return policies, nil
}

// CreateFeePolicy creates a new fee policy, deactivating any active policy of
// the same kind so at most one policy governs each movement kind.
func (s *feeService) CreateFeePolicy(ctx context.Context, req dto.CreateFeePolicyRequest, requestingAccountID string) (*domain.FeePolicy, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.RequireAdmin(ctx, requestingAccountID); err != nil {
		return nil, err
	}
	if err := validateFeeParameters(req.Percentage, req.MinimumFee, req.MaximumFee); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	kind := domain.TransactionKind(req.Kind)

	// Deactivate the currently active policy of this kind, if any.
	existing, err := s.feeRepo.FindActiveFeePolicyByKind(ctx, kind)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check existing fee policy", slog.String("kind", req.Kind), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check existing fee policy: %w", err)
	}
	if existing != nil {
		existing.IsActive = false
		existing.LastUpdatedAt = now
		existing.LastUpdatedBy = requestingAccountID
		if err := s.feeRepo.UpdateFeePolicy(ctx, *existing); err != nil {
			logger.Error("Failed to deactivate previous fee policy", slog.String("fee_policy_id", existing.FeePolicyID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to deactivate previous fee policy: %w", err)
		}
	}

	policy := domain.FeePolicy{
		FeePolicyID: uuid.NewString(),
		Name:        req.Name,
		Kind:        kind,
		Percentage:  req.Percentage,
		MinimumFee:  req.MinimumFee,
		MaximumFee:  req.MaximumFee,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingAccountID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingAccountID,
		},
	}

	if err := s.feeRepo.SaveFeePolicy(ctx, policy); err != nil {
		logger.Error("Failed to save fee policy", slog.String("kind", req.Kind), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save fee policy: %w", err)
	}

	s.invalidateCache()
	logger.Info("Fee policy created", slog.String("fee_policy_id", policy.FeePolicyID), slog.String("kind", req.Kind))
	return &policy, nil
}

// UpdateFeePolicy updates a fee policy's parameters. Admin only.
func (s *feeService) UpdateFeePolicy(ctx context.Context, feePolicyID string, req dto.UpdateFeePolicyRequest, requestingAccountID string) (*domain.FeePolicy, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.RequireAdmin(ctx, requestingAccountID); err != nil {
		return nil, err
	}

	policy, err := s.feeRepo.FindFeePolicyByID(ctx, feePolicyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find fee policy for update", slog.String("fee_policy_id", feePolicyID), slog.String("error", err.Error()))
		}
		return nil, err
	}

	updated := false
	if req.Name != nil {
		policy.Name = *req.Name
		updated = true
	}
	if req.Percentage != nil {
		policy.Percentage = *req.Percentage
		updated = true
	}
	if req.MinimumFee != nil {
		policy.MinimumFee = *req.MinimumFee
		updated = true
	}
	if req.MaximumFee != nil {
		policy.MaximumFee = req.MaximumFee
		updated = true
	}
	if req.IsActive != nil {
		policy.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		return policy, nil
	}

	if err := validateFeeParameters(policy.Percentage, policy.MinimumFee, policy.MaximumFee); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	policy.LastUpdatedAt = now
	policy.LastUpdatedBy = requestingAccountID

	if err := s.feeRepo.UpdateFeePolicy(ctx, *policy); err != nil {
		logger.Error("Failed to update fee policy", slog.String("fee_policy_id", feePolicyID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update fee policy: %w", err)
	}

	s.invalidateCache()
	logger.Info("Fee policy updated", slog.String("fee_policy_id", feePolicyID))
	return policy, nil
}

// validateFeeParameters rejects policies that could never produce a sane fee.
func validateFeeParameters(percentage, minimumFee decimal.Decimal, maximumFee *decimal.Decimal) error {
	if percentage.IsNegative() {
		return fmt.Errorf("%w: percentage must not be negative", apperrors.ErrValidation)
	}
	if minimumFee.IsNegative() {
		return fmt.Errorf("%w: minimum fee must not be negative", apperrors.ErrValidation)
	}
	if maximumFee != nil && maximumFee.LessThan(minimumFee) {
		return fmt.Errorf("%w: maximum fee must not be below minimum fee", apperrors.ErrValidation)
	}
	return nil
}
