package mapping

import (
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/models"
)

// ToModelFeePolicy converts a domain FeePolicy to a model FeePolicy
func ToModelFeePolicy(d domain.FeePolicy) models.FeePolicy {
	return models.FeePolicy{
		FeePolicyID: d.FeePolicyID,
		Name:        d.Name,
		Kind:        models.TransactionKind(d.Kind),
		Percentage:  d.Percentage,
		MinimumFee:  d.MinimumFee,
		MaximumFee:  d.MaximumFee,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFeePolicy converts a model FeePolicy to a domain FeePolicy
func ToDomainFeePolicy(m models.FeePolicy) domain.FeePolicy {
	return domain.FeePolicy{
		FeePolicyID: m.FeePolicyID,
		Name:        m.Name,
		Kind:        domain.TransactionKind(m.Kind),
		Percentage:  m.Percentage,
		MinimumFee:  m.MinimumFee,
		MaximumFee:  m.MaximumFee,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFeePolicySlice converts a slice of model FeePolicies to a slice of domain FeePolicies
func ToDomainFeePolicySlice(ms []models.FeePolicy) []domain.FeePolicy {
	ds := make([]domain.FeePolicy, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFeePolicy(m)
	}
	return ds
}
