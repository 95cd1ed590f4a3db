package dto

import (
	"time"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFeePolicyRequest defines the data needed to create a fee policy.
type CreateFeePolicyRequest struct {
	Name       string           `json:"name" binding:"required,min=2,max=100"`
	Kind       string           `json:"kind" binding:"required,oneof=TRANSFER UTILITY"`
	Percentage decimal.Decimal  `json:"percentage"`
	MinimumFee decimal.Decimal  `json:"minimumFee"`
	MaximumFee *decimal.Decimal `json:"maximumFee"` // Optional, nil means uncapped
}

// UpdateFeePolicyRequest defines the data allowed for updating a fee policy.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateFeePolicyRequest struct {
	Name       *string          `json:"name"`
	Percentage *decimal.Decimal `json:"percentage"`
	MinimumFee *decimal.Decimal `json:"minimumFee"`
	MaximumFee *decimal.Decimal `json:"maximumFee"`
	IsActive   *bool            `json:"isActive"`
}

// FeePolicyResponse defines the data returned for a fee policy.
type FeePolicyResponse struct {
	FeePolicyID   string                 `json:"feePolicyID"`
	Name          string                 `json:"name"`
	Kind          domain.TransactionKind `json:"kind"`
	Percentage    decimal.Decimal        `json:"percentage"`
	MinimumFee    decimal.Decimal        `json:"minimumFee"`
	MaximumFee    *decimal.Decimal       `json:"maximumFee,omitempty"`
	IsActive      bool                   `json:"isActive"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy string                 `json:"lastUpdatedBy"`
}

// FeeQuoteParams defines the query parameters for quoting a fee ahead of a movement.
type FeeQuoteParams struct {
	Kind   string          `form:"kind" binding:"required,oneof=TRANSFER UTILITY"`
	Amount decimal.Decimal `form:"amount" binding:"required"`
}

// FeeQuoteResponse defines the data returned when quoting a fee ahead of a movement.
type FeeQuoteResponse struct {
	Kind   domain.TransactionKind `json:"kind"`
	Amount decimal.Decimal        `json:"amount"`
	Fee    decimal.Decimal        `json:"fee"`
	Total  decimal.Decimal        `json:"total"`
}

// ToFeePolicyResponse converts a domain.FeePolicy to FeePolicyResponse DTO
func ToFeePolicyResponse(p *domain.FeePolicy) FeePolicyResponse {
	return FeePolicyResponse{
		FeePolicyID:   p.FeePolicyID,
		Name:          p.Name,
		Kind:          p.Kind,
		Percentage:    p.Percentage,
		MinimumFee:    p.MinimumFee,
		MaximumFee:    p.MaximumFee,
		IsActive:      p.IsActive,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ToListFeePolicyResponse converts a slice of domain.FeePolicy to a slice of FeePolicyResponse DTOs
func ToListFeePolicyResponse(policies []domain.FeePolicy) []FeePolicyResponse {
	res := make([]FeePolicyResponse, len(policies))
	for i, p := range policies {
		res[i] = ToFeePolicyResponse(&p)
	}
	return res
}
