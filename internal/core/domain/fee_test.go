package domain_test

import (
	"testing"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestFeePolicy_CalculateFee(t *testing.T) {
	standardTransfer := domain.FeePolicy{
		Kind:       domain.KindTransfer,
		Percentage: decimal.NewFromInt(1),
		MinimumFee: decimal.NewFromInt(5),
		MaximumFee: decimalPtr(decimal.NewFromInt(50)),
		IsActive:   true,
	}

	tests := []struct {
		name   string
		policy domain.FeePolicy
		amount decimal.Decimal
		want   string
	}{
		{
			name:   "minimum clamp applies on small amounts",
			policy: standardTransfer,
			amount: decimal.NewFromInt(100), // 1% = 1, clamped up to 5
			want:   "5",
		},
		{
			name:   "maximum clamp applies on large amounts",
			policy: standardTransfer,
			amount: decimal.NewFromInt(10000), // 1% = 100, clamped down to 50
			want:   "50",
		},
		{
			name:   "percentage applies between the clamps",
			policy: standardTransfer,
			amount: decimal.NewFromInt(2000), // 1% = 20
			want:   "20",
		},
		{
			name: "rounds to two decimal places",
			policy: domain.FeePolicy{
				Percentage: decimal.NewFromFloat(1.5),
				MinimumFee: decimal.Zero,
				IsActive:   true,
			},
			amount: decimal.NewFromFloat(33.33), // 1.5% = 0.49995 -> 0.50
			want:   "0.5",
		},
		{
			name: "no maximum means unbounded above",
			policy: domain.FeePolicy{
				Percentage: decimal.NewFromInt(2),
				MinimumFee: decimal.NewFromInt(1),
				IsActive:   true,
			},
			amount: decimal.NewFromInt(100000),
			want:   "2000",
		},
		{
			name: "flat fee via equal min and max",
			policy: domain.FeePolicy{
				Kind:       domain.KindUtility,
				Percentage: decimal.Zero,
				MinimumFee: decimal.NewFromInt(5),
				MaximumFee: decimalPtr(decimal.NewFromInt(5)),
				IsActive:   true,
			},
			amount: decimal.NewFromInt(750),
			want:   "5",
		},
		{
			name: "inactive policy charges nothing",
			policy: domain.FeePolicy{
				Percentage: decimal.NewFromInt(1),
				MinimumFee: decimal.NewFromInt(5),
				IsActive:   false,
			},
			amount: decimal.NewFromInt(1000),
			want:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.CalculateFee(tt.amount)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}
