package dto

import (
	"time"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	DisplayName    string           `json:"displayName" binding:"required,min=2,max=100"`
	OpeningDeposit *decimal.Decimal `json:"openingDeposit"` // Optional, deposited after the account is created
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	DisplayName   string          `json:"displayName"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
	IsAdmin       bool            `json:"isAdmin"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// VerifyAccountResponse defines the minimal data returned when a sender
// looks up a recipient before transferring. It deliberately omits balances.
type VerifyAccountResponse struct {
	AccountNumber string `json:"accountNumber"`
	DisplayName   string `json:"displayName"`
	IsActive      bool   `json:"isActive"`
}

// SetAccountActiveRequest defines the admin request to freeze or unfreeze an account.
type SetAccountActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		DisplayName:   acc.DisplayName,
		Balance:       acc.Balance,
		IsActive:      acc.IsActive,
		IsAdmin:       acc.IsAdmin,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToVerifyAccountResponse converts a domain.Account to the recipient lookup DTO
func ToVerifyAccountResponse(acc *domain.Account) VerifyAccountResponse {
	return VerifyAccountResponse{
		AccountNumber: acc.AccountNumber,
		DisplayName:   acc.DisplayName,
		IsActive:      acc.IsActive,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
