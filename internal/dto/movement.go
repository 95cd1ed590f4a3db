package dto

import (
	"time"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest defines the data needed to deposit into an account.
type DepositRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference" binding:"max=140"`
}

// TransferRequest defines the data needed to move money to another account.
type TransferRequest struct {
	RecipientAccountNumber string          `json:"recipientAccountNumber" binding:"required,len=10,numeric"`
	Amount                 decimal.Decimal `json:"amount" binding:"required"`
	Reference              string          `json:"reference" binding:"max=140"`
}

// UtilityPaymentRequest defines the data needed to pay a utility biller.
// TargetAccount is the payer's reference at the biller (meter or phone number).
type UtilityPaymentRequest struct {
	Service       string          `json:"service" binding:"required,oneof=AIRTIME DATA ELECTRICITY WATER"`
	TargetAccount string          `json:"targetAccount" binding:"required,min=2,max=40"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Reference     string          `json:"reference" binding:"max=140"`
}

// GoalMovementRequest defines the data needed to move money into or out of a goal.
type GoalMovementRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ForceReverseRequest defines the admin request to reverse any completed entry.
type ForceReverseRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=200"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID         string                 `json:"transactionID"`
	AccountID             string                 `json:"accountID"`
	Kind                  domain.TransactionKind `json:"kind"`
	Amount                decimal.Decimal        `json:"amount"`
	Fee                   decimal.Decimal        `json:"fee"`
	Reference             string                 `json:"reference,omitempty"`
	Counterparty          string                 `json:"counterparty,omitempty"`
	Description           string                 `json:"description"`
	Incoming              bool                   `json:"incoming"`
	Status                string                 `json:"status"`
	Undoable              bool                   `json:"undoable"`
	UndoDeadline          *time.Time             `json:"undoDeadline,omitempty"`
	OriginalTransactionID *string                `json:"originalTransactionID,omitempty"`
	RunningBalance        decimal.Decimal        `json:"runningBalance"`
	CreatedAt             time.Time              `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
// Undoable is evaluated against the supplied clock so clients see a live flag.
func ToTransactionResponse(txn *domain.Transaction, now time.Time) TransactionResponse {
	return TransactionResponse{
		TransactionID:         txn.TransactionID,
		AccountID:             txn.AccountID,
		Kind:                  txn.Kind,
		Amount:                txn.Amount,
		Fee:                   txn.Fee,
		Reference:             txn.Reference,
		Counterparty:          txn.CounterpartyName,
		Description:           txn.Description(),
		Incoming:              txn.IsIncoming(),
		Status:                string(txn.Status),
		Undoable:              txn.CanBeUndone(now),
		UndoDeadline:          txn.UndoDeadline,
		OriginalTransactionID: txn.OriginalTransactionID,
		RunningBalance:        txn.RunningBalance,
		CreatedAt:             txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction, now time.Time) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn, now)
	}
	return responses
}

// TransactionDetailResponse is a single entry plus the reversal entries that
// compensated it. Reversals is empty while the entry is still COMPLETED.
type TransactionDetailResponse struct {
	TransactionResponse
	Reversals []TransactionResponse `json:"reversals,omitempty"`
}

// ToTransactionDetailResponse converts an entry and its reversals to a TransactionDetailResponse DTO.
func ToTransactionDetailResponse(txn *domain.Transaction, reversals []domain.Transaction, now time.Time) TransactionDetailResponse {
	resp := TransactionDetailResponse{TransactionResponse: ToTransactionResponse(txn, now)}
	if len(reversals) > 0 {
		resp.Reversals = ToTransactionResponses(reversals, now)
	}
	return resp
}

// ListTransactionsParams defines query parameters for listing an account's entries.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of ledger entries with the token for the next page.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
