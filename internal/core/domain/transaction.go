package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind enumerates the supported money movements.
type TransactionKind string

const (
	KindDeposit        TransactionKind = "DEPOSIT"
	KindTransfer       TransactionKind = "TRANSFER"
	KindUtility        TransactionKind = "UTILITY"
	KindGoalDeposit    TransactionKind = "GOAL_DEPOSIT"
	KindGoalWithdrawal TransactionKind = "GOAL_WITHDRAWAL"
	KindReversal       TransactionKind = "REVERSAL"
)

// TransactionStatus indicates the state of a journal entry.
// The only allowed transition is Completed -> Reversed, exactly once.
type TransactionStatus string

const (
	Completed TransactionStatus = "COMPLETED"
	Reversed  TransactionStatus = "REVERSED"
)

// Transaction is one account's side of a money movement: a single immutable
// journal entry. A transfer produces two entries, one per account, linked to
// each other through PairedTransactionID.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary key (UUID)
	AccountID     string          `json:"accountID"`     // FK -> Account.accountID
	Kind          TransactionKind `json:"kind"`
	Amount        decimal.Decimal `json:"amount"` // Always positive
	Fee           decimal.Decimal `json:"fee"`    // Charged to the initiator, never refunded
	Reference     string          `json:"reference"`

	// Counterparty display fields, populated for transfers only.
	CounterpartyAccountNumber string `json:"counterpartyAccountNumber,omitempty"`
	CounterpartyName          string `json:"counterpartyName,omitempty"`

	// IsInitiator marks the side that started the movement. Only the
	// initiator of a transfer may undo it; the recipient's entry carries
	// false so the two sides are never both treated as sender.
	IsInitiator bool `json:"isInitiator"`

	Status TransactionStatus `json:"status"`

	// UndoDeadline is set for deposit/transfer/utility entries only.
	// Goal movements and reversals are never undoable.
	UndoDeadline *time.Time `json:"undoDeadline,omitempty"`

	// OriginalTransactionID links a REVERSAL entry back to the entry it
	// compensates. Always nil for forward entries.
	OriginalTransactionID *string `json:"originalTransactionID,omitempty"`

	// PairedTransactionID links the two sides of a transfer (and of a
	// transfer reversal) to each other. Nil for single-entry movements.
	PairedTransactionID *string `json:"pairedTransactionID,omitempty"`

	// RunningBalance is the account balance immediately after this entry.
	RunningBalance decimal.Decimal `json:"runningBalance"`

	AuditFields
}

// IsUndoableKind reports whether entries of this kind ever carry an undo deadline.
func (k TransactionKind) IsUndoableKind() bool {
	switch k {
	case KindDeposit, KindTransfer, KindUtility:
		return true
	}
	return false
}

// CanBeUndone reports whether the entry is still eligible for a user-initiated
// undo at the given instant. Force-reversal by an administrator ignores
// everything here except the status.
func (t Transaction) CanBeUndone(now time.Time) bool {
	if t.UndoDeadline == nil {
		return false
	}
	if !t.IsInitiator {
		return false
	}
	return now.Before(*t.UndoDeadline) && t.Status == Completed
}

// IsIncoming reports whether the entry increases the account balance.
func (t Transaction) IsIncoming() bool {
	switch t.Kind {
	case KindDeposit, KindGoalWithdrawal:
		return true
	case KindTransfer:
		return !t.IsInitiator
	case KindReversal:
		// A reversal entry records the inverse of the original delta, so
		// whichever direction it moves is captured by the sign convention:
		// initiator reversals of outgoing movements credit the account.
		return t.IsInitiator
	}
	return false
}

// Description renders a human-readable summary of the entry for history views.
func (t Transaction) Description() string {
	switch t.Kind {
	case KindDeposit:
		return "Deposit"
	case KindTransfer:
		if t.IsInitiator {
			return fmt.Sprintf("Transfer to %s", t.counterpartyLabel())
		}
		return fmt.Sprintf("Transfer from %s", t.counterpartyLabel())
	case KindUtility:
		return fmt.Sprintf("Utility Payment: %s", t.Reference)
	case KindGoalDeposit:
		return fmt.Sprintf("Goal Deposit: %s", t.Reference)
	case KindGoalWithdrawal:
		return fmt.Sprintf("Goal Withdrawal: %s", t.Reference)
	case KindReversal:
		if t.OriginalTransactionID != nil {
			return fmt.Sprintf("Reversal of transaction %s", *t.OriginalTransactionID)
		}
		return "Reversal"
	}
	return string(t.Kind)
}

func (t Transaction) counterpartyLabel() string {
	if t.CounterpartyName != "" {
		return t.CounterpartyName
	}
	return t.CounterpartyAccountNumber
}
