package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind enumerates the supported money movements.
type TransactionKind string

// TransactionStatus indicates the state of a journal entry row.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusReversed  TransactionStatus = "REVERSED"
)

// Transaction represents one journal entry row. Rows are append-only; the
// only permitted update is the status flip COMPLETED -> REVERSED.
type Transaction struct {
	TransactionID             string            `db:"transaction_id"`
	AccountID                 string            `db:"account_id"`
	Kind                      TransactionKind   `db:"kind"`
	Amount                    decimal.Decimal   `db:"amount"`
	Fee                       decimal.Decimal   `db:"fee"`
	Reference                 string            `db:"reference"`
	CounterpartyAccountNumber string            `db:"counterparty_account_number"`
	CounterpartyName          string            `db:"counterparty_name"`
	IsInitiator               bool              `db:"is_initiator"`
	Status                    TransactionStatus `db:"status"`
	UndoDeadline              *time.Time        `db:"undo_deadline"`
	OriginalTransactionID     *string           `db:"original_transaction_id"`
	PairedTransactionID       *string           `db:"paired_transaction_id"`
	RunningBalance            decimal.Decimal   `db:"running_balance"`
	AuditFields
}
