package mapping

import (
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:             d.TransactionID,
		AccountID:                 d.AccountID,
		Kind:                      models.TransactionKind(d.Kind),
		Amount:                    d.Amount,
		Fee:                       d.Fee,
		Reference:                 d.Reference,
		CounterpartyAccountNumber: d.CounterpartyAccountNumber,
		CounterpartyName:          d.CounterpartyName,
		IsInitiator:               d.IsInitiator,
		Status:                    models.TransactionStatus(d.Status),
		UndoDeadline:              d.UndoDeadline,
		OriginalTransactionID:     d.OriginalTransactionID,
		PairedTransactionID:       d.PairedTransactionID,
		RunningBalance:            d.RunningBalance,
		AuditFields:               ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:             m.TransactionID,
		AccountID:                 m.AccountID,
		Kind:                      domain.TransactionKind(m.Kind),
		Amount:                    m.Amount,
		Fee:                       m.Fee,
		Reference:                 m.Reference,
		CounterpartyAccountNumber: m.CounterpartyAccountNumber,
		CounterpartyName:          m.CounterpartyName,
		IsInitiator:               m.IsInitiator,
		Status:                    domain.TransactionStatus(m.Status),
		UndoDeadline:              m.UndoDeadline,
		OriginalTransactionID:     m.OriginalTransactionID,
		PairedTransactionID:       m.PairedTransactionID,
		RunningBalance:            m.RunningBalance,
		AuditFields:               ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
