package services

import (
	"context"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
)

// ReversalSvc defines the undo and force-reverse operations.
type ReversalSvc interface {
	// Undo reverses the caller's own entry while its undo window is still open.
	// It returns the reversal entry written on the caller's side.
	Undo(ctx context.Context, transactionID string, requestingAccountID string) (*domain.Transaction, error)

	// ForceReverse reverses any completed entry regardless of the undo window. Admin only.
	ForceReverse(ctx context.Context, transactionID string, requestingAccountID string, reason string) (*domain.Transaction, error)
}
