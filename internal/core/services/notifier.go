package services

import (
	"context"
	"log/slog"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/middleware"
)

// Notifier receives movement events after they have committed.
// Implementations must not block the caller; delivery is best effort and
// failures never affect the committed movement.
type Notifier interface {
	MovementCompleted(ctx context.Context, entry domain.Transaction)
}

// logNotifier writes movement events to the structured log. It stands in for
// a push or email channel in deployments that have none configured.
type logNotifier struct{}

// NewLogNotifier returns a Notifier that logs movement events.
func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) MovementCompleted(ctx context.Context, entry domain.Transaction) {
	middleware.GetLoggerFromCtx(ctx).Info("Movement completed",
		slog.String("transaction_id", entry.TransactionID),
		slog.String("account_id", entry.AccountID),
		slog.String("kind", string(entry.Kind)),
		slog.String("amount", entry.Amount.String()),
	)
}
