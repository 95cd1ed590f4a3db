package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/apperrors"
	portsrepo "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/repositories"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Accounts portsrepo.AccountReader
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// RequireAdmin checks that the requesting account exists and carries the admin flag.
func (s *BaseService) RequireAdmin(ctx context.Context, requestingAccountID string) error {
	if s.Accounts == nil {
		return fmt.Errorf("%w: no account reader configured for authorization", apperrors.ErrInternal)
	}
	account, err := s.Accounts.FindAccountByID(ctx, requestingAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: unknown requesting account", apperrors.ErrForbidden)
		}
		return fmt.Errorf("failed to resolve requesting account: %w", err)
	}
	if !account.IsAdmin {
		return fmt.Errorf("%w: admin privileges required", apperrors.ErrForbidden)
	}
	return nil
}
