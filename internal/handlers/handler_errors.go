package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/apperrors"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/services"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondServiceError translates service errors into HTTP responses.
// Business rejections keep their message; everything unexpected becomes a 500
// with a generic body so internals never leak to clients.
func respondServiceError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrAmountOutOfBounds),
		errors.Is(err, services.ErrSelfTransfer),
		errors.Is(err, services.ErrGoalFullyFunded),
		errors.Is(err, services.ErrNotUndoable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, apperrors.ErrForbidden),
		errors.Is(err, services.ErrNotInitiator):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, services.ErrAlreadyReversed),
		errors.Is(err, services.ErrUndoWindowExpired):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrGoalOverdraw),
		errors.Is(err, services.ErrAccountInactive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// callerAccountID pulls the gateway-authenticated account ID from the context,
// writing a 401 when it is missing.
func callerAccountID(c *gin.Context) (string, bool) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Caller account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return accountID, true
}
