package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/services"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/dto"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		ledgerService:  ls,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newAccountHandler(accountService, ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("/me", h.getOwnAccount)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/verify/:accountNumber", h.verifyAccount)
	}
}

// createAccount opens a new account, optionally applying an opening deposit.
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if req.OpeningDeposit != nil && req.OpeningDeposit.GreaterThan(decimal.Zero) {
		entry, err := h.ledgerService.Deposit(c.Request.Context(), newAccount.AccountID, dto.DepositRequest{
			Amount:    *req.OpeningDeposit,
			Reference: "Opening deposit",
		})
		if err != nil {
			// The account exists; report it with the deposit failure rather than failing outright.
			logger.Warn("Opening deposit failed for new account", slog.String("account_id", newAccount.AccountID), slog.String("error", err.Error()))
			c.JSON(http.StatusCreated, gin.H{
				"account":             dto.ToAccountResponse(newAccount),
				"openingDepositError": err.Error(),
			})
			return
		}
		newAccount.Balance = entry.RunningBalance
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getOwnAccount retrieves the caller's account.
func (h *accountHandler) getOwnAccount(c *gin.Context) {
	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccount retrieves an account by ID. Admin only for accounts other than the caller's.
func (h *accountHandler) getAccount(c *gin.Context) {
	accountID := c.Param("id")

	requestingAccountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID, requestingAccountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// verifyAccount looks up a recipient by account number before a transfer.
// Only the display name and status are returned.
func (h *accountHandler) verifyAccount(c *gin.Context) {
	accountNumber := c.Param("accountNumber")

	if _, ok := callerAccountID(c); !ok {
		return
	}

	account, err := h.accountService.VerifyAccountByNumber(c.Request.Context(), accountNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVerifyAccountResponse(account))
}
