package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/services"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/dto"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler handles administrative HTTP requests: fee policy management,
// force-reversal, account freezing and system reporting. Authorization is
// enforced in the services, which check the caller's admin flag.
type adminHandler struct {
	accountService   portssvc.AccountSvcFacade
	feeService       portssvc.FeeSvcFacade
	reversalService  portssvc.ReversalSvc
	reportingService portssvc.ReportingSvc
}

// newAdminHandler creates a new adminHandler.
func newAdminHandler(as portssvc.AccountSvcFacade, fs portssvc.FeeSvcFacade, rs portssvc.ReversalSvc, rp portssvc.ReportingSvc) *adminHandler {
	return &adminHandler{
		accountService:   as,
		feeService:       fs,
		reversalService:  rs,
		reportingService: rp,
	}
}

// registerAdminRoutes registers administrative routes.
func registerAdminRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, feeService portssvc.FeeSvcFacade, reversalService portssvc.ReversalSvc, reportingService portssvc.ReportingSvc) {
	h := newAdminHandler(accountService, feeService, reversalService, reportingService)

	admin := rg.Group("/admin")
	{
		admin.GET("/accounts", h.listAccounts)
		admin.PATCH("/accounts/:id/status", h.setAccountStatus)
		admin.GET("/fees", h.listFeePolicies)
		admin.POST("/fees", h.createFeePolicy)
		admin.PATCH("/fees/:id", h.updateFeePolicy)
		admin.POST("/transactions/:id/reverse", h.forceReverse)
		admin.GET("/stats", h.systemStats)
	}
}

// listAccounts retrieves a paginated list of all accounts.
func (h *adminHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingAccountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), requestingAccountID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// setAccountStatus freezes or unfreezes an account.
func (h *adminHandler) setAccountStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	requestingAccountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.SetAccountActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetAccountStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.accountService.SetAccountActive(c.Request.Context(), accountID, *req.IsActive, requestingAccountID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// listFeePolicies retrieves all fee policies.
func (h *adminHandler) listFeePolicies(c *gin.Context) {
	requestingAccountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	policies, err := h.feeService.ListFeePolicies(c.Request.Context(), requestingAccountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feePolicies": dto.ToListFeePolicyResponse(policies)})
}

// createFeePolicy creates a fee policy, replacing the active one for its kind.
func (h *adminHandler) createFeePolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingAccountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.CreateFeePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFeePolicy", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	policy, err := h.feeService.CreateFeePolicy(c.Request.Context(), req, requestingAccountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFeePolicyResponse(policy))
}

// updateFeePolicy updates a fee policy's parameters.
func (h *adminHandler) updateFeePolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	feePolicyID := c.Param("id")

	requestingAccountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.UpdateFeePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateFeePolicy", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	policy, err := h.feeService.UpdateFeePolicy(c.Request.Context(), feePolicyID, req, requestingAccountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFeePolicyResponse(policy))
}

// forceReverse reverses any completed entry regardless of the undo window.
func (h *adminHandler) forceReverse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	requestingAccountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.ForceReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ForceReverse", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	reversal, err := h.reversalService.ForceReverse(c.Request.Context(), transactionID, requestingAccountID, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Entry force-reversed", slog.String("transaction_id", transactionID), slog.String("reversal_id", reversal.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal, time.Now().UTC()))
}

// systemStats aggregates totals across the whole ledger.
func (h *adminHandler) systemStats(c *gin.Context) {
	requestingAccountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	stats, err := h.reportingService.GetSystemStats(c.Request.Context(), requestingAccountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSystemStatsResponse(stats, time.Now().UTC()))
}
