package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	portssvc "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/services"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/dto"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for money movement and entry history.
type ledgerHandler struct {
	ledgerService   portssvc.LedgerSvcFacade
	reversalService portssvc.ReversalSvc
	feeService      portssvc.FeeReaderSvc
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade, rs portssvc.ReversalSvc, fs portssvc.FeeReaderSvc) *ledgerHandler {
	return &ledgerHandler{
		ledgerService:   ls,
		reversalService: rs,
		feeService:      fs,
	}
}

// registerLedgerRoutes registers money movement and history routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, reversalService portssvc.ReversalSvc, feeService portssvc.FeeReaderSvc) {
	h := newLedgerHandler(ledgerService, reversalService, feeService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/deposit", h.deposit)
		transactions.POST("/transfer", h.transfer)
		transactions.POST("/utility", h.payUtility)
		transactions.GET("/fee-quote", h.feeQuote)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("/:id/undo", h.undo)
	}
}

// feeQuote returns the fee a movement of the given kind and amount would incur,
// so clients can show the total before the customer confirms.
func (h *ledgerHandler) feeQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if _, ok := callerAccountID(c); !ok {
		return
	}

	var params dto.FeeQuoteParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for FeeQuote", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	kind := domain.TransactionKind(params.Kind)
	fee, err := h.feeService.ComputeFee(c.Request.Context(), kind, params.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FeeQuoteResponse{
		Kind:   kind,
		Amount: params.Amount,
		Fee:    fee,
		Total:  params.Amount.Add(fee),
	})
}

// deposit credits the caller's account from an external source.
func (h *ledgerHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.Deposit(c.Request.Context(), accountID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(entry, time.Now().UTC()))
}

// transfer moves money from the caller's account to another account.
func (h *ledgerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.Transfer(c.Request.Context(), accountID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(entry, time.Now().UTC()))
}

// payUtility debits the caller's account for a biller payment.
func (h *ledgerHandler) payUtility(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.UtilityPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PayUtility", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.PayUtility(c.Request.Context(), accountID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(entry, time.Now().UTC()))
}

// listTransactions retrieves a page of the caller's entries, newest first.
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, nextToken, err := h.ledgerService.ListTransactions(c.Request.Context(), accountID, accountID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(entries, time.Now().UTC()),
		NextToken:    nextToken,
	})
}

// getTransaction retrieves a single entry belonging to the caller, together
// with any reversal entries that compensated it.
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	transactionID := c.Param("id")

	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	entry, reversals, err := h.ledgerService.GetTransactionByID(c.Request.Context(), transactionID, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionDetailResponse(entry, reversals, time.Now().UTC()))
}

// undo reverses the caller's own entry while the undo window is still open.
func (h *ledgerHandler) undo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	reversal, err := h.reversalService.Undo(c.Request.Context(), transactionID, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Entry undone", slog.String("transaction_id", transactionID), slog.String("reversal_id", reversal.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal, time.Now().UTC()))
}
