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

// goalHandler handles HTTP requests related to savings goals.
type goalHandler struct {
	goalService   portssvc.GoalSvcFacade
	ledgerService portssvc.LedgerSvcFacade
}

// newGoalHandler creates a new goalHandler.
func newGoalHandler(gs portssvc.GoalSvcFacade, ls portssvc.LedgerSvcFacade) *goalHandler {
	return &goalHandler{
		goalService:   gs,
		ledgerService: ls,
	}
}

// registerGoalRoutes registers routes related to savings goals.
func registerGoalRoutes(rg *gin.RouterGroup, goalService portssvc.GoalSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newGoalHandler(goalService, ledgerService)

	goals := rg.Group("/goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.GET("/:id", h.getGoal)
		goals.POST("/:id/deposit", h.goalDeposit)
		goals.POST("/:id/withdraw", h.goalWithdraw)
	}
}

// createGoal creates a new savings goal for the caller's account.
func (h *goalHandler) createGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGoal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), accountID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGoalResponse(goal))
}

// listGoals retrieves all of the caller's goals.
func (h *goalHandler) listGoals(c *gin.Context) {
	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	goals, err := h.goalService.ListGoals(c.Request.Context(), accountID, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListGoalsResponse{Goals: dto.ToListGoalResponse(goals)})
}

// getGoal retrieves one of the caller's goals.
func (h *goalHandler) getGoal(c *gin.Context) {
	goalID := c.Param("id")

	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	goal, err := h.goalService.GetGoalByID(c.Request.Context(), goalID, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// goalDeposit allocates money from the available balance into a goal.
func (h *goalHandler) goalDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("id")

	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.GoalMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GoalDeposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.GoalDeposit(c.Request.Context(), accountID, goalID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(entry, time.Now().UTC()))
}

// goalWithdraw releases money from a goal back into the available balance.
func (h *goalHandler) goalWithdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("id")

	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.GoalMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GoalWithdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.GoalWithdraw(c.Request.Context(), accountID, goalID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(entry, time.Now().UTC()))
}
