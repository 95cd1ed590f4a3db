package handlers

import (
	portssvc "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/services"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/middleware"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// The gateway authenticates callers; the identity middleware only requires
	// and propagates the account ID header it sets.
	v1 := r.Group("/api/v1", middleware.IdentityMiddleware())

	registerAccountRoutes(v1, services.Account, services.Ledger)
	registerLedgerRoutes(v1, services.Ledger, services.Reversal, services.Fee)
	registerGoalRoutes(v1, services.Goal, services.Ledger)
	registerAdminRoutes(v1, services.Account, services.Fee, services.Reversal, services.Reporting)
}
