package services

import (
	portsrepo "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/repositories"
	portssvc "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/services"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	notifier := NewLogNotifier()

	container.Account = NewAccountService(repos.AccountRepo)
	container.Fee = NewFeeService(repos.FeeRepo, repos.AccountRepo, cfg.FeeCacheTTL)
	container.Goal = NewGoalService(repos.GoalRepo, repos.AccountRepo)

	limits := MovementLimits{
		MinDeposit: cfg.MinDeposit,
		MaxDeposit: cfg.MaxDeposit,
		UndoWindow: cfg.UndoWindow,
	}
	container.Ledger = NewLedgerService(
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.GoalRepo,
		container.Fee,
		notifier,
		limits,
	)
	container.Reversal = NewReversalService(
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.GoalRepo,
		notifier,
	)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.AccountRepo)

	return container
}
