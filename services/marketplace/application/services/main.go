package services

import (
	"github.com/ghuser/marketledger/pkg/app"
	"github.com/ghuser/marketledger/pkg/cache"
	"github.com/ghuser/marketledger/services/marketplace/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Ledger *LedgerService
}

// New wires all marketplace application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	ledgerRepo := postgres.NewLedgerRepository(a.Db, a.EventBus)
	accountRepo := postgres.NewAccountRepository(a.Db)
	productCache := cache.NewProductCache(a.Redis)
	return &Services{
		Ledger: NewLedgerService(ledgerRepo, accountRepo, productCache),
	}
}
