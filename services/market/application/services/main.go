package services

import (
	"github.com/ghuser/marketledger/pkg/app"
	"github.com/ghuser/marketledger/pkg/cache"
	"github.com/ghuser/marketledger/services/market/domain/models"
	marketwf "github.com/ghuser/marketledger/services/market/workflows"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Market *MarketService
}

// New wires all market application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	var itemCache *cache.ItemCache
	if a.Redis != nil {
		itemCache = cache.NewItemCache(a.Redis)
	}

	var scheduler marketwf.SettlementScheduler
	if a.TemporalClient != nil {
		scheduler = &marketwf.TemporalScheduler{TC: a.TemporalClient}
	}

	var publisher EventPublisher
	if a.EventBus != nil {
		publisher = a.EventBus
	}

	feeRecipient, _ := models.NewAccount(a.Config.FeeRecipient())

	return &Services{
		Market: NewMarketService(a.Ledger, publisher, itemCache, scheduler, feeRecipient, a.Logger),
	}
}
