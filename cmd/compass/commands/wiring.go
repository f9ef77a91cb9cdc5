package commands

import (
	"github.com/wonny/compass/backend/internal/advisors"
	"github.com/wonny/compass/backend/internal/brain"
	"github.com/wonny/compass/backend/internal/competitor"
	"github.com/wonny/compass/backend/internal/forecast"
	"github.com/wonny/compass/backend/internal/insights"
	"github.com/wonny/compass/backend/internal/store"
	"github.com/wonny/compass/backend/pkg/config"
	"github.com/wonny/compass/backend/pkg/database"
	"github.com/wonny/compass/backend/pkg/httputil"
	"github.com/wonny/compass/backend/pkg/logger"
)

// buildOrchestrator wires repositories, providers and advisors into one
// orchestrator. Shared by the api and analyze commands.
func buildOrchestrator(cfg *config.Config, log *logger.Logger, db *database.DB) *brain.Orchestrator {
	predictor := forecast.NewPredictor(log.Zerolog())
	detector := forecast.NewDetector(log.Zerolog())

	var priceSource brain.PriceSource
	if cfg.Competitor.Enabled {
		priceSource = competitor.NewClient(cfg, httputil.New(log), log)
		log.Info("Competitor price enrichment enabled")
	}

	return brain.NewOrchestrator(
		advisors.NewRestockAdvisor(predictor, log),
		advisors.NewPricingAdvisor(log),
		advisors.NewMarketingAdvisor(log),
		advisors.NewCrossSellAdvisor(log),
		insights.NewAggregator(log),
		detector,
		store.NewProductRepository(db.Pool),
		store.NewOrderRepository(db.Pool),
		store.NewCampaignRepository(db.Pool),
		store.NewMetricsRepository(db.Pool),
		priceSource,
		log,
	)
}
