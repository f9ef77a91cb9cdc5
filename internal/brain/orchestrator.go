package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/compass/backend/internal/advisors"
	"github.com/wonny/compass/backend/internal/competitor"
	"github.com/wonny/compass/backend/internal/contracts"
	"github.com/wonny/compass/backend/internal/insights"
	"github.com/wonny/compass/backend/pkg/logger"
)

// PriceSource provides scraped competitor prices for a sku.
type PriceSource interface {
	FetchPrices(ctx context.Context, sku string) ([]competitor.PriceObservation, error)
}

// Orchestrator coordinates one full analysis run: load, advise, aggregate.
// ⭐ SSOT: 분석 파이프라인 조율은 여기서만
type Orchestrator struct {
	// Stage components
	restockAdvisor   *advisors.RestockAdvisor
	pricingAdvisor   *advisors.PricingAdvisor
	marketingAdvisor *advisors.MarketingAdvisor
	crossSellAdvisor *advisors.CrossSellAdvisor
	aggregator       *insights.Aggregator
	detector         contracts.AnomalyDetector

	// Read-side repositories
	productRepo  contracts.ProductRepository
	orderRepo    contracts.OrderRepository
	campaignRepo contracts.CampaignRepository
	metricsRepo  contracts.MetricsRepository

	// Optional competitor price enrichment (nil when scraping is disabled)
	priceSource PriceSource

	logger *logger.Logger
}

// RunConfig holds configuration for one analysis run
type RunConfig struct {
	RunID              string
	OrderWindowDays    int     // basket mining lookback (default: 90)
	SalesDays          int     // daily sales lookback for insights (default: 30)
	AnomalySensitivity float64 // z-score threshold for the detector (default: 2.5)
}

// DefaultRunConfig 기본 설정
func DefaultRunConfig() RunConfig {
	return RunConfig{
		RunID:              GenerateRunID(),
		OrderWindowDays:    90,
		SalesDays:          30,
		AnomalySensitivity: 2.5,
	}
}

// RunResult holds the report plus run metadata
type RunResult struct {
	RunID           string
	Success         bool
	Error           error
	CompletedStages []string
	Report          *contracts.AnalysisReport
	Duration        time.Duration
}

// NewOrchestrator creates a new orchestrator. priceSource may be nil.
func NewOrchestrator(
	restockAdvisor *advisors.RestockAdvisor,
	pricingAdvisor *advisors.PricingAdvisor,
	marketingAdvisor *advisors.MarketingAdvisor,
	crossSellAdvisor *advisors.CrossSellAdvisor,
	aggregator *insights.Aggregator,
	detector contracts.AnomalyDetector,
	productRepo contracts.ProductRepository,
	orderRepo contracts.OrderRepository,
	campaignRepo contracts.CampaignRepository,
	metricsRepo contracts.MetricsRepository,
	priceSource PriceSource,
	logger *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		restockAdvisor:   restockAdvisor,
		pricingAdvisor:   pricingAdvisor,
		marketingAdvisor: marketingAdvisor,
		crossSellAdvisor: crossSellAdvisor,
		aggregator:       aggregator,
		detector:         detector,
		productRepo:      productRepo,
		orderRepo:        orderRepo,
		campaignRepo:     campaignRepo,
		metricsRepo:      metricsRepo,
		priceSource:      priceSource,
		logger:           logger,
	}
}

// Run executes the full analysis pipeline
// A1(load) → A2(restock) → A3(pricing) → A4(marketing) → A5(cross-sell) → A6(insights)
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()

	result := &RunResult{
		RunID:           config.RunID,
		Success:         false,
		CompletedStages: make([]string, 0),
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":       config.RunID,
		"order_window": config.OrderWindowDays,
		"sales_days":   config.SalesDays,
	}).Info("Starting analysis run")

	report := &contracts.AnalysisReport{GeneratedAt: time.Now().UTC()}

	// A1: Load products, with competitor price enrichment when available
	records, err := o.loadProducts(ctx)
	if err != nil {
		result.Error = fmt.Errorf("A1 failed: %w", err)
		return result, result.Error
	}
	result.CompletedStages = append(result.CompletedStages, "A1:Products")

	// A2: Restock
	restock, err := o.restockAdvisor.Recommend(ctx, records)
	if err != nil {
		result.Error = fmt.Errorf("A2 failed: %w", err)
		return result, result.Error
	}
	report.Restock = restock
	result.CompletedStages = append(result.CompletedStages, "A2:Restock")

	// A3: Pricing
	pricing, err := o.pricingAdvisor.Recommend(ctx, records)
	if err != nil {
		result.Error = fmt.Errorf("A3 failed: %w", err)
		return result, result.Error
	}
	report.Pricing = pricing
	result.CompletedStages = append(result.CompletedStages, "A3:Pricing")

	// A4: Marketing
	marketing, err := o.runMarketing(ctx)
	if err != nil {
		result.Error = fmt.Errorf("A4 failed: %w", err)
		return result, result.Error
	}
	report.Marketing = marketing
	result.CompletedStages = append(result.CompletedStages, "A4:Marketing")

	// A5: Cross-sell
	crossSell, err := o.runCrossSell(ctx, config)
	if err != nil {
		result.Error = fmt.Errorf("A5 failed: %w", err)
		return result, result.Error
	}
	report.CrossSell = crossSell
	result.CompletedStages = append(result.CompletedStages, "A5:CrossSell")

	// A6: Insights
	feed, err := o.runInsights(ctx, config)
	if err != nil {
		result.Error = fmt.Errorf("A6 failed: %w", err)
		return result, result.Error
	}
	report.Insights = feed
	result.CompletedStages = append(result.CompletedStages, "A6:Insights")

	result.Report = report
	result.Success = true
	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"run_id":   config.RunID,
		"duration": result.Duration.Seconds(),
		"stages":   len(result.CompletedStages),
	}).Info("Analysis run completed successfully")

	return result, nil
}

// loadProducts loads sales records and fills missing competitor prices from
// the scraper. Scrape failures degrade to stored prices, never fail the run.
func (o *Orchestrator) loadProducts(ctx context.Context) ([]contracts.ProductSalesRecord, error) {
	o.logger.Info("Running A1: Product load")

	records, err := o.productRepo.GetSalesRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales records: %w", err)
	}

	if o.priceSource != nil {
		for i := range records {
			if len(records[i].CompetitorPrices) > 0 {
				continue
			}
			observations, err := o.priceSource.FetchPrices(ctx, records[i].SKU)
			if err != nil {
				o.logger.WithError(err).WithField("sku", records[i].SKU).Warn("Competitor price fetch failed")
				continue
			}
			for _, obs := range observations {
				records[i].CompetitorPrices = append(records[i].CompetitorPrices, obs.Price)
			}
		}
	}

	o.logger.WithFields(map[string]interface{}{
		"products": len(records),
	}).Info("A1 completed")

	return records, nil
}

func (o *Orchestrator) runMarketing(ctx context.Context) ([]contracts.MarketingRecommendation, error) {
	o.logger.Info("Running A4: Marketing")

	campaigns, err := o.campaignRepo.GetCampaignMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("load campaign metrics: %w", err)
	}

	return o.marketingAdvisor.Recommend(ctx, campaigns)
}

func (o *Orchestrator) runCrossSell(ctx context.Context, config RunConfig) ([]contracts.CrossSellRecommendation, error) {
	o.logger.Info("Running A5: Cross-sell")

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -config.OrderWindowDays)
	orders, err := o.orderRepo.GetOrders(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	return o.crossSellAdvisor.Recommend(ctx, orders)
}

func (o *Orchestrator) runInsights(ctx context.Context, config RunConfig) ([]contracts.BusinessInsight, error) {
	o.logger.Info("Running A6: Insights")

	dailySales, err := o.metricsRepo.GetDailySales(ctx, config.SalesDays)
	if err != nil {
		return nil, fmt.Errorf("load daily sales: %w", err)
	}

	products, err := o.metricsRepo.GetProductPerformance(ctx)
	if err != nil {
		return nil, fmt.Errorf("load product performance: %w", err)
	}

	customers, err := o.metricsRepo.GetCustomerValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customer values: %w", err)
	}

	revenue := make([]float64, len(dailySales))
	for i, d := range dailySales {
		revenue[i] = d.Revenue
	}
	anomalies := o.detector.DetectAnomalies(revenue, config.AnomalySensitivity)

	return o.aggregator.Aggregate(ctx, dailySales, products, customers, anomalies)
}

// GenerateRunID generates a unique run ID
func GenerateRunID() string {
	return fmt.Sprintf("run_%s", time.Now().Format("20060102_150405"))
}
