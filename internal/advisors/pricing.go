package advisors

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/wonny/compass/backend/internal/contracts"
	"github.com/wonny/compass/backend/pkg/logger"
)

// PricingConfig 가격 분석 설정
type PricingConfig struct {
	MinHistoryDays     int     // minimum history rows (default: 14)
	TargetMargin       float64 // margin the raise rule steers toward (default: 0.40)
	MaxIncreasePercent float64 // cap on a single price raise (default: 0.15)
	InelasticBound     float64 // |elasticity| below this allows raising (default: 1.5)
	ElasticBound       float64 // |elasticity| above this allows lowering (default: 2.0)
	CompetitorPremium  float64 // only lower when price > avgCompetitor * this (default: 1.1)
	CompetitorTarget   float64 // lowered price = avgCompetitor * this (default: 1.05)
	MinChange          float64 // ignore changes at or below this (default: $0.01)
	ConfidenceCap      float64 // (default: 0.8)
}

// DefaultPricingConfig 기본 설정
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		MinHistoryDays:     14,
		TargetMargin:       0.40,
		MaxIncreasePercent: 0.15,
		InelasticBound:     1.5,
		ElasticBound:       2.0,
		CompetitorPremium:  1.1,
		CompetitorTarget:   1.05,
		MinChange:          0.01,
		ConfidenceCap:      0.8,
	}
}

// pricePoint is the average daily demand observed at one distinct price.
type pricePoint struct {
	price     float64
	avgDemand float64
}

// PricingAdvisor infers price elasticity from history and proposes changes.
// Elasticity deliberately uses only the two observed price extremes, not a
// full regression; intermediate price points only feed the confidence score.
// ⭐ SSOT: 가격 조정 추천은 여기서만
type PricingAdvisor struct {
	config PricingConfig
	logger *logger.Logger
}

// NewPricingAdvisor creates a new pricing advisor
func NewPricingAdvisor(log *logger.Logger) *PricingAdvisor {
	return &PricingAdvisor{
		config: DefaultPricingConfig(),
		logger: log,
	}
}

// NewPricingAdvisorWithConfig creates a pricing advisor with custom config
func NewPricingAdvisorWithConfig(config PricingConfig, log *logger.Logger) *PricingAdvisor {
	return &PricingAdvisor{
		config: config,
		logger: log,
	}
}

// Recommend produces at most one pricing recommendation per eligible product,
// in input order. Products without cost, enough history or price variation
// are skipped silently.
func (a *PricingAdvisor) Recommend(ctx context.Context, records []contracts.ProductSalesRecord) ([]contracts.PricingRecommendation, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	recommendations := make([]contracts.PricingRecommendation, 0, len(records))

	for _, record := range records {
		rec := a.evaluate(record)
		if rec == nil {
			continue
		}

		a.logger.WithFields(map[string]interface{}{
			"sku":       record.SKU,
			"current":   rec.CurrentPrice,
			"suggested": rec.RecommendedPrice,
		}).Debug("Pricing recommendation generated")

		recommendations = append(recommendations, *rec)
	}

	a.logger.WithFields(map[string]interface{}{
		"products":        len(records),
		"recommendations": len(recommendations),
	}).Info("Pricing analysis completed")

	return recommendations, nil
}

func (a *PricingAdvisor) evaluate(record contracts.ProductSalesRecord) *contracts.PricingRecommendation {
	if record.Cost == nil || record.Price <= 0 {
		return nil
	}
	if len(record.History) < a.config.MinHistoryDays {
		return nil
	}

	points := demandByPrice(record.History)
	if len(points) < 2 {
		// No price variation, elasticity unmeasurable
		return nil
	}

	minPoint := points[0]
	maxPoint := points[len(points)-1]
	if maxPoint.avgDemand == 0 || minPoint.price == 0 {
		return nil
	}

	// Percentage demand swing over percentage price swing between the
	// cheapest and most expensive observed price points.
	demandSwing := (minPoint.avgDemand - maxPoint.avgDemand) / maxPoint.avgDemand
	priceSwing := (maxPoint.price - minPoint.price) / minPoint.price
	elasticity := demandSwing / priceSwing

	cost := *record.Cost
	currentMargin := (record.Price - cost) / record.Price
	absElasticity := math.Abs(elasticity)

	recommendedPrice := record.Price
	var reasoning string

	switch {
	case currentMargin < a.config.TargetMargin && absElasticity < a.config.InelasticBound:
		// Raise: demand barely reacts to price and margin is thin
		targetPrice := cost / (1 - a.config.TargetMargin)
		increase := math.Min(targetPrice-record.Price, record.Price*a.config.MaxIncreasePercent)
		recommendedPrice = record.Price + increase
		reasoning = fmt.Sprintf(
			"Margin is %.0f%% (target %.0f%%) and demand is price-insensitive (elasticity %.2f); room to raise.",
			currentMargin*100, a.config.TargetMargin*100, elasticity,
		)

	case absElasticity > a.config.ElasticBound && len(record.CompetitorPrices) > 0:
		avgCompetitor := mean(record.CompetitorPrices)
		if record.Price > avgCompetitor*a.config.CompetitorPremium {
			recommendedPrice = avgCompetitor * a.config.CompetitorTarget
			reasoning = fmt.Sprintf(
				"Demand is highly price-sensitive (elasticity %.2f) and price sits %.0f%% above the competitor average of %.2f.",
				elasticity, (record.Price/avgCompetitor-1)*100, avgCompetitor,
			)
		}
	}

	priceChange := recommendedPrice - record.Price
	if math.Abs(priceChange) <= a.config.MinChange {
		return nil
	}

	priceChangePercent := priceChange / record.Price * 100

	// Inverse relationship assumption: demand moves against price
	demandChange := -elasticity * priceChangePercent
	currentAvgDemand := avgDailyDemand(record.History)
	newDemand := currentAvgDemand * (1 + demandChange/100)
	revenueChange := recommendedPrice*newDemand - record.Price*currentAvgDemand

	confidence := math.Min(a.config.ConfidenceCap, float64(len(points))/5)

	return &contracts.PricingRecommendation{
		ID:                 "pricing-" + record.SKU,
		SKU:                record.SKU,
		ProductName:        record.Name,
		CurrentPrice:       record.Price,
		RecommendedPrice:   recommendedPrice,
		PriceChange:        priceChange,
		PriceChangePercent: priceChangePercent,
		Reasoning:          reasoning,
		ExpectedImpact: contracts.PricingImpact{
			RevenueChange: revenueChange,
			DemandChange:  demandChange,
		},
		Confidence: confidence,
	}
}

// demandByPrice groups history rows by distinct sale price and returns the
// average daily quantity at each price, sorted by price ascending.
func demandByPrice(history []contracts.SalesPoint) []pricePoint {
	type bucket struct {
		totalQty int
		days     int
	}
	buckets := make(map[float64]*bucket)
	for _, h := range history {
		b, ok := buckets[h.PriceAtSale]
		if !ok {
			b = &bucket{}
			buckets[h.PriceAtSale] = b
		}
		b.totalQty += h.QuantitySold
		b.days++
	}

	points := make([]pricePoint, 0, len(buckets))
	for price, b := range buckets {
		points = append(points, pricePoint{
			price:     price,
			avgDemand: float64(b.totalQty) / float64(b.days),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].price < points[j].price })
	return points
}

func avgDailyDemand(history []contracts.SalesPoint) float64 {
	if len(history) == 0 {
		return 0
	}
	total := 0
	for _, h := range history {
		total += h.QuantitySold
	}
	return float64(total) / float64(len(history))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
