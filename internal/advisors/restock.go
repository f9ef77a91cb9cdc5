package advisors

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/wonny/compass/backend/internal/contracts"
	"github.com/wonny/compass/backend/pkg/logger"
)

// RestockConfig 재고 보충 분석 설정
type RestockConfig struct {
	HorizonDays     int // forecast horizon (default: 30)
	SafetyStockDays int // extra days of cover to order (default: 14)
	MinHistoryDays  int // minimum sales history to be eligible (default: 7)
}

// DefaultRestockConfig 기본 설정
func DefaultRestockConfig() RestockConfig {
	return RestockConfig{
		HorizonDays:     30,
		SafetyStockDays: 14,
		MinHistoryDays:  7,
	}
}

// RestockAdvisor ranks products by restocking urgency using demand forecasts.
// ⭐ SSOT: 재고 보충 추천은 여기서만
type RestockAdvisor struct {
	provider contracts.ForecastProvider
	config   RestockConfig
	logger   *logger.Logger
}

// NewRestockAdvisor creates a new restock advisor
func NewRestockAdvisor(provider contracts.ForecastProvider, log *logger.Logger) *RestockAdvisor {
	return &RestockAdvisor{
		provider: provider,
		config:   DefaultRestockConfig(),
		logger:   log,
	}
}

// NewRestockAdvisorWithConfig creates a restock advisor with custom config
func NewRestockAdvisorWithConfig(provider contracts.ForecastProvider, config RestockConfig, log *logger.Logger) *RestockAdvisor {
	return &RestockAdvisor{
		provider: provider,
		config:   config,
		logger:   log,
	}
}

// Recommend produces restock recommendations sorted by descending urgency.
// Products with too little history or no forecast are skipped silently; a
// forecast violating the provider contract fails the whole call.
func (a *RestockAdvisor) Recommend(ctx context.Context, records []contracts.ProductSalesRecord) ([]contracts.RestockRecommendation, error) {
	recommendations := make([]contracts.RestockRecommendation, 0, len(records))

	for _, record := range records {
		if len(record.History) < a.config.MinHistoryDays {
			continue
		}

		series := make([]contracts.DemandPoint, len(record.History))
		for i, h := range record.History {
			series[i] = contracts.DemandPoint{Date: h.Date, Quantity: h.QuantitySold}
		}

		points, err := a.provider.Forecast(ctx, series, a.config.HorizonDays)
		if err != nil {
			return nil, fmt.Errorf("forecast for %s: %w", record.SKU, err)
		}
		if len(points) == 0 {
			continue
		}
		if err := contracts.ValidateForecastPoints(points); err != nil {
			return nil, fmt.Errorf("forecast contract violated for %s: %w", record.SKU, err)
		}

		rec := a.evaluate(record, points)
		if rec == nil {
			continue
		}

		a.logger.WithFields(map[string]interface{}{
			"sku":     record.SKU,
			"urgency": string(rec.Urgency),
			"qty":     rec.RecommendedQuantity,
		}).Debug("Restock recommendation generated")

		recommendations = append(recommendations, *rec)
	}

	// Sort by urgency (critical first), stable so ties keep input order
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Urgency.Rank() > recommendations[j].Urgency.Rank()
	})

	a.logger.WithFields(map[string]interface{}{
		"products":        len(records),
		"recommendations": len(recommendations),
	}).Info("Restock analysis completed")

	return recommendations, nil
}

// evaluate computes one recommendation from a product and its forecast.
// Returns nil when no restock is needed.
func (a *RestockAdvisor) evaluate(record contracts.ProductSalesRecord, points []contracts.ForecastPoint) *contracts.RestockRecommendation {
	var totalExpectedDemand, confidenceSum float64
	for _, p := range points {
		totalExpectedDemand += p.PredictedQuantity
		confidenceSum += p.Confidence
	}
	avgConfidence := confidenceSum / float64(len(points))

	// Walk the forecast to find the first day cumulative demand exceeds stock
	stockoutDay := 0
	var stockoutDate *contracts.ForecastPoint
	cumulative := 0.0
	for i, p := range points {
		cumulative += p.PredictedQuantity
		if cumulative > float64(record.CurrentStock) {
			stockoutDay = i + 1
			stockoutDate = &points[i]
			break
		}
	}

	urgency := contracts.UrgencyLow
	switch {
	case stockoutDay == 0:
		// Stock outlasts the horizon
	case stockoutDay <= 7:
		urgency = contracts.UrgencyCritical
	case stockoutDay <= 14:
		urgency = contracts.UrgencyHigh
	case stockoutDay <= 21:
		urgency = contracts.UrgencyMedium
	}

	avgDailyDemand := totalExpectedDemand / float64(a.config.HorizonDays)
	recommendedQuantity := int(math.Ceil(totalExpectedDemand + avgDailyDemand*float64(a.config.SafetyStockDays) - float64(record.CurrentStock)))
	if recommendedQuantity <= 0 {
		return nil
	}

	reasoning := fmt.Sprintf(
		"Based on %d days of sales history, projected %d-day demand is %.0f units against %d in stock.",
		len(record.History), a.config.HorizonDays, totalExpectedDemand, record.CurrentStock,
	)

	rec := &contracts.RestockRecommendation{
		ID:                  "restock-" + record.SKU,
		SKU:                 record.SKU,
		ProductName:         record.Name,
		CurrentStock:        record.CurrentStock,
		RecommendedQuantity: recommendedQuantity,
		Urgency:             urgency,
		Reasoning:           reasoning,
		Confidence:          avgConfidence,
	}

	if stockoutDate != nil {
		d := stockoutDate.Date
		rec.EstimatedStockoutDate = &d
		rec.Reasoning += fmt.Sprintf(" Stock is projected to run out by %s.", d.Format("Jan 2, 2006"))

		lost := (totalExpectedDemand - float64(record.CurrentStock)) * record.Price
		rec.PotentialLostRevenue = &lost
	}

	return rec
}
