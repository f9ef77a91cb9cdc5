package insights

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/wonny/compass/backend/internal/contracts"
	"github.com/wonny/compass/backend/pkg/logger"
)

// AggregatorConfig 인사이트 합성 설정
type AggregatorConfig struct {
	TrendWindowDays    int     // length of each compared revenue window (default: 7)
	MinTrendDays       int     // daily series length needed to evaluate trend (default: 14)
	TrendThreshold     float64 // percent change that triggers an insight (default: 10)
	HighTrendThreshold float64 // percent change that makes it high impact (default: 25)
	HighMarginFloor    float64 // margin above which a product is "high margin" (default: 0.5)
	ConcentrationTopN  int     // customers counted toward concentration (default: 5)
	ConcentrationRisk  float64 // revenue share that becomes a risk (default: 0.30)
	RecentAnomalyDays  int     // how far back an anomaly counts as recent (default: 7)
}

// DefaultAggregatorConfig 기본 설정
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		TrendWindowDays:    7,
		MinTrendDays:       14,
		TrendThreshold:     10,
		HighTrendThreshold: 25,
		HighMarginFloor:    0.5,
		ConcentrationTopN:  5,
		ConcentrationRisk:  0.30,
		RecentAnomalyDays:  7,
	}
}

// Aggregator synthesizes revenue-trend, margin, customer-concentration and
// anomaly signals into one ranked insight feed. Every rule is independently
// optional; all are evaluated on every call.
// ⭐ SSOT: 비즈니스 인사이트 합성은 여기서만
type Aggregator struct {
	config AggregatorConfig
	logger *logger.Logger
}

// NewAggregator creates a new insight aggregator
func NewAggregator(log *logger.Logger) *Aggregator {
	return &Aggregator{
		config: DefaultAggregatorConfig(),
		logger: log,
	}
}

// NewAggregatorWithConfig creates an aggregator with custom config
func NewAggregatorWithConfig(config AggregatorConfig, log *logger.Logger) *Aggregator {
	return &Aggregator{
		config: config,
		logger: log,
	}
}

// Aggregate evaluates all insight rules and returns the feed sorted by
// descending impact. Anomaly points must index into dailySales; anything
// else is a detector contract violation and fails the call.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	dailySales []contracts.DailySales,
	products []contracts.ProductPerformance,
	customers []contracts.CustomerValue,
	anomalies []contracts.AnomalyPoint,
) ([]contracts.BusinessInsight, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := contracts.ValidateAnomalyPoints(anomalies, len(dailySales)); err != nil {
		return nil, fmt.Errorf("anomaly contract violated: %w", err)
	}

	var feed []contracts.BusinessInsight

	if insight := a.revenueTrend(dailySales); insight != nil {
		feed = append(feed, *insight)
	}
	if insight := a.highMarginOpportunity(products); insight != nil {
		feed = append(feed, *insight)
	}
	if insight := a.customerConcentration(customers); insight != nil {
		feed = append(feed, *insight)
	}
	if insight := a.recentAnomalies(dailySales, anomalies); insight != nil {
		feed = append(feed, *insight)
	}

	// Sort by impact (high first), stable so ties keep rule order
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Impact.Rank() > feed[j].Impact.Rank()
	})

	a.logger.WithFields(map[string]interface{}{
		"days":     len(dailySales),
		"insights": len(feed),
	}).Info("Insight aggregation completed")

	return feed, nil
}

// revenueTrend compares the last window of revenue against the one before it.
func (a *Aggregator) revenueTrend(dailySales []contracts.DailySales) *contracts.BusinessInsight {
	window := a.config.TrendWindowDays
	if len(dailySales) < a.config.MinTrendDays {
		return nil
	}

	var current, previous float64
	for _, d := range dailySales[len(dailySales)-window:] {
		current += d.Revenue
	}
	for _, d := range dailySales[len(dailySales)-2*window : len(dailySales)-window] {
		previous += d.Revenue
	}
	if previous == 0 {
		return nil
	}

	change := (current - previous) / previous * 100
	if math.Abs(change) <= a.config.TrendThreshold {
		return nil
	}

	impact := contracts.ImpactMedium
	if math.Abs(change) > a.config.HighTrendThreshold {
		impact = contracts.ImpactHigh
	}

	if change > 0 {
		return &contracts.BusinessInsight{
			ID:          "insight-revenue-trend",
			Type:        contracts.InsightOpportunity,
			Title:       "Revenue is accelerating",
			Description: fmt.Sprintf("Revenue grew %.1f%% over the last %d days compared to the previous %d days.", change, window, window),
			Impact:      impact,
			Actionable:  true,
			Recommendations: []string{
				"Increase inventory for top sellers before the momentum fades",
				"Raise ad budgets on the channels driving the growth",
			},
			Metrics: &contracts.InsightMetrics{
				Current:   current,
				Potential: current * 1.10,
				Unit:      "revenue",
			},
		}
	}

	return &contracts.BusinessInsight{
		ID:          "insight-revenue-trend",
		Type:        contracts.InsightRisk,
		Title:       "Revenue is declining",
		Description: fmt.Sprintf("Revenue fell %.1f%% over the last %d days compared to the previous %d days.", -change, window, window),
		Impact:      impact,
		Actionable:  true,
		Recommendations: []string{
			"Review recent pricing or assortment changes",
			"Check top campaigns for fatigue or delivery issues",
		},
		Metrics: &contracts.InsightMetrics{
			Current:   current,
			Potential: previous,
			Unit:      "revenue",
		},
	}
}

// highMarginOpportunity surfaces the highest-revenue product among those with
// margin above the floor.
func (a *Aggregator) highMarginOpportunity(products []contracts.ProductPerformance) *contracts.BusinessInsight {
	var best *contracts.ProductPerformance
	for i := range products {
		p := &products[i]
		if p.Margin <= a.config.HighMarginFloor {
			continue
		}
		if best == nil || p.Revenue > best.Revenue {
			best = p
		}
	}
	if best == nil {
		return nil
	}

	return &contracts.BusinessInsight{
		ID:          "insight-high-margin",
		Type:        contracts.InsightOpportunity,
		Title:       fmt.Sprintf("Push high-margin product %q", best.Name),
		Description: fmt.Sprintf("%s earns a %.0f%% margin and already leads high-margin revenue; it can carry more promotion.", best.Name, best.Margin*100),
		Impact:      contracts.ImpactMedium,
		Actionable:  true,
		Recommendations: []string{
			"Feature the product on the storefront home page",
			"Bundle it with frequently co-purchased items",
		},
	}
}

// customerConcentration flags revenue resting on too few customers.
func (a *Aggregator) customerConcentration(customers []contracts.CustomerValue) *contracts.BusinessInsight {
	var total float64
	for _, c := range customers {
		total += c.TotalSpent
	}
	if total == 0 || len(customers) <= a.config.ConcentrationTopN {
		return nil
	}

	// Work on a copy, inputs are never mutated
	sorted := make([]contracts.CustomerValue, len(customers))
	copy(sorted, customers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalSpent > sorted[j].TotalSpent
	})

	var top float64
	for _, c := range sorted[:a.config.ConcentrationTopN] {
		top += c.TotalSpent
	}

	share := top / total
	if share <= a.config.ConcentrationRisk {
		return nil
	}

	return &contracts.BusinessInsight{
		ID:          "insight-customer-concentration",
		Type:        contracts.InsightRisk,
		Title:       "Revenue depends on a few customers",
		Description: fmt.Sprintf("The top %d customers account for %.0f%% of all revenue; losing one would hurt.", a.config.ConcentrationTopN, share*100),
		Impact:      contracts.ImpactHigh,
		Actionable:  true,
		Recommendations: []string{
			"Start a retention program for the top accounts",
			"Invest in acquisition to broaden the customer base",
		},
		Metrics: &contracts.InsightMetrics{
			Current:   share * 100,
			Potential: a.config.ConcentrationRisk * 100,
			Unit:      "percent of revenue",
		},
	}
}

// recentAnomalies reports anomalies falling within the recency window.
func (a *Aggregator) recentAnomalies(dailySales []contracts.DailySales, anomalies []contracts.AnomalyPoint) *contracts.BusinessInsight {
	cutoff := len(dailySales) - a.config.RecentAnomalyDays
	recent := 0
	for _, p := range anomalies {
		if p.Index >= cutoff {
			recent++
		}
	}
	if recent == 0 {
		return nil
	}

	return &contracts.BusinessInsight{
		ID:          "insight-recent-anomalies",
		Type:        contracts.InsightTrend,
		Title:       "Unusual revenue movement detected",
		Description: fmt.Sprintf("%d statistically unusual revenue day(s) in the last %d days.", recent, a.config.RecentAnomalyDays),
		Impact:      contracts.ImpactMedium,
		Actionable:  false,
	}
}
