package advisors

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/wonny/compass/backend/internal/contracts"
	"github.com/wonny/compass/backend/pkg/logger"
)

// CrossSellConfig 연관 구매 마이닝 설정
type CrossSellConfig struct {
	MinSupport     int     // orders a primary sku must appear in (default: 5)
	MinConfidence  float64 // P(related|primary) floor (default: 0.10)
	MinLift        float64 // observed/expected co-occurrence floor (default: 1.20)
	MaxRelated     int     // related products kept per primary (default: 3)
	UpliftFactor   float64 // uplift percent per unit of mean confidence (default: 25)
	PopularSupport int     // support at which the segment is "high-frequency" (default: 10)
}

// DefaultCrossSellConfig 기본 설정
func DefaultCrossSellConfig() CrossSellConfig {
	return CrossSellConfig{
		MinSupport:     5,
		MinConfidence:  0.10,
		MinLift:        1.20,
		MaxRelated:     3,
		UpliftFactor:   25,
		PopularSupport: 10,
	}
}

// CrossSellAdvisor mines order baskets for co-purchase patterns.
// Pairwise construction is O(orders × basketSize²); very large order volumes
// should be pre-aggregated or sampled by the caller.
// ⭐ SSOT: 교차판매 추천은 여기서만
type CrossSellAdvisor struct {
	config CrossSellConfig
	logger *logger.Logger
}

// NewCrossSellAdvisor creates a new cross-sell advisor
func NewCrossSellAdvisor(log *logger.Logger) *CrossSellAdvisor {
	return &CrossSellAdvisor{
		config: DefaultCrossSellConfig(),
		logger: log,
	}
}

// NewCrossSellAdvisorWithConfig creates a cross-sell advisor with custom config
func NewCrossSellAdvisorWithConfig(config CrossSellConfig, log *logger.Logger) *CrossSellAdvisor {
	return &CrossSellAdvisor{
		config: config,
		logger: log,
	}
}

// Recommend returns one recommendation per primary sku that has at least one
// related product clearing both the confidence and lift thresholds, sorted by
// descending expected uplift.
func (a *CrossSellAdvisor) Recommend(ctx context.Context, orders []contracts.Order) ([]contracts.CrossSellRecommendation, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	totalOrders := len(orders)
	if totalOrders == 0 {
		return nil, nil
	}

	itemCounts := make(map[string]int)              // orders containing the sku
	coOccurrence := make(map[string]map[string]int) // sku -> sku -> shared orders
	names := make(map[string]string)

	for _, order := range orders {
		// One count per order containing the sku, regardless of quantity
		seen := make(map[string]bool, len(order.Items))
		skus := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			if seen[item.SKU] {
				continue
			}
			seen[item.SKU] = true
			skus = append(skus, item.SKU)
			itemCounts[item.SKU]++
			if _, ok := names[item.SKU]; !ok {
				names[item.SKU] = item.Name
			}
		}

		// Symmetric pair counting, once per order
		for i := 0; i < len(skus); i++ {
			for j := i + 1; j < len(skus); j++ {
				bump(coOccurrence, skus[i], skus[j])
				bump(coOccurrence, skus[j], skus[i])
			}
		}
	}

	// Deterministic iteration order regardless of map layout
	primaries := make([]string, 0, len(itemCounts))
	for sku := range itemCounts {
		primaries = append(primaries, sku)
	}
	sort.Strings(primaries)

	var recommendations []contracts.CrossSellRecommendation

	for _, primary := range primaries {
		primaryCount := itemCounts[primary]
		if primaryCount < a.config.MinSupport {
			continue
		}

		rec := a.buildRecommendation(primary, primaryCount, totalOrders, itemCounts, coOccurrence[primary], names)
		if rec == nil {
			continue
		}
		recommendations = append(recommendations, *rec)
	}

	// Sort by expected uplift (descending), stable so ties stay in sku order
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].ExpectedUplift > recommendations[j].ExpectedUplift
	})

	a.logger.WithFields(map[string]interface{}{
		"orders":          totalOrders,
		"recommendations": len(recommendations),
	}).Info("Cross-sell analysis completed")

	return recommendations, nil
}

func (a *CrossSellAdvisor) buildRecommendation(
	primary string,
	primaryCount, totalOrders int,
	itemCounts map[string]int,
	related map[string]int,
	names map[string]string,
) *contracts.CrossSellRecommendation {
	candidates := make([]contracts.RecommendedProduct, 0, len(related))

	// Deterministic candidate order before the confidence sort
	relatedSKUs := make([]string, 0, len(related))
	for sku := range related {
		relatedSKUs = append(relatedSKUs, sku)
	}
	sort.Strings(relatedSKUs)

	for _, sku := range relatedSKUs {
		shared := related[sku]
		confidence := float64(shared) / float64(primaryCount)

		// Observed vs expected-under-independence co-occurrence
		expected := float64(primaryCount) * float64(itemCounts[sku]) / float64(totalOrders)
		lift := float64(shared) / expected

		if confidence <= a.config.MinConfidence || lift <= a.config.MinLift {
			continue
		}

		candidates = append(candidates, contracts.RecommendedProduct{
			SKU:        sku,
			Name:       names[sku],
			Confidence: confidence,
			Reason:     fmt.Sprintf("Bought together in %d of %d orders containing %s (lift %.2f)", shared, primaryCount, names[primary], lift),
		})
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > a.config.MaxRelated {
		candidates = candidates[:a.config.MaxRelated]
	}

	var confidenceSum float64
	for _, c := range candidates {
		confidenceSum += c.Confidence
	}
	meanConfidence := confidenceSum / float64(len(candidates))

	segment := "standard"
	if primaryCount >= a.config.PopularSupport {
		segment = "high-frequency"
	}

	return &contracts.CrossSellRecommendation{
		ID:                  "crosssell-" + primary,
		PrimarySKU:          primary,
		PrimaryProduct:      names[primary],
		RecommendedProducts: candidates,
		ExpectedUplift:      int(math.Round(meanConfidence * a.config.UpliftFactor)),
		CustomerSegment:     segment,
	}
}

func bump(m map[string]map[string]int, from, to string) {
	inner, ok := m[from]
	if !ok {
		inner = make(map[string]int)
		m[from] = inner
	}
	inner[to]++
}
