package advisors

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/compass/backend/internal/contracts"
)

// twoPriceHistory builds daysEach rows at each of two prices, oldest first.
func twoPriceHistory(end time.Time, daysEach int, priceA float64, qtyA int, priceB float64, qtyB int) []contracts.SalesPoint {
	history := make([]contracts.SalesPoint, 0, 2*daysEach)
	start := end.AddDate(0, 0, -2*daysEach+1)
	for i := 0; i < daysEach; i++ {
		history = append(history, contracts.SalesPoint{Date: start.AddDate(0, 0, i), QuantitySold: qtyA, PriceAtSale: priceA})
	}
	for i := 0; i < daysEach; i++ {
		history = append(history, contracts.SalesPoint{Date: start.AddDate(0, 0, daysEach+i), QuantitySold: qtyB, PriceAtSale: priceB})
	}
	return history
}

func floatPtr(v float64) *float64 { return &v }

func TestPricingAdvisor_RaisesInelasticThinMarginProduct(t *testing.T) {
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	advisor := NewPricingAdvisor(testLogger())

	// 11/day at $9 vs 10/day at $10: elasticity (0.1)/(0.111) = 0.9,
	// margin (10-7)/10 = 30%, so the raise rule applies.
	record := contracts.ProductSalesRecord{
		SKU:     "SKU-1",
		Name:    "Widget",
		Price:   10,
		Cost:    floatPtr(7),
		History: twoPriceHistory(end, 7, 9, 11, 10, 10),
	}

	recs, err := advisor.Recommend(context.Background(), []contracts.ProductSalesRecord{record})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, "pricing-SKU-1", rec.ID)

	// Target price 7/(1-0.4) = 11.67 but the raise is capped at +15%
	assert.InDelta(t, 11.50, rec.RecommendedPrice, 1e-9)
	assert.InDelta(t, 1.50, rec.PriceChange, 1e-9)
	assert.InDelta(t, 15.0, rec.PriceChangePercent, 1e-9)

	// Two distinct price points observed
	assert.InDelta(t, 0.4, rec.Confidence, 1e-9)

	// Inverse demand assumption: a raise lowers expected demand
	assert.Less(t, rec.ExpectedImpact.DemandChange, 0.0)
}

func TestPricingAdvisor_LowersElasticOverpricedProduct(t *testing.T) {
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	advisor := NewPricingAdvisor(testLogger())

	// 20/day at $18 vs 8/day at $20: elasticity 1.5/0.111 = 13.5,
	// price sits 29% above the $15.50 competitor average.
	record := contracts.ProductSalesRecord{
		SKU:              "SKU-2",
		Name:             "Gadget",
		Price:            20,
		Cost:             floatPtr(5),
		CompetitorPrices: []float64{15, 16},
		History:          twoPriceHistory(end, 7, 18, 20, 20, 8),
	}

	recs, err := advisor.Recommend(context.Background(), []contracts.ProductSalesRecord{record})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.InDelta(t, 15.5*1.05, rec.RecommendedPrice, 1e-9)
	assert.Less(t, rec.PriceChange, 0.0)
	assert.Greater(t, rec.ExpectedImpact.DemandChange, 0.0)
}

func TestPricingAdvisor_ElasticWithoutCompetitorsYieldsNothing(t *testing.T) {
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	advisor := NewPricingAdvisor(testLogger())

	record := contracts.ProductSalesRecord{
		SKU:     "SKU-3",
		Name:    "Gizmo",
		Price:   20,
		Cost:    floatPtr(5),
		History: twoPriceHistory(end, 7, 18, 20, 20, 8),
	}

	recs, err := advisor.Recommend(context.Background(), []contracts.ProductSalesRecord{record})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestPricingAdvisor_IgnoresSubCentChanges(t *testing.T) {
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	advisor := NewPricingAdvisor(testLogger())

	// Margin is a hair under target, so the computed raise is under a cent.
	record := contracts.ProductSalesRecord{
		SKU:     "SKU-4",
		Name:    "Trinket",
		Price:   10,
		Cost:    floatPtr(6.001),
		History: twoPriceHistory(end, 7, 9, 11, 10, 10),
	}

	recs, err := advisor.Recommend(context.Background(), []contracts.ProductSalesRecord{record})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestPricingAdvisor_SkipsIneligibleProducts(t *testing.T) {
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	advisor := NewPricingAdvisor(testLogger())

	records := []contracts.ProductSalesRecord{
		// No cost on file
		{SKU: "NO-COST", Price: 10, History: twoPriceHistory(end, 7, 9, 11, 10, 10)},
		// Too little history
		{SKU: "SHORT", Price: 10, Cost: floatPtr(7), History: twoPriceHistory(end, 5, 9, 11, 10, 10)},
		// Sold at one price only, elasticity unmeasurable
		{SKU: "ONE-PRICE", Price: 10, Cost: floatPtr(7), History: flatHistory(end, 20, 10, 10)},
	}

	recs, err := advisor.Recommend(context.Background(), records)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestPricingAdvisor_ConfidenceCappedAtPointEight(t *testing.T) {
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	advisor := NewPricingAdvisor(testLogger())

	// Six distinct inelastic price points; confidence caps at 0.8.
	history := make([]contracts.SalesPoint, 0, 18)
	prices := []float64{9.0, 9.2, 9.4, 9.6, 9.8, 10.0}
	qtys := []int{11, 11, 11, 10, 10, 10}
	start := end.AddDate(0, 0, -17)
	for i, price := range prices {
		for d := 0; d < 3; d++ {
			history = append(history, contracts.SalesPoint{
				Date:         start.AddDate(0, 0, i*3+d),
				QuantitySold: qtys[i],
				PriceAtSale:  price,
			})
		}
	}

	record := contracts.ProductSalesRecord{
		SKU:     "SKU-5",
		Name:    "Doohickey",
		Price:   10,
		Cost:    floatPtr(7),
		History: history,
	}

	recs, err := advisor.Recommend(context.Background(), []contracts.ProductSalesRecord{record})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, 0.8, recs[0].Confidence, 1e-9)
}

func TestPricingAdvisor_Deterministic(t *testing.T) {
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	advisor := NewPricingAdvisor(testLogger())

	records := []contracts.ProductSalesRecord{
		{SKU: "SKU-1", Name: "Widget", Price: 10, Cost: floatPtr(7), History: twoPriceHistory(end, 7, 9, 11, 10, 10)},
		{SKU: "SKU-2", Name: "Gadget", Price: 20, Cost: floatPtr(5), CompetitorPrices: []float64{15, 16}, History: twoPriceHistory(end, 7, 18, 20, 20, 8)},
	}

	first, err := advisor.Recommend(context.Background(), records)
	require.NoError(t, err)
	second, err := advisor.Recommend(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
