package advisors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/compass/backend/internal/contracts"
)

func TestMarketingAdvisor_HealthyROASButStaleCreatives(t *testing.T) {
	advisor := NewMarketingAdvisor(testLogger())

	// ROAS 2.5 passes both ROAS rules; CTR 0.5% trips the creative rule.
	campaigns := []contracts.CampaignMetrics{
		{ID: "c1", Name: "Summer Sale", Spend: 1000, Revenue: 2500, Clicks: 50, Impressions: 10000, IsActive: true},
	}

	recs, err := advisor.Recommend(context.Background(), campaigns)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, "marketing-c1-creative", rec.ID)
	assert.Equal(t, contracts.MarketingCreativeRefresh, rec.Type)
	assert.Equal(t, contracts.PriorityMedium, rec.Priority)
	assert.Equal(t, "c1", rec.CampaignID)
}

func TestMarketingAdvisor_UnprofitableCampaignIsHighPriority(t *testing.T) {
	advisor := NewMarketingAdvisor(testLogger())

	campaigns := []contracts.CampaignMetrics{
		{ID: "c1", Name: "Burn", Spend: 1000, Revenue: 500, Clicks: 200, Impressions: 10000, IsActive: true},
	}

	recs, err := advisor.Recommend(context.Background(), campaigns)
	require.NoError(t, err)

	var optimization *contracts.MarketingRecommendation
	for i := range recs {
		if recs[i].Type == contracts.MarketingCampaignOptimization {
			optimization = &recs[i]
		}
	}
	require.NotNil(t, optimization)
	assert.Equal(t, contracts.PriorityHigh, optimization.Priority) // ROAS 0.5 < 1.0
}

func TestMarketingAdvisor_UnderperformingButPositiveIsMediumPriority(t *testing.T) {
	advisor := NewMarketingAdvisor(testLogger())

	campaigns := []contracts.CampaignMetrics{
		{ID: "c1", Name: "Meh", Spend: 1000, Revenue: 1500, Clicks: 200, Impressions: 10000, IsActive: true},
	}

	recs, err := advisor.Recommend(context.Background(), campaigns)
	require.NoError(t, err)

	found := false
	for _, rec := range recs {
		if rec.Type == contracts.MarketingCampaignOptimization {
			found = true
			assert.Equal(t, contracts.PriorityMedium, rec.Priority) // ROAS 1.5
		}
	}
	assert.True(t, found)
}

func TestMarketingAdvisor_ScalesWinners(t *testing.T) {
	advisor := NewMarketingAdvisor(testLogger())

	campaigns := []contracts.CampaignMetrics{
		{ID: "c1", Name: "Winner", Spend: 1000, Revenue: 4000, Clicks: 500, Impressions: 10000, IsActive: true},
	}

	recs, err := advisor.Recommend(context.Background(), campaigns)
	require.NoError(t, err)

	var scale *contracts.MarketingRecommendation
	for i := range recs {
		if recs[i].Type == contracts.MarketingBudgetAllocation {
			scale = &recs[i]
		}
	}
	require.NotNil(t, scale)
	assert.Equal(t, "marketing-c1-scale", scale.ID)
	assert.Equal(t, contracts.PriorityHigh, scale.Priority)
	require.NotNil(t, scale.EstimatedCost)
	assert.InDelta(t, 500.0, *scale.EstimatedCost, 1e-9) // 50% of current spend
}

func TestMarketingAdvisor_ZeroSpendAndZeroImpressionsAreIneligible(t *testing.T) {
	advisor := NewMarketingAdvisor(testLogger())

	// No spend means no ROAS, no impressions means no CTR; nothing to say.
	campaigns := []contracts.CampaignMetrics{
		{ID: "c1", Name: "Draft", Spend: 0, Revenue: 0, Clicks: 0, Impressions: 0, IsActive: true},
	}

	recs, err := advisor.Recommend(context.Background(), campaigns)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestMarketingAdvisor_IgnoresInactiveCampaigns(t *testing.T) {
	advisor := NewMarketingAdvisor(testLogger())

	campaigns := []contracts.CampaignMetrics{
		{ID: "c1", Name: "Paused Burn", Spend: 1000, Revenue: 100, Clicks: 5, Impressions: 10000, IsActive: false},
	}

	recs, err := advisor.Recommend(context.Background(), campaigns)
	require.NoError(t, err)

	// The paused campaign itself yields nothing, but its spend still drags
	// the blended portfolio ROAS below target.
	require.Len(t, recs, 1)
	assert.Equal(t, "marketing-portfolio-reallocation", recs[0].ID)
}

func TestMarketingAdvisor_PortfolioReallocation(t *testing.T) {
	advisor := NewMarketingAdvisor(testLogger())

	// Blended ROAS (2000+1000)/(1000+1000) = 1.5 < 2.5
	campaigns := []contracts.CampaignMetrics{
		{ID: "c1", Name: "A", Spend: 1000, Revenue: 2000, Clicks: 200, Impressions: 10000, IsActive: true},
		{ID: "c2", Name: "B", Spend: 1000, Revenue: 1000, Clicks: 200, Impressions: 10000, IsActive: true},
	}

	recs, err := advisor.Recommend(context.Background(), campaigns)
	require.NoError(t, err)

	var portfolio *contracts.MarketingRecommendation
	for i := range recs {
		if recs[i].ID == "marketing-portfolio-reallocation" {
			portfolio = &recs[i]
		}
	}
	require.NotNil(t, portfolio)
	assert.Equal(t, contracts.MarketingBudgetAllocation, portfolio.Type)
	assert.Equal(t, contracts.PriorityHigh, portfolio.Priority)
	assert.Empty(t, portfolio.CampaignID)
}

func TestMarketingAdvisor_SortedByPriorityAndDeterministic(t *testing.T) {
	advisor := NewMarketingAdvisor(testLogger())

	campaigns := []contracts.CampaignMetrics{
		{ID: "c1", Name: "Stale", Spend: 1000, Revenue: 2500, Clicks: 50, Impressions: 10000, IsActive: true},
		{ID: "c2", Name: "Burn", Spend: 1000, Revenue: 500, Clicks: 200, Impressions: 10000, IsActive: true},
		{ID: "c3", Name: "Winner", Spend: 1000, Revenue: 4000, Clicks: 500, Impressions: 10000, IsActive: true},
	}

	first, err := advisor.Recommend(context.Background(), campaigns)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	for i := 1; i < len(first); i++ {
		assert.GreaterOrEqual(t, first[i-1].Priority.Rank(), first[i].Priority.Rank())
	}

	second, err := advisor.Recommend(context.Background(), campaigns)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
