package advisors

import (
	"context"
	"fmt"
	"sort"

	"github.com/wonny/compass/backend/internal/contracts"
	"github.com/wonny/compass/backend/pkg/logger"
)

// MarketingConfig 캠페인 분석 설정
type MarketingConfig struct {
	LowROAS        float64 // below this an active campaign needs optimization (default: 2.0)
	CriticalROAS   float64 // below this optimization is high priority (default: 1.0)
	HighROAS       float64 // above this a campaign is worth scaling (default: 3.0)
	LowCTR         float64 // below this creatives are stale (default: 0.01)
	PortfolioROAS  float64 // blended target across all campaigns (default: 2.5)
	ScaleBudgetPct float64 // scale-up cost as share of current spend (default: 0.5)
}

// DefaultMarketingConfig 기본 설정
func DefaultMarketingConfig() MarketingConfig {
	return MarketingConfig{
		LowROAS:        2.0,
		CriticalROAS:   1.0,
		HighROAS:       3.0,
		LowCTR:         0.01,
		PortfolioROAS:  2.5,
		ScaleBudgetPct: 0.5,
	}
}

// MarketingAdvisor triages ad campaigns by ROAS and CTR.
// Zero-spend campaigns are ineligible for ROAS rules, zero-impression
// campaigns for the CTR rule; both would otherwise divide by zero.
// ⭐ SSOT: 마케팅 추천은 여기서만
type MarketingAdvisor struct {
	config MarketingConfig
	logger *logger.Logger
}

// NewMarketingAdvisor creates a new marketing advisor
func NewMarketingAdvisor(log *logger.Logger) *MarketingAdvisor {
	return &MarketingAdvisor{
		config: DefaultMarketingConfig(),
		logger: log,
	}
}

// NewMarketingAdvisorWithConfig creates a marketing advisor with custom config
func NewMarketingAdvisorWithConfig(config MarketingConfig, log *logger.Logger) *MarketingAdvisor {
	return &MarketingAdvisor{
		config: config,
		logger: log,
	}
}

// Recommend evaluates every campaign independently (one campaign can yield
// several recommendations) plus one portfolio-level check, and returns the
// list sorted by descending priority.
func (a *MarketingAdvisor) Recommend(ctx context.Context, campaigns []contracts.CampaignMetrics) ([]contracts.MarketingRecommendation, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var recommendations []contracts.MarketingRecommendation

	for _, c := range campaigns {
		recommendations = append(recommendations, a.evaluateCampaign(c)...)
	}

	if rec := a.evaluatePortfolio(campaigns); rec != nil {
		recommendations = append(recommendations, *rec)
	}

	// Sort by priority (high first), stable so ties keep rule order
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority.Rank() > recommendations[j].Priority.Rank()
	})

	a.logger.WithFields(map[string]interface{}{
		"campaigns":       len(campaigns),
		"recommendations": len(recommendations),
	}).Info("Marketing analysis completed")

	return recommendations, nil
}

func (a *MarketingAdvisor) evaluateCampaign(c contracts.CampaignMetrics) []contracts.MarketingRecommendation {
	if !c.IsActive {
		return nil
	}

	var recs []contracts.MarketingRecommendation

	if c.Spend > 0 {
		roas := c.Revenue / c.Spend

		if roas < a.config.LowROAS {
			priority := contracts.PriorityMedium
			if roas < a.config.CriticalROAS {
				priority = contracts.PriorityHigh
			}
			recs = append(recs, contracts.MarketingRecommendation{
				ID:          fmt.Sprintf("marketing-%s-optimization", c.ID),
				CampaignID:  c.ID,
				Type:        contracts.MarketingCampaignOptimization,
				Title:       fmt.Sprintf("Optimize campaign %q", c.Name),
				Description: fmt.Sprintf("ROAS is %.2f, below the %.1f threshold. The campaign is spending more than it earns back.", roas, a.config.LowROAS),
				Priority:    priority,
				ExpectedROI: 1.5,
				Timeframe:   "1-2 weeks",
				ActionItems: []string{
					"Review audience targeting and exclude low-intent segments",
					"Pause the worst performing ad variants",
					"Lower bids on keywords without conversions",
				},
			})
		}

		if roas > a.config.HighROAS {
			cost := c.Spend * a.config.ScaleBudgetPct
			recs = append(recs, contracts.MarketingRecommendation{
				ID:            fmt.Sprintf("marketing-%s-scale", c.ID),
				CampaignID:    c.ID,
				Type:          contracts.MarketingBudgetAllocation,
				Title:         fmt.Sprintf("Scale campaign %q", c.Name),
				Description:   fmt.Sprintf("ROAS of %.2f is well above target; additional budget should return more at similar efficiency.", roas),
				Priority:      contracts.PriorityHigh,
				ExpectedROI:   2.5,
				EstimatedCost: &cost,
				Timeframe:     "immediate",
				ActionItems: []string{
					"Increase daily budget by 50%",
					"Duplicate winning ad sets to lookalike audiences",
					"Monitor ROAS daily while scaling",
				},
			})
		}
	}

	if c.Impressions > 0 {
		ctr := float64(c.Clicks) / float64(c.Impressions)
		if ctr < a.config.LowCTR {
			recs = append(recs, contracts.MarketingRecommendation{
				ID:          fmt.Sprintf("marketing-%s-creative", c.ID),
				CampaignID:  c.ID,
				Type:        contracts.MarketingCreativeRefresh,
				Title:       fmt.Sprintf("Refresh creatives for %q", c.Name),
				Description: fmt.Sprintf("CTR is %.2f%%, under the %.0f%% floor; the audience has stopped responding to current creatives.", ctr*100, a.config.LowCTR*100),
				Priority:    contracts.PriorityMedium,
				ExpectedROI: 1.3,
				Timeframe:   "2-4 weeks",
				ActionItems: []string{
					"Produce new ad creatives and copy variants",
					"A/B test against the current set",
					"Retire creatives older than 60 days",
				},
			})
		}
	}

	return recs
}

// evaluatePortfolio checks the blended ROAS across all campaigns.
func (a *MarketingAdvisor) evaluatePortfolio(campaigns []contracts.CampaignMetrics) *contracts.MarketingRecommendation {
	var totalSpend, totalRevenue float64
	for _, c := range campaigns {
		totalSpend += c.Spend
		totalRevenue += c.Revenue
	}
	if totalSpend == 0 {
		return nil
	}

	avgROAS := totalRevenue / totalSpend
	if avgROAS >= a.config.PortfolioROAS {
		return nil
	}

	return &contracts.MarketingRecommendation{
		ID:          "marketing-portfolio-reallocation",
		Type:        contracts.MarketingBudgetAllocation,
		Title:       "Reallocate budget across campaigns",
		Description: fmt.Sprintf("Blended ROAS is %.2f, below the %.1f portfolio target. Budget is spread across underperformers.", avgROAS, a.config.PortfolioROAS),
		Priority:    contracts.PriorityHigh,
		ExpectedROI: 1.8,
		Timeframe:   "1-2 weeks",
		ActionItems: []string{
			"Shift budget from campaigns under 2.0 ROAS to those above 3.0",
			"Pause campaigns with no conversions in the last 14 days",
			"Re-evaluate the split after two weeks",
		},
	}
}
