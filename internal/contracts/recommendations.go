package contracts

import "time"

// Urgency 재고 보충 긴급도
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Rank maps urgency to an ordinal for sorting (critical=4 ... low=1).
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 4
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	default:
		return 1
	}
}

// Priority 추천 우선순위 (low/medium/high)
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank maps priority to an ordinal for sorting (high=3 ... low=1).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Impact is the severity tier of a business insight.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Rank maps impact to an ordinal for sorting (high=3 ... low=1).
func (i Impact) Rank() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	default:
		return 1
	}
}

// RestockRecommendation 재고 보충 추천
type RestockRecommendation struct {
	ID                    string     `json:"id"`
	SKU                   string     `json:"sku"`
	ProductName           string     `json:"product_name"`
	CurrentStock          int        `json:"current_stock"`
	RecommendedQuantity   int        `json:"recommended_quantity"`
	Urgency               Urgency    `json:"urgency"`
	Reasoning             string     `json:"reasoning"`
	EstimatedStockoutDate *time.Time `json:"estimated_stockout_date,omitempty"`
	Confidence            float64    `json:"confidence"` // 0~1
	PotentialLostRevenue  *float64   `json:"potential_lost_revenue,omitempty"`
}

// PricingImpact is the projected effect of a price change.
type PricingImpact struct {
	RevenueChange float64 `json:"revenue_change"` // absolute daily revenue delta
	DemandChange  float64 `json:"demand_change"`  // percent
}

// PricingRecommendation 가격 조정 추천
type PricingRecommendation struct {
	ID                 string        `json:"id"`
	SKU                string        `json:"sku"`
	ProductName        string        `json:"product_name"`
	CurrentPrice       float64       `json:"current_price"`
	RecommendedPrice   float64       `json:"recommended_price"`
	PriceChange        float64       `json:"price_change"`
	PriceChangePercent float64       `json:"price_change_percent"`
	Reasoning          string        `json:"reasoning"`
	ExpectedImpact     PricingImpact `json:"expected_impact"`
	Confidence         float64       `json:"confidence"` // 0~0.8
}

// MarketingRecommendationType 마케팅 추천 유형
type MarketingRecommendationType string

const (
	MarketingCampaignOptimization MarketingRecommendationType = "campaign_optimization"
	MarketingAudienceTargeting    MarketingRecommendationType = "audience_targeting"
	MarketingBudgetAllocation     MarketingRecommendationType = "budget_allocation"
	MarketingCreativeRefresh      MarketingRecommendationType = "creative_refresh"
)

// MarketingRecommendation 캠페인 단위 액션 추천
type MarketingRecommendation struct {
	ID            string                      `json:"id"`
	CampaignID    string                      `json:"campaign_id,omitempty"` // empty for portfolio-level actions
	Type          MarketingRecommendationType `json:"type"`
	Title         string                      `json:"title"`
	Description   string                      `json:"description"`
	Priority      Priority                    `json:"priority"`
	ExpectedROI   float64                     `json:"expected_roi"`
	EstimatedCost *float64                    `json:"estimated_cost,omitempty"`
	Timeframe     string                      `json:"timeframe"`
	ActionItems   []string                    `json:"action_items"`
}

// RecommendedProduct is one co-purchase pairing candidate.
type RecommendedProduct struct {
	SKU        string  `json:"sku"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"` // P(related | primary)
	Reason     string  `json:"reason"`
}

// CrossSellRecommendation 교차판매 추천 (연관 구매 패턴)
type CrossSellRecommendation struct {
	ID                  string               `json:"id"`
	PrimarySKU          string               `json:"primary_sku"`
	PrimaryProduct      string               `json:"primary_product"`
	RecommendedProducts []RecommendedProduct `json:"recommended_products"` // max 3, confidence desc
	ExpectedUplift      int                  `json:"expected_uplift"`      // percent
	CustomerSegment     string               `json:"customer_segment"`
}

// InsightType 인사이트 유형
type InsightType string

const (
	InsightOpportunity  InsightType = "opportunity"
	InsightRisk         InsightType = "risk"
	InsightOptimization InsightType = "optimization"
	InsightTrend        InsightType = "trend"
)

// InsightMetrics is the current-vs-potential metric block of an insight.
type InsightMetrics struct {
	Current   float64 `json:"current"`
	Potential float64 `json:"potential"`
	Unit      string  `json:"unit"`
}

// BusinessInsight 종합 비즈니스 인사이트
type BusinessInsight struct {
	ID              string          `json:"id"`
	Type            InsightType     `json:"type"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Impact          Impact          `json:"impact"`
	Actionable      bool            `json:"actionable"`
	Recommendations []string        `json:"recommendations,omitempty"`
	Metrics         *InsightMetrics `json:"metrics,omitempty"`
}

// AnalysisReport bundles one full engine run for the dashboard.
type AnalysisReport struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Restock     []RestockRecommendation   `json:"restock"`
	Pricing     []PricingRecommendation   `json:"pricing"`
	Marketing   []MarketingRecommendation `json:"marketing"`
	CrossSell   []CrossSellRecommendation `json:"cross_sell"`
	Insights    []BusinessInsight         `json:"insights"`
}
