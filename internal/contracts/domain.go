package contracts

import "time"

// SalesPoint 제품의 하루 판매 이력
type SalesPoint struct {
	Date         time.Time `json:"date"`
	QuantitySold int       `json:"quantity_sold"`
	PriceAtSale  float64   `json:"price_at_sale"`
}

// ProductSalesRecord holds everything the advisors need to know about one
// product: current state plus its ordered sales history. Dates in History
// need not be contiguous, but they must be real calendar dates.
type ProductSalesRecord struct {
	SKU              string       `json:"sku"`
	Name             string       `json:"name"`
	CurrentStock     int          `json:"current_stock"`
	Price            float64      `json:"price"`
	Cost             *float64     `json:"cost,omitempty"`              // unit cost, nil if unknown
	CompetitorPrices []float64    `json:"competitor_prices,omitempty"` // nil if not collected
	History          []SalesPoint `json:"history"`
}

// CampaignMetrics 광고 캠페인 집계 지표
type CampaignMetrics struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	Conversions int64   `json:"conversions"`
	IsActive    bool    `json:"is_active"`
}

// OrderItem is one line of an order basket.
type OrderItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Order is a single customer order (basket) used for co-purchase mining.
type Order struct {
	ID    string      `json:"id"`
	Items []OrderItem `json:"items"`
}

// DailySales is one day of store-wide revenue and order volume.
type DailySales struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
}

// ProductPerformance 제품별 매출/마진 집계
type ProductPerformance struct {
	SKU     string  `json:"sku"`
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Margin  float64 `json:"margin"` // 0~1
}

// CustomerValue is a per-customer lifetime aggregate.
type CustomerValue struct {
	ID         string  `json:"id"`
	TotalSpent float64 `json:"total_spent"`
	OrderCount int     `json:"order_count"`
}
