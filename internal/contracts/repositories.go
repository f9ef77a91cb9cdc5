package contracts

import (
	"context"
	"time"
)

// Read-side repository interfaces. The engine only ever reads; recommendation
// output is returned to callers, never persisted here.

// ProductRepository loads products with their sales history.
type ProductRepository interface {
	GetSalesRecords(ctx context.Context) ([]ProductSalesRecord, error)
}

// OrderRepository loads order baskets for co-purchase mining.
type OrderRepository interface {
	GetOrders(ctx context.Context, from, to time.Time) ([]Order, error)
}

// CampaignRepository loads ad campaign aggregates.
type CampaignRepository interface {
	GetCampaignMetrics(ctx context.Context) ([]CampaignMetrics, error)
}

// MetricsRepository loads the store-wide aggregates the insight feed runs on.
type MetricsRepository interface {
	GetDailySales(ctx context.Context, days int) ([]DailySales, error)
	GetProductPerformance(ctx context.Context) ([]ProductPerformance, error)
	GetCustomerValues(ctx context.Context) ([]CustomerValue, error)
}
