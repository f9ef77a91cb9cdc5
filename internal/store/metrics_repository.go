package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/compass/backend/internal/contracts"
)

// MetricsRepository implements contracts.MetricsRepository
// ⭐ SSOT: 스토어 단위 집계 조회는 여기서만
type MetricsRepository struct {
	pool *pgxpool.Pool
}

// NewMetricsRepository creates a new metrics repository
func NewMetricsRepository(pool *pgxpool.Pool) *MetricsRepository {
	return &MetricsRepository{pool: pool}
}

// GetDailySales loads the last `days` days of store-wide revenue,
// oldest first. Days with no orders come back as zero rows from the
// aggregate table, so gaps are possible.
func (r *MetricsRepository) GetDailySales(ctx context.Context, days int) ([]contracts.DailySales, error) {
	query := `
		SELECT sale_date, revenue, order_count
		FROM store.daily_sales
		WHERE sale_date > CURRENT_DATE - $1::int
		ORDER BY sale_date ASC
	`

	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []contracts.DailySales
	for rows.Next() {
		var d contracts.DailySales
		if err := rows.Scan(&d.Date, &d.Revenue, &d.Orders); err != nil {
			return nil, err
		}
		sales = append(sales, d)
	}
	return sales, rows.Err()
}

// GetProductPerformance loads per-product revenue and margin aggregates.
func (r *MetricsRepository) GetProductPerformance(ctx context.Context) ([]contracts.ProductPerformance, error) {
	query := `
		SELECT sku, name, revenue, margin
		FROM store.product_performance
		ORDER BY sku ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []contracts.ProductPerformance
	for rows.Next() {
		var p contracts.ProductPerformance
		if err := rows.Scan(&p.SKU, &p.Name, &p.Revenue, &p.Margin); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetCustomerValues loads per-customer lifetime spend aggregates.
func (r *MetricsRepository) GetCustomerValues(ctx context.Context) ([]contracts.CustomerValue, error) {
	query := `
		SELECT customer_id, total_spent, order_count
		FROM store.customer_values
		ORDER BY customer_id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []contracts.CustomerValue
	for rows.Next() {
		var c contracts.CustomerValue
		if err := rows.Scan(&c.ID, &c.TotalSpent, &c.OrderCount); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
