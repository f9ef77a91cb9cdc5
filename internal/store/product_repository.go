package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/compass/backend/internal/contracts"
)

// ProductRepository implements contracts.ProductRepository
// ⭐ SSOT: 제품/판매 이력 조회는 여기서만
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new product repository
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// GetSalesRecords loads every active product together with its daily sales
// history and the latest scraped competitor prices, ordered by sku so runs
// are reproducible.
func (r *ProductRepository) GetSalesRecords(ctx context.Context) ([]contracts.ProductSalesRecord, error) {
	query := `
		SELECT sku, name, current_stock, price, cost
		FROM store.products
		WHERE is_active = true
		ORDER BY sku ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []contracts.ProductSalesRecord
	for rows.Next() {
		var rec contracts.ProductSalesRecord
		if err := rows.Scan(&rec.SKU, &rec.Name, &rec.CurrentStock, &rec.Price, &rec.Cost); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		history, err := r.getHistory(ctx, records[i].SKU)
		if err != nil {
			return nil, err
		}
		records[i].History = history

		competitors, err := r.getCompetitorPrices(ctx, records[i].SKU)
		if err != nil {
			return nil, err
		}
		records[i].CompetitorPrices = competitors
	}

	return records, nil
}

func (r *ProductRepository) getHistory(ctx context.Context, sku string) ([]contracts.SalesPoint, error) {
	query := `
		SELECT sale_date, quantity_sold, price_at_sale
		FROM store.daily_product_sales
		WHERE sku = $1
		ORDER BY sale_date ASC
	`

	rows, err := r.pool.Query(ctx, query, sku)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []contracts.SalesPoint
	for rows.Next() {
		var p contracts.SalesPoint
		if err := rows.Scan(&p.Date, &p.QuantitySold, &p.PriceAtSale); err != nil {
			return nil, err
		}
		history = append(history, p)
	}
	return history, rows.Err()
}

// getCompetitorPrices returns the most recent observed price per competitor.
func (r *ProductRepository) getCompetitorPrices(ctx context.Context, sku string) ([]float64, error) {
	query := `
		SELECT DISTINCT ON (competitor) price
		FROM store.competitor_prices
		WHERE sku = $1
		ORDER BY competitor, observed_at DESC
	`

	rows, err := r.pool.Query(ctx, query, sku)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []float64
	for rows.Next() {
		var price float64
		if err := rows.Scan(&price); err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}
	return prices, rows.Err()
}
