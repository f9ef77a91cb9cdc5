package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/compass/backend/internal/contracts"
)

// OrderRepository implements contracts.OrderRepository
// ⭐ SSOT: 주문 바스켓 조회는 여기서만
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetOrders loads completed orders in [from, to] with their line items,
// ordered by placement time. Orders without items are dropped.
func (r *OrderRepository) GetOrders(ctx context.Context, from, to time.Time) ([]contracts.Order, error) {
	query := `
		SELECT o.id, i.sku, i.name, i.quantity
		FROM store.orders o
		JOIN store.order_items i ON i.order_id = o.id
		WHERE o.status = 'completed' AND o.placed_at BETWEEN $1 AND $2
		ORDER BY o.placed_at ASC, o.id ASC, i.sku ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []contracts.Order
	var current *contracts.Order
	for rows.Next() {
		var orderID string
		var item contracts.OrderItem
		if err := rows.Scan(&orderID, &item.SKU, &item.Name, &item.Quantity); err != nil {
			return nil, err
		}

		if current == nil || current.ID != orderID {
			orders = append(orders, contracts.Order{ID: orderID})
			current = &orders[len(orders)-1]
		}
		current.Items = append(current.Items, item)
	}

	return orders, rows.Err()
}
