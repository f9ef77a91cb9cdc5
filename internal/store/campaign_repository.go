package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/compass/backend/internal/contracts"
)

// CampaignRepository implements contracts.CampaignRepository
// ⭐ SSOT: 캠페인 지표 조회는 여기서만
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// GetCampaignMetrics loads lifetime aggregates for every campaign,
// ordered by id so runs are reproducible.
func (r *CampaignRepository) GetCampaignMetrics(ctx context.Context) ([]contracts.CampaignMetrics, error) {
	query := `
		SELECT id, name, spend, revenue, clicks, impressions, conversions, is_active
		FROM store.campaigns
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []contracts.CampaignMetrics
	for rows.Next() {
		var c contracts.CampaignMetrics
		if err := rows.Scan(&c.ID, &c.Name, &c.Spend, &c.Revenue, &c.Clicks, &c.Impressions, &c.Conversions, &c.IsActive); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
