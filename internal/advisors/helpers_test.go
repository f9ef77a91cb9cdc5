package advisors

import (
	"context"
	"time"

	"github.com/wonny/compass/backend/internal/contracts"
	"github.com/wonny/compass/backend/pkg/config"
	"github.com/wonny/compass/backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

// stubForecaster returns canned forecast points (or a canned error) and
// records the series it was called with.
type stubForecaster struct {
	points []contracts.ForecastPoint
	err    error

	lastSeries  []contracts.DemandPoint
	lastHorizon int
}

func (s *stubForecaster) Forecast(_ context.Context, series []contracts.DemandPoint, horizonDays int) ([]contracts.ForecastPoint, error) {
	s.lastSeries = series
	s.lastHorizon = horizonDays
	if s.err != nil {
		return nil, s.err
	}
	return s.points, nil
}

// flatForecast builds horizonDays points of constant daily demand starting
// the day after `from`.
func flatForecast(from time.Time, horizonDays int, qty, confidence float64) []contracts.ForecastPoint {
	points := make([]contracts.ForecastPoint, horizonDays)
	for i := range points {
		points[i] = contracts.ForecastPoint{
			Date:              from.AddDate(0, 0, i+1),
			PredictedQuantity: qty,
			Confidence:        confidence,
		}
	}
	return points
}

// flatHistory builds days rows of constant sales at one price, ending at `end`.
func flatHistory(end time.Time, days, qty int, price float64) []contracts.SalesPoint {
	history := make([]contracts.SalesPoint, days)
	for i := range history {
		history[i] = contracts.SalesPoint{
			Date:         end.AddDate(0, 0, i-days+1),
			QuantitySold: qty,
			PriceAtSale:  price,
		}
	}
	return history
}
