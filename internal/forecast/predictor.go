package forecast

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/compass/backend/internal/contracts"
)

// PredictorConfig 수요 예측 설정
type PredictorConfig struct {
	MinHistoryDays int     // minimum usable points (default: 7)
	MaxConfidence  float64 // confidence ceiling (default: 0.95)
	MinConfidence  float64 // confidence floor for a usable fit (default: 0.3)
	HorizonDecay   float64 // confidence lost across the full horizon (default: 0.3)
}

// DefaultPredictorConfig 기본 예측 설정
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{
		MinHistoryDays: 7,
		MaxConfidence:  0.95,
		MinConfidence:  0.3,
		HorizonDecay:   0.3,
	}
}

// Predictor implements contracts.ForecastProvider with a least-squares trend
// plus day-of-week seasonality over the observed sales history.
// ⭐ SSOT: 수요 예측 생성은 여기서만
type Predictor struct {
	config PredictorConfig
	log    zerolog.Logger
}

// NewPredictor 새 예측기 생성
func NewPredictor(log zerolog.Logger) *Predictor {
	return &Predictor{
		config: DefaultPredictorConfig(),
		log:    log.With().Str("component", "forecast.predictor").Logger(),
	}
}

// NewPredictorWithConfig 커스텀 설정으로 예측기 생성
func NewPredictorWithConfig(config PredictorConfig, log zerolog.Logger) *Predictor {
	return &Predictor{
		config: config,
		log:    log.With().Str("component", "forecast.predictor").Logger(),
	}
}

// Forecast produces one ForecastPoint per day for horizonDays days after the
// last observed date. Returns an empty slice when the series has fewer than
// MinHistoryDays points.
func (p *Predictor) Forecast(ctx context.Context, series []contracts.DemandPoint, horizonDays int) ([]contracts.ForecastPoint, error) {
	if horizonDays <= 0 || len(series) < p.config.MinHistoryDays {
		return nil, nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, pt := range series {
		xs[i] = float64(i)
		ys[i] = float64(pt.Quantity)
	}

	// Least-squares trend over the observation index
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	confidence := p.fitConfidence(xs, ys, alpha, beta)
	factors := weekdayFactors(series)

	lastDate := series[len(series)-1].Date
	points := make([]contracts.ForecastPoint, 0, horizonDays)

	for d := 1; d <= horizonDays; d++ {
		date := lastDate.AddDate(0, 0, d)

		base := alpha + beta*float64(len(series)-1+d)
		predicted := base * factors[date.Weekday()]
		if predicted < 0 {
			predicted = 0
		}

		// Confidence fades the further out the horizon goes
		decay := 1 - p.config.HorizonDecay*float64(d-1)/float64(horizonDays)

		points = append(points, contracts.ForecastPoint{
			Date:              date,
			PredictedQuantity: predicted,
			Confidence:        clamp(confidence*decay, 0, 1),
		})
	}

	p.log.Debug().
		Int("history_days", len(series)).
		Int("horizon_days", horizonDays).
		Float64("trend_slope", beta).
		Float64("confidence", confidence).
		Msg("forecast generated")

	return points, nil
}

// fitConfidence derives a confidence score from the regression fit quality.
func (p *Predictor) fitConfidence(xs, ys []float64, alpha, beta float64) float64 {
	mean := stat.Mean(ys, nil)

	var ssRes, ssTot float64
	for i := range xs {
		fitted := alpha + beta*xs[i]
		ssRes += (ys[i] - fitted) * (ys[i] - fitted)
		ssTot += (ys[i] - mean) * (ys[i] - mean)
	}

	// A perfectly flat series fits its own mean exactly
	if ssTot == 0 {
		if ssRes == 0 {
			return p.config.MaxConfidence
		}
		return p.config.MinConfidence
	}

	r2 := 1 - ssRes/ssTot
	return clamp(r2, p.config.MinConfidence, p.config.MaxConfidence)
}

// weekdayFactors computes the per-weekday demand multiplier relative to the
// overall daily mean. Weekdays with no observations get factor 1.
func weekdayFactors(series []contracts.DemandPoint) [7]float64 {
	var sums [7]float64
	var counts [7]int
	var total float64

	for _, pt := range series {
		wd := pt.Date.Weekday()
		sums[wd] += float64(pt.Quantity)
		counts[wd]++
		total += float64(pt.Quantity)
	}

	overallMean := total / float64(len(series))

	var factors [7]float64
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		factors[wd] = 1
		if counts[wd] > 0 && overallMean > 0 {
			factors[wd] = (sums[wd] / float64(counts[wd])) / overallMean
		}
	}
	return factors
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
