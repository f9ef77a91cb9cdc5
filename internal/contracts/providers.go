package contracts

import (
	"context"
	"fmt"
	"time"
)

// DemandPoint is one observed (date, quantity) pair handed to the
// ForecastProvider. Points must be in chronological order.
type DemandPoint struct {
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
}

// ForecastPoint 예측 결과 한 지점 (하루)
type ForecastPoint struct {
	Date              time.Time `json:"date"`
	PredictedQuantity float64   `json:"predicted_quantity"` // >= 0
	Confidence        float64   `json:"confidence"`         // 0~1
}

// AnomalyPoint flags one statistically unusual value in a numeric series.
// Index refers positionally into the series the detector was given.
type AnomalyPoint struct {
	Index    int     `json:"index"`
	Value    float64 `json:"value"`
	Severity float64 `json:"severity"` // deviation magnitude, >= 0
}

// ForecastProvider produces per-day demand forecasts from a sales history.
// Implementations must return points in chronological order, one per day up
// to horizonDays, and an empty slice when the series is insufficient.
// ⭐ SSOT: 수요 예측은 이 인터페이스 뒤에서만
type ForecastProvider interface {
	Forecast(ctx context.Context, series []DemandPoint, horizonDays int) ([]ForecastPoint, error)
}

// AnomalyDetector flags unusual points in a numeric series. Sensitivity is a
// deviation multiplier chosen by the caller (e.g. 2 standard deviations).
type AnomalyDetector interface {
	DetectAnomalies(series []float64, sensitivity float64) []AnomalyPoint
}

// ValidateForecastPoints rejects provider output that violates the contract.
// Advisors call this before trusting a forecast; a violation is a collaborator
// bug and is surfaced as an error rather than absorbed.
func ValidateForecastPoints(points []ForecastPoint) error {
	for i, p := range points {
		if p.PredictedQuantity < 0 {
			return fmt.Errorf("forecast point %d: negative predicted quantity %f", i, p.PredictedQuantity)
		}
		if p.Confidence < 0 || p.Confidence > 1 {
			return fmt.Errorf("forecast point %d: confidence %f out of [0,1]", i, p.Confidence)
		}
		if i > 0 && p.Date.Before(points[i-1].Date) {
			return fmt.Errorf("forecast point %d: dates not chronological", i)
		}
	}
	return nil
}

// ValidateAnomalyPoints rejects detector output whose indices do not refer
// into a series of the given length.
func ValidateAnomalyPoints(points []AnomalyPoint, seriesLen int) error {
	for i, p := range points {
		if p.Index < 0 || p.Index >= seriesLen {
			return fmt.Errorf("anomaly point %d: index %d out of range [0,%d)", i, p.Index, seriesLen)
		}
		if p.Severity < 0 {
			return fmt.Errorf("anomaly point %d: negative severity %f", i, p.Severity)
		}
	}
	return nil
}
