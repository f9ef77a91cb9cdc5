package forecast

import (
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/compass/backend/internal/contracts"
)

// Detector implements contracts.AnomalyDetector with z-score detection over
// the raw series. Sensitivity is the deviation multiplier supplied by the
// caller (2 = two standard deviations).
// ⭐ SSOT: 이상치 감지는 여기서만
type Detector struct {
	log zerolog.Logger
}

// NewDetector 새 감지기 생성
func NewDetector(log zerolog.Logger) *Detector {
	return &Detector{
		log: log.With().Str("component", "forecast.detector").Logger(),
	}
}

// DetectAnomalies returns every point whose z-score magnitude reaches the
// sensitivity threshold. Severity is the z-score magnitude itself. A series
// too short or with zero variance yields no anomalies.
func (d *Detector) DetectAnomalies(series []float64, sensitivity float64) []contracts.AnomalyPoint {
	if len(series) < 3 || sensitivity <= 0 {
		return nil
	}

	mean := stat.Mean(series, nil)
	stddev := stat.StdDev(series, nil)
	if stddev == 0 {
		return nil
	}

	var points []contracts.AnomalyPoint
	for i, v := range series {
		z := (v - mean) / stddev
		if z < 0 {
			z = -z
		}
		if z >= sensitivity {
			points = append(points, contracts.AnomalyPoint{
				Index:    i,
				Value:    v,
				Severity: z,
			})
		}
	}

	d.log.Debug().
		Int("series_len", len(series)).
		Float64("sensitivity", sensitivity).
		Int("anomalies", len(points)).
		Msg("anomaly detection completed")

	return points
}
