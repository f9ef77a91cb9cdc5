package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateForecastPoints(t *testing.T) {
	day := func(n int) time.Time {
		return time.Date(2026, 8, n, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name    string
		points  []ForecastPoint
		wantErr string
	}{
		{
			name: "valid points pass",
			points: []ForecastPoint{
				{Date: day(1), PredictedQuantity: 10, Confidence: 0.9},
				{Date: day(2), PredictedQuantity: 0, Confidence: 0},
				{Date: day(3), PredictedQuantity: 3.5, Confidence: 1},
			},
		},
		{
			name: "empty slice passes",
		},
		{
			name: "negative predicted quantity",
			points: []ForecastPoint{
				{Date: day(1), PredictedQuantity: -1, Confidence: 0.5},
			},
			wantErr: "negative predicted quantity",
		},
		{
			name: "confidence above one",
			points: []ForecastPoint{
				{Date: day(1), PredictedQuantity: 5, Confidence: 1.7},
			},
			wantErr: "out of [0,1]",
		},
		{
			name: "confidence below zero",
			points: []ForecastPoint{
				{Date: day(1), PredictedQuantity: 5, Confidence: -0.1},
			},
			wantErr: "out of [0,1]",
		},
		{
			name: "dates out of order",
			points: []ForecastPoint{
				{Date: day(2), PredictedQuantity: 5, Confidence: 0.5},
				{Date: day(1), PredictedQuantity: 5, Confidence: 0.5},
			},
			wantErr: "not chronological",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateForecastPoints(tt.points)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAnomalyPoints(t *testing.T) {
	tests := []struct {
		name      string
		points    []AnomalyPoint
		seriesLen int
		wantErr   string
	}{
		{
			name:      "valid indices pass",
			points:    []AnomalyPoint{{Index: 0, Value: 100, Severity: 2.5}, {Index: 9, Value: 3, Severity: 3.1}},
			seriesLen: 10,
		},
		{
			name:      "index equals length",
			points:    []AnomalyPoint{{Index: 10, Value: 1, Severity: 1}},
			seriesLen: 10,
			wantErr:   "out of range",
		},
		{
			name:      "negative index",
			points:    []AnomalyPoint{{Index: -1, Value: 1, Severity: 1}},
			seriesLen: 10,
			wantErr:   "out of range",
		},
		{
			name:      "negative severity",
			points:    []AnomalyPoint{{Index: 2, Value: 1, Severity: -0.5}},
			seriesLen: 10,
			wantErr:   "negative severity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnomalyPoints(tt.points, tt.seriesLen)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
