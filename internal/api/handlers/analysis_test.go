package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/compass/backend/internal/advisors"
	"github.com/wonny/compass/backend/internal/brain"
	"github.com/wonny/compass/backend/internal/contracts"
	"github.com/wonny/compass/backend/internal/insights"
	"github.com/wonny/compass/backend/pkg/config"
	"github.com/wonny/compass/backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

type fakeProductRepo struct{ records []contracts.ProductSalesRecord }

func (f *fakeProductRepo) GetSalesRecords(context.Context) ([]contracts.ProductSalesRecord, error) {
	return f.records, nil
}

type fakeOrderRepo struct{}

func (fakeOrderRepo) GetOrders(context.Context, time.Time, time.Time) ([]contracts.Order, error) {
	return nil, nil
}

type fakeCampaignRepo struct{ campaigns []contracts.CampaignMetrics }

func (f *fakeCampaignRepo) GetCampaignMetrics(context.Context) ([]contracts.CampaignMetrics, error) {
	return f.campaigns, nil
}

type fakeMetricsRepo struct{}

func (fakeMetricsRepo) GetDailySales(context.Context, int) ([]contracts.DailySales, error) {
	return nil, nil
}

func (fakeMetricsRepo) GetProductPerformance(context.Context) ([]contracts.ProductPerformance, error) {
	return nil, nil
}

func (fakeMetricsRepo) GetCustomerValues(context.Context) ([]contracts.CustomerValue, error) {
	return nil, nil
}

type stubForecaster struct{}

func (stubForecaster) Forecast(_ context.Context, series []contracts.DemandPoint, horizonDays int) ([]contracts.ForecastPoint, error) {
	if len(series) == 0 {
		return nil, nil
	}
	last := series[len(series)-1].Date
	points := make([]contracts.ForecastPoint, horizonDays)
	for i := range points {
		points[i] = contracts.ForecastPoint{Date: last.AddDate(0, 0, i+1), PredictedQuantity: 10, Confidence: 0.9}
	}
	return points, nil
}

type stubDetector struct{}

func (stubDetector) DetectAnomalies([]float64, float64) []contracts.AnomalyPoint { return nil }

func newTestHandler() *AnalysisHandler {
	log := testLogger()
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	history := make([]contracts.SalesPoint, 10)
	for i := range history {
		history[i] = contracts.SalesPoint{Date: end.AddDate(0, 0, i-9), QuantitySold: 10, PriceAtSale: 20}
	}

	orch := brain.NewOrchestrator(
		advisors.NewRestockAdvisor(stubForecaster{}, log),
		advisors.NewPricingAdvisor(log),
		advisors.NewMarketingAdvisor(log),
		advisors.NewCrossSellAdvisor(log),
		insights.NewAggregator(log),
		stubDetector{},
		&fakeProductRepo{records: []contracts.ProductSalesRecord{
			{SKU: "SKU-1", Name: "Widget", CurrentStock: 50, Price: 20, History: history},
		}},
		fakeOrderRepo{},
		&fakeCampaignRepo{},
		fakeMetricsRepo{},
		nil,
		log,
	)

	return NewAnalysisHandler(orch, nil, log)
}

func TestAnalysisHandler_FeedsBeforeFirstRun(t *testing.T) {
	h := newTestHandler()

	endpoints := []http.HandlerFunc{h.GetReport, h.GetRestock, h.GetPricing, h.GetMarketing, h.GetCrossSell, h.GetInsights}
	for _, endpoint := range endpoints {
		rec := httptest.NewRecorder()
		endpoint(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
}

func TestAnalysisHandler_AnalyzeThenFetch(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.Analyze(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report contracts.AnalysisReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Len(t, report.Restock, 1)
	assert.Equal(t, "restock-SKU-1", report.Restock[0].ID)

	rec = httptest.NewRecorder()
	h.GetRestock(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations/restock", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "restock-SKU-1"))

	rec = httptest.NewRecorder()
	h.GetReport(rec, httptest.NewRequest(http.MethodGet, "/api/report", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAssistantHandler_Unconfigured(t *testing.T) {
	h := NewAssistantHandler(nil, newTestHandler(), testLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/assistant", strings.NewReader(`{"question":"hi"}`))
	h.Ask(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
