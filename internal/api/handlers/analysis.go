package handlers

import (
	"net/http"
	"sync"

	"github.com/wonny/compass/backend/internal/brain"
	"github.com/wonny/compass/backend/internal/contracts"
	"github.com/wonny/compass/backend/internal/stream"
	"github.com/wonny/compass/backend/pkg/logger"
)

// AnalysisHandler serves analysis runs and the resulting recommendation feeds.
// The latest report is kept in memory; GET endpoints never trigger a run.
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
type AnalysisHandler struct {
	orchestrator *brain.Orchestrator
	hub          *stream.Hub
	logger       *logger.Logger

	mu     sync.RWMutex
	latest *contracts.AnalysisReport
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(orchestrator *brain.Orchestrator, hub *stream.Hub, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		orchestrator: orchestrator,
		hub:          hub,
		logger:       log,
	}
}

// Analyze runs the full pipeline and returns the fresh report
// POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.orchestrator.Run(ctx, brain.DefaultRunConfig())
	if err != nil {
		h.logger.WithError(err).Error("Analysis run failed")
		respondError(w, http.StatusInternalServerError, "analysis run failed")
		return
	}

	h.mu.Lock()
	h.latest = result.Report
	h.mu.Unlock()

	if h.hub != nil {
		h.hub.Broadcast("report", result.Report)
	}

	respondJSON(w, http.StatusOK, result.Report)
}

// GetReport returns the latest full report
// GET /api/report
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report := h.snapshot()
	if report == nil {
		respondError(w, http.StatusNotFound, "no analysis has been run yet")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// GetRestock returns the latest restock recommendations
// GET /api/recommendations/restock
func (h *AnalysisHandler) GetRestock(w http.ResponseWriter, r *http.Request) {
	report := h.snapshot()
	if report == nil {
		respondError(w, http.StatusNotFound, "no analysis has been run yet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"generated_at":    report.GeneratedAt,
		"recommendations": report.Restock,
	})
}

// GetPricing returns the latest pricing recommendations
// GET /api/recommendations/pricing
func (h *AnalysisHandler) GetPricing(w http.ResponseWriter, r *http.Request) {
	report := h.snapshot()
	if report == nil {
		respondError(w, http.StatusNotFound, "no analysis has been run yet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"generated_at":    report.GeneratedAt,
		"recommendations": report.Pricing,
	})
}

// GetMarketing returns the latest marketing recommendations
// GET /api/recommendations/marketing
func (h *AnalysisHandler) GetMarketing(w http.ResponseWriter, r *http.Request) {
	report := h.snapshot()
	if report == nil {
		respondError(w, http.StatusNotFound, "no analysis has been run yet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"generated_at":    report.GeneratedAt,
		"recommendations": report.Marketing,
	})
}

// GetCrossSell returns the latest cross-sell recommendations
// GET /api/recommendations/cross-sell
func (h *AnalysisHandler) GetCrossSell(w http.ResponseWriter, r *http.Request) {
	report := h.snapshot()
	if report == nil {
		respondError(w, http.StatusNotFound, "no analysis has been run yet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"generated_at":    report.GeneratedAt,
		"recommendations": report.CrossSell,
	})
}

// GetInsights returns the latest insight feed
// GET /api/insights
func (h *AnalysisHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	report := h.snapshot()
	if report == nil {
		respondError(w, http.StatusNotFound, "no analysis has been run yet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"generated_at": report.GeneratedAt,
		"insights":     report.Insights,
	})
}

// Latest returns the cached report, nil before the first run.
func (h *AnalysisHandler) Latest() *contracts.AnalysisReport {
	return h.snapshot()
}

func (h *AnalysisHandler) snapshot() *contracts.AnalysisReport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}
