package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wonny/compass/backend/internal/assistant"
	"github.com/wonny/compass/backend/pkg/logger"
)

// AssistantHandler serves the dashboard AI assistant.
// ⭐ SSOT: 어시스턴트 API 핸들러는 이 구조체에서만
type AssistantHandler struct {
	assistant *assistant.Assistant // nil when no API key is configured
	analysis  *AnalysisHandler
	logger    *logger.Logger
}

// NewAssistantHandler creates a new assistant handler. The assistant may be
// nil; the endpoint then reports itself unavailable.
func NewAssistantHandler(a *assistant.Assistant, analysis *AnalysisHandler, log *logger.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistant: a,
		analysis:  analysis,
		logger:    log,
	}
}

// Ask answers a merchant question about the latest report
// POST /api/assistant {"question": "..."}
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		respondError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	var body struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Question) == "" {
		respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := h.assistant.Ask(r.Context(), body.Question, h.analysis.Latest())
	if err != nil {
		h.logger.WithError(err).Error("Assistant request failed")
		respondError(w, http.StatusInternalServerError, "failed to generate answer")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"answer": answer,
	})
}
