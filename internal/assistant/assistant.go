package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/wonny/compass/backend/internal/contracts"
	"github.com/wonny/compass/backend/pkg/config"
	"github.com/wonny/compass/backend/pkg/logger"
)

// Assistant answers merchant questions about the latest analysis report
// using Gemini. It lives entirely outside the deterministic engine: the same
// report may yield different phrasings, never different recommendations.
// ⭐ SSOT: Gemini 호출은 이 패키지에서만
type Assistant struct {
	client *genai.Client
	model  string
	logger *logger.Logger
}

// New creates a new assistant. Fails when no API key is configured.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Assistant, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the assistant")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Assistant{
		client: client,
		model:  cfg.Gemini.Model,
		logger: log,
	}, nil
}

// Close releases the underlying client.
func (a *Assistant) Close() error {
	return a.client.Close()
}

// Ask answers one question grounded in the given report.
func (a *Assistant) Ask(ctx context.Context, question string, report *contracts.AnalysisReport) (string, error) {
	prompt, err := buildPrompt(question, report)
	if err != nil {
		return "", err
	}

	model := a.client.GenerativeModel(a.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	answer := extractText(resp)
	if answer == "" {
		return "", fmt.Errorf("empty response from model")
	}

	a.logger.WithFields(map[string]interface{}{
		"question_len": len(question),
		"answer_len":   len(answer),
	}).Debug("Assistant answered")

	return answer, nil
}

// buildPrompt embeds the report as JSON context so the model can only speak
// to recommendations that actually exist.
func buildPrompt(question string, report *contracts.AnalysisReport) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is required")
	}

	var context string
	if report != nil {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal report: %w", err)
		}
		context = string(data)
	} else {
		context = "(no analysis has been run yet)"
	}

	return fmt.Sprintf(`You are the analytics assistant for an e-commerce operations dashboard.
Answer the merchant's question using ONLY the analysis report below.
If the report does not cover the question, say so instead of guessing.
Keep the answer short and practical.

=== ANALYSIS REPORT (JSON) ===
%s
=== END REPORT ===

Merchant question: %s`, context, question), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
