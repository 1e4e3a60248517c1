package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/voxhire/interview-agent/internal/domain"
)

const evaluationPromptTemplate = `Analysiere das folgende Interview-Transkript und erstelle eine strukturierte Bewertung:

TRANSKRIPT:
%s

Erstelle eine Bewertung im folgenden JSON-Format:

{
    "overall": {
        "score": [1-10],
        "recommendation": "INVITE/REJECT/UNDECIDED"
    },
    "dimensions": {
        "communication": {"score": [1-10], "comment": "..."},
        "domain_competence": {"score": [1-10], "comment": "..."},
        "motivation": {"score": [1-10], "comment": "..."},
        "cultural_fit": {"score": [1-10], "comment": "..."},
        "problem_solving": {"score": [1-10], "comment": "..."}
    },
    "summary": "Kurze Zusammenfassung der wichtigsten Punkte",
    "strengths": ["Stärke 1", "Stärke 2"],
    "weaknesses": ["Schwäche 1", "Schwäche 2"],
    "next_steps": "Empfehlung für weiteres Vorgehen"
}

Bewerte objektiv und fair. Berücksichtige deutsche Arbeitskultur und -standards.
Antworte ausschließlich mit dem rohen JSON, ohne Markdown-Codeblöcke oder zusätzlichen Text.`

// textGenerator abstracts the structured-text generation call so tests can
// exercise the fallback chain without a live API.
type textGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeminiEvaluator evaluates transcripts through the Gemini API, trying a
// fixed ordered list of candidate models until one succeeds.
type GeminiEvaluator struct {
	gen    textGenerator
	models []string
}

// NewGeminiEvaluator creates a model-backed evaluator for the Gemini API.
func NewGeminiEvaluator(ctx context.Context, apiKey string, models []string) (*GeminiEvaluator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if len(models) == 0 {
		return nil, errors.New("at least one candidate model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiEvaluator{gen: &genaiGenerator{client: client}, models: models}, nil
}

// Evaluate runs the prompt through the candidate model chain. It never
// returns a malformed result: parse failures degrade to a neutral result
// carrying the raw response, total exhaustion degrades to an ERROR result
// carrying the aggregated failure message.
func (e *GeminiEvaluator) Evaluate(ctx context.Context, transcript string) *domain.EvaluationResult {
	prompt := fmt.Sprintf(evaluationPromptTemplate, transcript)

	raw, err := e.generateWithFallback(ctx, prompt)
	if err != nil {
		slog.Error("All evaluation models failed", "error", err)
		return &domain.EvaluationResult{
			Overall: domain.OverallRating{Score: 0, Recommendation: domain.RecommendationError},
			Summary: err.Error(),
			Error:   "evaluation failed",
		}
	}

	var result domain.EvaluationResult
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &result); err != nil {
		slog.Warn("Evaluation response was not valid JSON, using neutral fallback", "error", err)
		return &domain.EvaluationResult{
			Overall: domain.OverallRating{Score: 5, Recommendation: domain.RecommendationUndecided},
			Summary: raw,
			Error:   "response parsing failed",
		}
	}

	if !result.Overall.Recommendation.Valid() {
		result.Overall.Recommendation = RecommendationForScore(result.Overall.Score)
	}
	return &result
}

// generateWithFallback tries each candidate model in order, stopping at the
// first success. On total exhaustion it returns the per-model failures
// aggregated into one error.
func (e *GeminiEvaluator) generateWithFallback(ctx context.Context, prompt string) (string, error) {
	var failures []string
	for _, model := range e.models {
		text, err := e.gen.Generate(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		slog.Warn("Evaluation model failed, trying next candidate", "model", model, "error", err)
		failures = append(failures, fmt.Sprintf("%s: %v", model, err))
	}
	return "", fmt.Errorf("all %d candidate models failed: %s", len(e.models), strings.Join(failures, "; "))
}

// genaiGenerator is the production textGenerator backed by the Gemini API.
type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("model returned empty response")
	}
	return output, nil
}

// cleanJSONResponse strips markdown fences and surrounding noise that models
// sometimes wrap around the JSON body.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		content = content[start : end+1]
	}

	return strings.TrimSpace(content)
}
