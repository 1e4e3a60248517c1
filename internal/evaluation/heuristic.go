package evaluation

import (
	"context"
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/voxhire/interview-agent/internal/domain"
)

// Keyword sets for the heuristic strategy. The interviews are conducted in
// German, so the markers are German too.
var (
	positiveKeywords = []string{"erfahrung", "projekt", "team", "motiviert", "lernen", "technologie", "entwicklung"}
	negativeKeywords = []string{"äh", "nicht", "schwierig", "weiß nicht", "keine ahnung"}
)

// HeuristicEvaluator scores transcripts by keyword occurrence. It needs no
// external services and backs the demo mode.
type HeuristicEvaluator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewHeuristicEvaluator creates a heuristic evaluator with a random jitter
// source.
func NewHeuristicEvaluator() *HeuristicEvaluator {
	return NewHeuristicEvaluatorWithRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewHeuristicEvaluatorWithRand creates a heuristic evaluator with the given
// jitter source. Tests use this for determinism.
func NewHeuristicEvaluatorWithRand(rng *rand.Rand) *HeuristicEvaluator {
	return &HeuristicEvaluator{rng: rng}
}

// Evaluate derives five dimension scores from a keyword base score plus
// independent jitter, each clamped to [1,10].
func (h *HeuristicEvaluator) Evaluate(_ context.Context, transcript string) *domain.EvaluationResult {
	base := float64(baseScore(transcript))

	dims := domain.Dimensions{
		Communication:    domain.DimensionScore{Score: h.jittered(base, 1), Comment: "Ausdrucksfähigkeit und Verständlichkeit"},
		DomainCompetence: domain.DimensionScore{Score: h.jittered(base, 1.5), Comment: "Technisches Wissen und Erfahrung"},
		Motivation:       domain.DimensionScore{Score: h.jittered(base, 1), Comment: "Engagement und Interesse"},
		CulturalFit:      domain.DimensionScore{Score: h.jittered(base, 1), Comment: "Passung zur Unternehmenskultur"},
		ProblemSolving:   domain.DimensionScore{Score: h.jittered(base, 1), Comment: "Analytisches Denken"},
	}

	overall := round1((dims.Communication.Score + dims.DomainCompetence.Score +
		dims.Motivation.Score + dims.CulturalFit.Score + dims.ProblemSolving.Score) / 5)
	recommendation := RecommendationForScore(overall)

	result := &domain.EvaluationResult{
		Overall:    domain.OverallRating{Score: overall, Recommendation: recommendation},
		Dimensions: dims,
		NextSteps:  nextStepsFor(recommendation),
	}

	if overall >= 6 {
		result.Summary = "Kandidat zeigt gute Eignung für die Position."
		result.Strengths = []string{"Kommunikationsfähigkeit", "Technische Grundlagen"}
		result.Weaknesses = []string{"Kleinere Verbesserungen möglich"}
	} else {
		result.Summary = "Kandidat zeigt moderate Eignung für die Position."
		result.Strengths = []string{"Grundlegende Kenntnisse"}
		result.Weaknesses = []string{"Mehr Praxiserfahrung nötig"}
	}

	return result
}

// baseScore counts case-insensitive keyword occurrences and clamps
// 5 + positives - negatives to [1,10].
func baseScore(transcript string) int {
	lowered := strings.ToLower(transcript)

	score := 5
	for _, keyword := range positiveKeywords {
		if strings.Contains(lowered, keyword) {
			score++
		}
	}
	for _, keyword := range negativeKeywords {
		if strings.Contains(lowered, keyword) {
			score--
		}
	}

	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// jittered adds uniform jitter in [-scale, scale] to the base score and
// clamps the result to [1,10], rounded to 1 decimal.
func (h *HeuristicEvaluator) jittered(base, scale float64) float64 {
	h.mu.Lock()
	jitter := (h.rng.Float64()*2 - 1) * scale
	h.mu.Unlock()

	return round1(clampScore(base + jitter))
}

func clampScore(score float64) float64 {
	return math.Max(1, math.Min(10, score))
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func nextStepsFor(recommendation domain.Recommendation) string {
	switch recommendation {
	case domain.RecommendationInvite:
		return "Einladung zur nächsten Runde"
	case domain.RecommendationUndecided:
		return "Weitere Überlegung nötig"
	default:
		return "Absage"
	}
}
