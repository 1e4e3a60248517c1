// Package evaluation turns interview transcripts into structured evaluations.
package evaluation

import (
	"context"

	"github.com/voxhire/interview-agent/internal/domain"
)

// Evaluator produces a structured evaluation for a transcript.
//
// Implementations never fail: every path, including upstream outages and
// unparseable model output, degrades into a well-formed EvaluationResult with
// an overall score and a recommendation set.
type Evaluator interface {
	Evaluate(ctx context.Context, transcript string) *domain.EvaluationResult
}
