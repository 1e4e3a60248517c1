package evaluation

import (
	"math"

	"github.com/voxhire/interview-agent/internal/domain"
)

// Dimension weights for the overall score. Domain competence carries the
// most weight, problem solving the least.
const (
	weightCommunication    = 0.25
	weightDomainCompetence = 0.30
	weightMotivation       = 0.20
	weightCulturalFit      = 0.15
	weightProblemSolving   = 0.10
)

// Recommendation thresholds on the overall score. Boundaries are inclusive:
// exactly 7.00 invites, exactly 4.00 rejects.
const (
	inviteThreshold = 7.0
	rejectThreshold = 4.0
)

// OverallScore computes the authoritative weighted score from the per-dimension
// scores, rounded to 2 decimals. This value is what gets persisted, independent
// of whatever overall score a strategy self-reported. A missing dimension
// contributes 0.
func OverallScore(d domain.Dimensions) float64 {
	sum := d.Communication.Score*weightCommunication +
		d.DomainCompetence.Score*weightDomainCompetence +
		d.Motivation.Score*weightMotivation +
		d.CulturalFit.Score*weightCulturalFit +
		d.ProblemSolving.Score*weightProblemSolving
	return math.Round(sum*100) / 100
}

// RecommendationForScore maps an overall score to a recommendation category.
func RecommendationForScore(score float64) domain.Recommendation {
	switch {
	case score >= inviteThreshold:
		return domain.RecommendationInvite
	case score <= rejectThreshold:
		return domain.RecommendationReject
	default:
		return domain.RecommendationUndecided
	}
}
