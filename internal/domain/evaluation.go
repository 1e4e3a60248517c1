package domain

// Recommendation is the categorical outcome of an interview evaluation.
type Recommendation string

const (
	RecommendationInvite    Recommendation = "INVITE"
	RecommendationReject    Recommendation = "REJECT"
	RecommendationUndecided Recommendation = "UNDECIDED"
	RecommendationError     Recommendation = "ERROR"
)

// Valid reports whether r is one of the known recommendation categories.
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendationInvite, RecommendationReject, RecommendationUndecided, RecommendationError:
		return true
	}
	return false
}

// DimensionScore is one evaluation axis: a score in [1,10] plus a free-text
// comment.
type DimensionScore struct {
	Score   float64 `json:"score"`
	Comment string  `json:"comment,omitempty"`
}

// Dimensions holds the five fixed evaluation axes.
type Dimensions struct {
	Communication    DimensionScore `json:"communication"`
	DomainCompetence DimensionScore `json:"domain_competence"`
	Motivation       DimensionScore `json:"motivation"`
	CulturalFit      DimensionScore `json:"cultural_fit"`
	ProblemSolving   DimensionScore `json:"problem_solving"`
}

// NamedDimension pairs a dimension with its display label, preserving the
// canonical ordering for notification rendering.
type NamedDimension struct {
	Name  string
	Score DimensionScore
}

// List returns the dimensions in canonical order.
func (d Dimensions) List() []NamedDimension {
	return []NamedDimension{
		{Name: "Kommunikation", Score: d.Communication},
		{Name: "Fachkompetenz", Score: d.DomainCompetence},
		{Name: "Motivation", Score: d.Motivation},
		{Name: "Cultural Fit", Score: d.CulturalFit},
		{Name: "Problemloesung", Score: d.ProblemSolving},
	}
}

// OverallRating is the evaluation's own aggregate view. The persisted score
// is always recomputed from the dimensions; this value is what the strategy
// reported and is kept for traceability.
type OverallRating struct {
	Score          float64        `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
}

// EvaluationResult is the structured outcome of evaluating one transcript.
type EvaluationResult struct {
	Overall    OverallRating `json:"overall"`
	Dimensions Dimensions    `json:"dimensions"`
	Summary    string        `json:"summary,omitempty"`
	Strengths  []string      `json:"strengths,omitempty"`
	Weaknesses []string      `json:"weaknesses,omitempty"`
	NextSteps  string        `json:"next_steps,omitempty"`

	// Error marks degraded results (model response unparseable, or every
	// candidate model failed).
	Error string `json:"error,omitempty"`
}
