package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func sampleEvaluation() *EvaluationResult {
	return &EvaluationResult{
		Overall: OverallRating{Score: 7.4, Recommendation: RecommendationInvite},
		Dimensions: Dimensions{
			Communication:    DimensionScore{Score: 8.1, Comment: "klar und strukturiert"},
			DomainCompetence: DimensionScore{Score: 7.5, Comment: "solides Fachwissen"},
			Motivation:       DimensionScore{Score: 7.0, Comment: "engagiert"},
			CulturalFit:      DimensionScore{Score: 6.9, Comment: "teamorientiert"},
			ProblemSolving:   DimensionScore{Score: 7.2, Comment: "analytisch"},
		},
		Summary:    "Überzeugender Kandidat mit relevanter Erfahrung.",
		Strengths:  []string{"Kommunikation", "Fachwissen"},
		Weaknesses: []string{"Wenig Führungserfahrung"},
		NextSteps:  "Einladung zur nächsten Runde",
	}
}

func TestEvaluationResultRoundTrip(t *testing.T) {
	original := sampleEvaluation()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded EvaluationResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(original, &decoded) {
		t.Errorf("round trip mismatch:\noriginal: %+v\ndecoded:  %+v", original, &decoded)
	}
}

func TestSessionEvaluationRoundTrip(t *testing.T) {
	var session InterviewSession

	result, err := session.Evaluation()
	if err != nil {
		t.Fatalf("empty session: %v", err)
	}
	if result != nil {
		t.Fatalf("empty session returned evaluation %+v", result)
	}

	original := sampleEvaluation()
	if err := session.SetEvaluation(original); err != nil {
		t.Fatalf("set evaluation: %v", err)
	}

	decoded, err := session.Evaluation()
	if err != nil {
		t.Fatalf("get evaluation: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip mismatch:\noriginal: %+v\ndecoded:  %+v", original, decoded)
	}
}

func TestRecommendationValid(t *testing.T) {
	for _, r := range []Recommendation{RecommendationInvite, RecommendationReject, RecommendationUndecided, RecommendationError} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	for _, r := range []Recommendation{"", "MAYBE", "invite"} {
		if r.Valid() {
			t.Errorf("%q should be invalid", r)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() || StatusInProgress.Terminal() {
		t.Error("pending and in_progress are not terminal")
	}
	if !StatusCompleted.Terminal() || !StatusFailed.Terminal() {
		t.Error("completed and failed are terminal")
	}
}
