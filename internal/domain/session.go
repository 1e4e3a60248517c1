package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the lifecycle state of an interview session.
//
// Transitions are monotonic: pending -> in_progress -> completed or failed.
// A session never moves backward and never reaches completed without a prior
// in_progress (the store enforces this with status-guarded updates).
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// InterviewSession is the persisted record for one interview attempt.
// The call ID is the external correlation key and is unique across sessions.
// Evaluation fields are populated if and only if the status is completed.
type InterviewSession struct {
	ID             int64
	CallID         string
	CandidatePhone string
	CandidateName  string
	Position       string
	Status         Status
	CallDuration   int // seconds

	Transcript   string
	RecordingURL string

	Score          *float64
	EvaluationJSON *string
	Recommendation Recommendation
	NextSteps      string
	FailureReason  string

	HRNotified     bool
	SlackMessageTS string

	CreatedAt     time.Time
	CallStartedAt *time.Time
	CompletedAt   *time.Time
}

// SetEvaluation serializes the evaluation result into the session.
func (s *InterviewSession) SetEvaluation(result *EvaluationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}
	encoded := string(data)
	s.EvaluationJSON = &encoded
	return nil
}

// Evaluation deserializes the stored evaluation result, or returns nil if
// the session has none.
func (s *InterviewSession) Evaluation() (*EvaluationResult, error) {
	if s.EvaluationJSON == nil {
		return nil, nil
	}
	var result EvaluationResult
	if err := json.Unmarshal([]byte(*s.EvaluationJSON), &result); err != nil {
		return nil, fmt.Errorf("unmarshal evaluation: %w", err)
	}
	return &result, nil
}
