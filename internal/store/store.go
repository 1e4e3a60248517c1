// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/voxhire/interview-agent/internal/domain"
)

// ErrNotFound is returned when no session exists for a call ID.
var ErrNotFound = errors.New("session not found")

// ErrAlreadyFinalized is returned when a status-guarded transition finds the
// session already in a terminal state. Callers use it to avoid double-applying
// a completion or double-sending notifications.
var ErrAlreadyFinalized = errors.New("session already finalized")

// Completion carries every field of the atomic completion transition.
// Either all of it commits, or none of it does.
type Completion struct {
	CallID         string
	Transcript     string
	RecordingURL   string
	CallDuration   int
	Score          float64
	Evaluation     *domain.EvaluationResult
	Recommendation domain.Recommendation
	NextSteps      string
	CompletedAt    time.Time
}

// Repository defines the interface for persisting interview sessions.
// It is the only component permitted to mutate session records.
type Repository interface {
	// FindOrCreate looks up the session for a call ID, creating a pending
	// session if none exists. Idempotent.
	FindOrCreate(ctx context.Context, callID, candidatePhone, position string) (*domain.InterviewSession, error)

	// MarkInProgress transitions a pending session to in_progress and stamps
	// call_started_at. A session already in_progress is a no-op.
	MarkInProgress(ctx context.Context, callID string) error

	// ApplyCompletion atomically applies the completion transition guarded by
	// the current status: only pending or in_progress sessions may complete.
	// Returns ErrAlreadyFinalized if the session is already terminal and
	// ErrNotFound if no session exists for the call ID.
	ApplyCompletion(ctx context.Context, completion *Completion) error

	// MarkFailed transitions a non-terminal session to failed, recording the
	// reason. Same guard semantics as ApplyCompletion.
	MarkFailed(ctx context.Context, callID, reason string) error

	// RecordNotified stamps the Slack message timestamp after a successful
	// dispatch. Best effort; not part of the completion transaction.
	RecordNotified(ctx context.Context, callID, messageTS string) error

	// GetByCallID retrieves a session by its call ID.
	// Returns ErrNotFound if absent.
	GetByCallID(ctx context.Context, callID string) (*domain.InterviewSession, error)

	// ListSessions retrieves all sessions, newest first.
	ListSessions(ctx context.Context) ([]*domain.InterviewSession, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
