// Package notify formats evaluation outcomes and delivers them to a
// messaging channel.
package notify

import (
	"context"

	"github.com/voxhire/interview-agent/internal/domain"
)

// Payload is the derived, never persisted view of an evaluation outcome that
// every sink renders. Score and Recommendation are the authoritative persisted
// values, which may differ from what the strategy self-reported.
type Payload struct {
	CallID         string
	CandidatePhone string
	Score          float64
	Recommendation domain.Recommendation
	Result         *domain.EvaluationResult
	TranscriptURL  string
}

// Notifier delivers interview outcomes to a channel. Delivery failures are
// the caller's to isolate; they must never affect committed state.
type Notifier interface {
	// SendResult delivers the formatted evaluation and returns the channel
	// message timestamp.
	SendResult(ctx context.Context, payload *Payload) (string, error)

	// SendError delivers a degraded plain-text error notification.
	SendError(ctx context.Context, message, callID string) error
}
