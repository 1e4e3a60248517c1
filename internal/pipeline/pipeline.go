// Package pipeline orchestrates the processing of completed interview calls.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/voxhire/interview-agent/internal/evaluation"
	"github.com/voxhire/interview-agent/internal/notify"
	"github.com/voxhire/interview-agent/internal/store"
	"github.com/voxhire/interview-agent/internal/voice"
)

// TranscriptLinkFunc builds the externally reachable transcript URL for a
// call ID.
type TranscriptLinkFunc func(callID string) string

// Pipeline runs the completion flow for one call: fetch transcript, evaluate,
// recompute the authoritative score, apply the idempotent completion
// transition, and dispatch the notification. Every stage is fault-isolated;
// a failure degrades into an error notification and never corrupts state
// committed by an earlier stage.
type Pipeline struct {
	voice          voice.Client
	evaluator      evaluation.Evaluator
	repo           store.Repository
	notifier       notify.Notifier
	transcriptLink TranscriptLinkFunc
	runTimeout     time.Duration
}

// New creates a completion pipeline.
func New(
	voiceClient voice.Client,
	evaluator evaluation.Evaluator,
	repo store.Repository,
	notifier notify.Notifier,
	transcriptLink TranscriptLinkFunc,
	runTimeout time.Duration,
) *Pipeline {
	return &Pipeline{
		voice:          voiceClient,
		evaluator:      evaluator,
		repo:           repo,
		notifier:       notifier,
		transcriptLink: transcriptLink,
		runTimeout:     runTimeout,
	}
}

// ProcessCompletedCall handles one call-ended signal. It never panics out and
// never returns an error: all failures are converted into degraded error
// notifications so the hosting process is unaffected.
func (p *Pipeline) ProcessCompletedCall(ctx context.Context, callID string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Completion run panicked", "call_id", callID, "panic", r)
			recoverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			p.notifyError(recoverCtx, fmt.Sprintf("Processing failed: %v", r), callID)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.runTimeout)
	defer cancel()

	details, err := p.voice.GetCallDetails(ctx, callID)
	if err != nil {
		slog.Error("Transcript fetch failed", "call_id", callID, "error", err)
		p.fail(ctx, callID, fmt.Sprintf("Transcript fetch failed: %v", err))
		return
	}
	if strings.TrimSpace(details.Transcript) == "" {
		slog.Warn("Call ended without transcript", "call_id", callID)
		p.fail(ctx, callID, "Kein Transkript verfuegbar")
		return
	}

	result := p.evaluator.Evaluate(ctx, details.Transcript)

	// The persisted score is always recomputed from the dimensions so a
	// strategy's internal rounding or bias never becomes the system of record.
	score := evaluation.OverallScore(result.Dimensions)
	recommendation := result.Overall.Recommendation
	if !recommendation.Valid() {
		recommendation = evaluation.RecommendationForScore(score)
	}

	completion := &store.Completion{
		CallID:         callID,
		Transcript:     details.Transcript,
		RecordingURL:   details.RecordingURL,
		CallDuration:   details.Duration,
		Score:          score,
		Evaluation:     result,
		Recommendation: recommendation,
		NextSteps:      result.NextSteps,
		CompletedAt:    time.Now().UTC(),
	}

	if err := p.repo.ApplyCompletion(ctx, completion); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyFinalized):
			// A concurrent or redelivered run already finished this call.
			// Skipping here is what prevents double notifications.
			slog.Warn("Completion already applied, skipping notification", "call_id", callID, "error", err)
		case errors.Is(err, store.ErrNotFound):
			slog.Error("No session exists for completed call", "call_id", callID)
			p.notifyError(ctx, "No interview session found for call", callID)
		default:
			slog.Error("Applying completion failed", "call_id", callID, "error", err)
			p.notifyError(ctx, fmt.Sprintf("Persisting evaluation failed: %v", err), callID)
		}
		return
	}

	session, err := p.repo.GetByCallID(ctx, callID)
	if err != nil {
		slog.Error("Loading session after completion failed", "call_id", callID, "error", err)
		p.notifyError(ctx, fmt.Sprintf("Loading session failed: %v", err), callID)
		return
	}

	payload := &notify.Payload{
		CallID:         callID,
		CandidatePhone: session.CandidatePhone,
		Score:          score,
		Recommendation: recommendation,
		Result:         result,
		TranscriptURL:  p.transcriptLink(callID),
	}

	ts, err := p.notifier.SendResult(ctx, payload)
	if err != nil {
		// The completion is committed; delivery failure must not revert or
		// re-apply it.
		slog.Error("Notification dispatch failed", "call_id", callID, "error", err)
		p.notifyError(ctx, fmt.Sprintf("Notification dispatch failed: %v", err), callID)
		return
	}

	if err := p.repo.RecordNotified(ctx, callID, ts); err != nil {
		slog.Warn("Recording notification timestamp failed", "call_id", callID, "error", err)
	}

	slog.Info("Completion run finished",
		"call_id", callID,
		"score", score,
		"recommendation", recommendation)
}

// fail sends the degraded error notification and moves the session to the
// terminal failed state. Sessions already finalized keep their status.
func (p *Pipeline) fail(ctx context.Context, callID, reason string) {
	p.notifyError(ctx, reason, callID)

	err := p.repo.MarkFailed(ctx, callID, reason)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrAlreadyFinalized):
		slog.Warn("Session already finalized, not marking failed", "call_id", callID, "error", err)
	case errors.Is(err, store.ErrNotFound):
		slog.Warn("No session to mark failed", "call_id", callID)
	default:
		slog.Error("Marking session failed errored", "call_id", callID, "error", err)
	}
}

func (p *Pipeline) notifyError(ctx context.Context, message, callID string) {
	if err := p.notifier.SendError(ctx, message, callID); err != nil {
		slog.Error("Error notification failed", "call_id", callID, "error", err)
	}
}
