package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// LogNotifier renders the canonical payload to the log instead of a channel.
// It backs the demo mode and keeps the message content identical to real
// delivery by consuming the same builder.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SendResult logs the formatted evaluation and returns a synthetic message
// timestamp.
func (n *LogNotifier) SendResult(_ context.Context, payload *Payload) (string, error) {
	slog.Info("Interview result notification",
		"header", payload.headerText(),
		"candidate", payload.CandidatePhone,
		"score", fmt.Sprintf("%.2f/10", payload.Score),
		"call_id", payload.CallID,
		"recommendation", payload.Recommendation,
		"reason", payload.reasonText(),
		"dimensions", payload.dimensionLines(),
		"transcript_url", payload.TranscriptURL,
		"blocks", len(payload.Blocks()),
	)
	return fmt.Sprintf("demo_message_%d", time.Now().UnixNano()), nil
}

// SendError logs the degraded error notification.
func (n *LogNotifier) SendError(_ context.Context, message, callID string) error {
	slog.Warn("Interview error notification", "text", errorText(message, callID))
	return nil
}
