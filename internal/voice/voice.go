// Package voice talks to the voice-call platform that conducts interviews.
package voice

import "context"

// Assistant is a remote voice agent configured to run interviews.
type Assistant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// Call identifies one outbound interview call.
type Call struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// CallDetails carries the outcome of a finished call.
type CallDetails struct {
	ID           string `json:"id"`
	Status       string `json:"status,omitempty"`
	Duration     int    `json:"duration,omitempty"`
	Transcript   string `json:"transcript"`
	RecordingURL string `json:"recordingUrl,omitempty"`
}

// Client is the voice-call platform contract consumed by the service.
type Client interface {
	// CreateAssistant provisions (or reuses) the interview assistant.
	CreateAssistant(ctx context.Context) (*Assistant, error)

	// InitiateCall places an outbound call to the candidate.
	InitiateCall(ctx context.Context, phoneNumber, assistantID string) (*Call, error)

	// GetCallDetails fetches transcript and recording for a finished call.
	GetCallDetails(ctx context.Context, callID string) (*CallDetails, error)
}
