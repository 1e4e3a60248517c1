package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/voxhire/interview-agent/internal/pipeline"
	"github.com/voxhire/interview-agent/internal/store"
)

// StartInterviewRequest is the payload for POST /start-interview.
type StartInterviewRequest struct {
	CandidatePhone string `json:"candidate_phone"`
	Position       string `json:"position"`
}

// WebhookPayload is the event envelope delivered by the voice platform.
type WebhookPayload struct {
	Type string `json:"type"`
	Call struct {
		ID string `json:"id"`
	} `json:"call"`
}

// RegisterRoutes registers the interview routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/start-interview", h.StartInterview)
	r.Post("/webhook/vapi", h.VapiWebhook)
	r.Post("/demo/complete-interview", h.DemoCompleteInterview)
	r.Get("/interviews", h.ListInterviews)
	r.Get("/interviews/{callID}/transcript", h.GetTranscript)
	r.Get("/status", h.Status)
}

// StartInterview provisions the assistant, places the outbound call and
// records the session.
func (h *Handler) StartInterview(w http.ResponseWriter, r *http.Request) {
	var req StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.CandidatePhone) == "" {
		Error(w, http.StatusBadRequest, "candidate_phone is required")
		return
	}

	ctx := r.Context()

	assistant, err := h.voice.CreateAssistant(ctx)
	if err != nil {
		slog.Error("Failed to create assistant", "error", err)
		Error(w, http.StatusBadGateway, "failed to create assistant")
		return
	}

	call, err := h.voice.InitiateCall(ctx, req.CandidatePhone, assistant.ID)
	if err != nil {
		slog.Error("Failed to initiate call", "error", err, "phone", req.CandidatePhone)
		Error(w, http.StatusBadGateway, "failed to initiate call")
		return
	}

	if _, err := h.repo.FindOrCreate(ctx, call.ID, req.CandidatePhone, req.Position); err != nil {
		slog.Error("Failed to create session", "error", err, "call_id", call.ID)
		Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	if err := h.repo.MarkInProgress(ctx, call.ID); err != nil {
		slog.Error("Failed to mark session in progress", "error", err, "call_id", call.ID)
		Error(w, http.StatusInternalServerError, "failed to update session")
		return
	}

	slog.Info("Interview started", "call_id", call.ID, "phone", req.CandidatePhone)

	JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"call_id": call.ID,
		"message": fmt.Sprintf("Interview started for %s", req.CandidatePhone),
	})
}

// VapiWebhook receives voice platform events. Completion work is scheduled on
// the worker pool so the acknowledgement never blocks on external calls; the
// response is sent regardless of what the pipeline later does.
func (h *Handler) VapiWebhook(w http.ResponseWriter, r *http.Request) {
	var payload WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Type == "call-ended" {
		if payload.Call.ID == "" {
			Error(w, http.StatusBadRequest, "call.id is required")
			return
		}
		h.schedule(payload.Call.ID)
	}

	JSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// DemoCompleteInterview triggers the completion pipeline manually. Demo mode
// only.
func (h *Handler) DemoCompleteInterview(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.IsDemo() {
		Error(w, http.StatusForbidden, "only available in demo mode")
		return
	}

	callID := r.URL.Query().Get("call_id")
	if callID == "" {
		Error(w, http.StatusBadRequest, "call_id is required")
		return
	}

	h.schedule(callID)

	JSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Interview %s wird verarbeitet", callID),
	})
}

// schedule submits a completion run, logging rejected submissions. Duplicate
// deliveries are expected; the store's status guard is the safety net for
// anything that slips past the pool.
func (h *Handler) schedule(callID string) {
	switch err := h.pool.Submit(callID); {
	case err == nil:
		slog.Info("Completion run scheduled", "call_id", callID)
	case errors.Is(err, pipeline.ErrInFlight):
		slog.Info("Completion run already in flight, ignoring", "call_id", callID)
	case errors.Is(err, pipeline.ErrQueueFull):
		slog.Error("Completion queue full, dropping task", "call_id", callID)
	}
}

// ListInterviews returns a summary projection of all sessions.
func (h *Handler) ListInterviews(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.repo.ListSessions(r.Context())
	if err != nil {
		slog.Error("Failed to list sessions", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list interviews")
		return
	}

	summaries := make([]map[string]interface{}, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, map[string]interface{}{
			"id":              s.ID,
			"call_id":         s.CallID,
			"candidate_phone": s.CandidatePhone,
			"position":        s.Position,
			"status":          s.Status,
			"score":           s.Score,
			"recommendation":  s.Recommendation,
			"created_at":      s.CreatedAt,
			"completed_at":    s.CompletedAt,
		})
	}

	JSON(w, http.StatusOK, summaries)
}

// GetTranscript returns transcript and recording for a call.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callID")

	session, err := h.repo.GetByCallID(r.Context(), callID)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "interview not found")
		return
	}
	if err != nil {
		slog.Error("Failed to load session", "error", err, "call_id", callID)
		Error(w, http.StatusInternalServerError, "failed to load interview")
		return
	}
	if session.Transcript == "" {
		Error(w, http.StatusNotFound, "transcript not available")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"call_id":         session.CallID,
		"candidate_phone": session.CandidatePhone,
		"transcript":      session.Transcript,
		"recording_url":   session.RecordingURL,
		"completed_at":    session.CompletedAt,
	})
}

// Status reports operating mode and backing store.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"mode":     string(h.cfg.Mode),
		"database": "sqlite",
		"version":  Version,
	})
}
