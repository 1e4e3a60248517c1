// Package api provides HTTP handlers for the interview agent API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/voxhire/interview-agent/internal/config"
	"github.com/voxhire/interview-agent/internal/pipeline"
	"github.com/voxhire/interview-agent/internal/store"
	"github.com/voxhire/interview-agent/internal/voice"
)

// Version is reported by the status endpoint.
const Version = "1.0.0"

// Handler provides common handler dependencies.
type Handler struct {
	repo  store.Repository
	voice voice.Client
	pool  *pipeline.Pool
	cfg   *config.Config
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, voiceClient voice.Client, pool *pipeline.Pool, cfg *config.Config) *Handler {
	return &Handler{
		repo:  repo,
		voice: voiceClient,
		pool:  pool,
		cfg:   cfg,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
