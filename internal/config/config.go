// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mode selects the set of collaborator implementations wired at startup.
type Mode string

const (
	// ModeDemo uses the simulated voice client, the heuristic evaluator and
	// the log notification sink. No external API keys are required.
	ModeDemo Mode = "demo"
	// ModeProduction uses the real voice platform, the model-backed
	// evaluator and Slack delivery.
	ModeProduction Mode = "production"
)

// Config holds all application configuration.
type Config struct {
	Port              string
	DBPath            string
	Mode              Mode
	TranscriptBaseURL string

	Vapi     VapiConfig
	Gemini   GeminiConfig
	Slack    SlackConfig
	Pipeline PipelineConfig
}

// VapiConfig configures the voice-call platform client.
type VapiConfig struct {
	APIKey        string
	PhoneNumberID string
	BaseURL       string
}

// GeminiConfig configures the model-backed evaluator.
type GeminiConfig struct {
	APIKey string
	Models []string
}

// SlackConfig configures notification delivery.
type SlackConfig struct {
	BotToken string
	Channel  string
}

// PipelineConfig bounds the completion worker pool.
type PipelineConfig struct {
	Workers    int
	QueueSize  int
	RunTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8000"),
		DBPath:            getEnv("DB_PATH", "./data/interview_agent.db"),
		Mode:              Mode(strings.ToLower(getEnv("APP_MODE", string(ModeDemo)))),
		TranscriptBaseURL: getEnv("TRANSCRIPT_BASE_URL", ""),
		Vapi: VapiConfig{
			APIKey:        getEnv("VAPI_API_KEY", ""),
			PhoneNumberID: getEnv("VAPI_PHONE_NUMBER_ID", ""),
			BaseURL:       getEnv("VAPI_BASE_URL", "https://api.vapi.ai"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Models: getEnvList("GEMINI_MODELS", []string{"gemini-1.5-pro", "gemini-1.5-flash"}),
		},
		Slack: SlackConfig{
			BotToken: getEnv("SLACK_BOT_TOKEN", ""),
			Channel:  getEnv("SLACK_CHANNEL", "hr-notifications"),
		},
		Pipeline: PipelineConfig{
			Workers:    getEnvInt("PIPELINE_WORKERS", 4),
			QueueSize:  getEnvInt("PIPELINE_QUEUE_SIZE", 64),
			RunTimeout: getEnvDuration("PIPELINE_RUN_TIMEOUT", 3*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Mode != ModeDemo && c.Mode != ModeProduction {
		return fmt.Errorf("APP_MODE must be %q or %q, got %q", ModeDemo, ModeProduction, c.Mode)
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("PIPELINE_WORKERS must be > 0")
	}
	if c.Pipeline.QueueSize <= 0 {
		return fmt.Errorf("PIPELINE_QUEUE_SIZE must be > 0")
	}
	if c.Pipeline.RunTimeout <= 0 {
		return fmt.Errorf("PIPELINE_RUN_TIMEOUT must be > 0")
	}
	if c.Mode == ModeProduction {
		if c.Vapi.APIKey == "" {
			return fmt.Errorf("VAPI_API_KEY is required in production mode")
		}
		if c.Vapi.PhoneNumberID == "" {
			return fmt.Errorf("VAPI_PHONE_NUMBER_ID is required in production mode")
		}
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required in production mode")
		}
		if len(c.Gemini.Models) == 0 {
			return fmt.Errorf("GEMINI_MODELS cannot be empty in production mode")
		}
		if c.Slack.BotToken == "" {
			return fmt.Errorf("SLACK_BOT_TOKEN is required in production mode")
		}
	}
	return nil
}

// IsDemo returns true when the service runs against simulated collaborators.
func (c *Config) IsDemo() bool {
	return c.Mode == ModeDemo
}

// TranscriptURL builds the externally reachable transcript link for a call.
func (c *Config) TranscriptURL(callID string) string {
	base := c.TranscriptBaseURL
	if base == "" {
		base = "http://localhost:" + c.Port
	}
	return strings.TrimRight(base, "/") + "/interviews/" + callID + "/transcript"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
