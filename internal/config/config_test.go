package config

import (
	"strings"
	"testing"
	"time"
)

func validDemoConfig() *Config {
	return &Config{
		Port:   "8000",
		DBPath: "./data/test.db",
		Mode:   ModeDemo,
		Pipeline: PipelineConfig{
			Workers:    4,
			QueueSize:  64,
			RunTimeout: 3 * time.Minute,
		},
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DB_PATH", "APP_MODE", "TRANSCRIPT_BASE_URL",
		"GEMINI_MODELS", "PIPELINE_WORKERS", "PIPELINE_QUEUE_SIZE", "PIPELINE_RUN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	// t.Setenv with "" sets the variable to empty rather than unsetting it,
	// which is enough to exercise the fallbacks for the numeric and list keys.
	t.Setenv("PORT", "8000")
	t.Setenv("DB_PATH", "./data/test.db")
	t.Setenv("APP_MODE", "demo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != ModeDemo {
		t.Errorf("mode = %q, want demo", cfg.Mode)
	}
	if cfg.Pipeline.Workers != 4 || cfg.Pipeline.QueueSize != 64 {
		t.Errorf("pipeline defaults = %+v", cfg.Pipeline)
	}
	if len(cfg.Gemini.Models) != 2 {
		t.Errorf("model fallback chain = %v", cfg.Gemini.Models)
	}
}

func TestValidateDemoNeedsNoKeys(t *testing.T) {
	if err := validDemoConfig().Validate(); err != nil {
		t.Errorf("demo config should validate without API keys: %v", err)
	}
}

func TestValidateProductionRequiresKeys(t *testing.T) {
	cfg := validDemoConfig()
	cfg.Mode = ModeProduction

	err := cfg.Validate()
	if err == nil {
		t.Fatal("production config without keys should not validate")
	}
	if !strings.Contains(err.Error(), "VAPI_API_KEY") {
		t.Errorf("error = %v, want missing VAPI_API_KEY", err)
	}

	cfg.Vapi.APIKey = "key"
	cfg.Vapi.PhoneNumberID = "pn"
	cfg.Gemini.APIKey = "key"
	cfg.Gemini.Models = []string{"gemini-1.5-pro"}
	cfg.Slack.BotToken = "xoxb-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("fully keyed production config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Mode = "staging" }},
		{"empty port", func(c *Config) { c.Port = "" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"zero workers", func(c *Config) { c.Pipeline.Workers = 0 }},
		{"zero queue", func(c *Config) { c.Pipeline.QueueSize = 0 }},
		{"zero timeout", func(c *Config) { c.Pipeline.RunTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDemoConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestTranscriptURL(t *testing.T) {
	cfg := validDemoConfig()

	if got := cfg.TranscriptURL("call-1"); got != "http://localhost:8000/interviews/call-1/transcript" {
		t.Errorf("default base: %q", got)
	}

	cfg.TranscriptBaseURL = "https://interviews.example.com/"
	if got := cfg.TranscriptURL("call-1"); got != "https://interviews.example.com/interviews/call-1/transcript" {
		t.Errorf("custom base: %q", got)
	}
}
