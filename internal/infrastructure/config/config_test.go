package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	for _, k := range []string{"DB_PATH", "QUESTIONS_PATH", "SAMPLE_SIZE", "TICK_INTERVAL",
		"SCORING_POLICY", "LLM_URL", "LLM_MODEL", "LLM_TIMEOUT", "LLM_WORKERS", "REDIS_ADDR", "ALLOWED_ORIGINS", "LOG_OUTCOMES"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.ServerAddress != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.ServerAddress)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.SampleSize != 3 {
		t.Errorf("expected sample size 3, got %d", cfg.SampleSize)
	}
	if cfg.TickInterval != time.Second {
		t.Errorf("expected 1s tick, got %v", cfg.TickInterval)
	}
	if cfg.ScoringPolicy != ScoringRandom {
		t.Errorf("expected random scoring, got %q", cfg.ScoringPolicy)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.LogOutcomes {
		t.Error("expected outcome logging off by default")
	}
	if cfg.QuestionsPath != "" || cfg.RedisAddr != "" {
		t.Errorf("expected optional paths empty, got %q %q", cfg.QuestionsPath, cfg.RedisAddr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":8080")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")
	t.Setenv("SAMPLE_SIZE", "5")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("SCORING_POLICY", "llm")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_OUTCOMES", "true")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://app.example.com")

	cfg := Load()

	if cfg.SampleSize != 5 {
		t.Errorf("expected 5, got %d", cfg.SampleSize)
	}
	if cfg.TickInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", cfg.TickInterval)
	}
	if cfg.ScoringPolicy != ScoringLLM {
		t.Errorf("expected llm, got %q", cfg.ScoringPolicy)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://app.example.com" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if !cfg.LogOutcomes {
		t.Error("expected outcome logging on")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("unexpected redis addr %q", cfg.RedisAddr)
	}
}
