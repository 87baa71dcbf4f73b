package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ScoringRandom = "random"
	ScoringLLM    = "llm"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	DBPath        string
	QuestionsPath string // empty means the embedded corpus

	// Practice sessions
	SampleSize    int
	TickInterval  time.Duration
	ScoringPolicy string // "random" or "llm"

	// LLM grading
	LLMURL     string // OpenAI-compatible endpoint, e.g. "http://localhost:1234"
	LLMModel   string // model name, e.g. "qwen3-8b"
	LLMTimeout time.Duration
	LLMWorkers int

	// Outcome events; publishing is disabled when empty
	RedisAddr   string
	LogOutcomes bool // also subscribe and log every published outcome

	AllowedOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBPath:          getenvDefault("DB_PATH", "careerprep.db"),
		QuestionsPath:   os.Getenv("QUESTIONS_PATH"),
		SampleSize:      getIntDefault("SAMPLE_SIZE", 3),
		TickInterval:    getDurationDefault("TICK_INTERVAL", time.Second),
		ScoringPolicy:   getenvDefault("SCORING_POLICY", ScoringRandom),
		LLMURL:          getenvDefault("LLM_URL", "http://localhost:1234"),
		LLMModel:        getenvDefault("LLM_MODEL", "qwen3-8b"),
		LLMTimeout:      getDurationDefault("LLM_TIMEOUT", 60*time.Second),
		LLMWorkers:      getIntDefault("LLM_WORKERS", 3),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		LogOutcomes:     getBoolDefault("LOG_OUTCOMES", false),
		AllowedOrigins:  splitList(getenvDefault("ALLOWED_ORIGINS", "*")),
	}

	if cfg.ScoringPolicy != ScoringRandom && cfg.ScoringPolicy != ScoringLLM {
		log.Fatalf("config: SCORING_POLICY=%q must be %q or %q", cfg.ScoringPolicy, ScoringRandom, ScoringLLM)
	}
	return cfg
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Fatalf("config: %s=%q is not a valid duration", k, v)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}

func getBoolDefault(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a boolean", k, v)
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
