package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/careerprep/backend/internal/api"
	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
	"github.com/careerprep/backend/internal/domain/questionbank"
	"github.com/careerprep/backend/internal/events"
	"github.com/careerprep/backend/internal/grader"
	"github.com/careerprep/backend/internal/infrastructure/config"
	"github.com/careerprep/backend/internal/service"
	"github.com/careerprep/backend/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bank, err := loadBank(cfg)
	if err != nil {
		logger.Error("failed to load question corpus", "error", err, "path", cfg.QuestionsPath)
		os.Exit(1)
	}
	logger.Info("question corpus loaded", "questions", bank.Len())

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	subCtx, stopSubscriber := context.WithCancel(context.Background())
	defer stopSubscriber()
	if rp, ok := publisher.(*events.RedisPublisher); ok && cfg.LogOutcomes {
		go logOutcomes(subCtx, rp, logger)
	}

	sessions := service.NewSessionService(bank, newPolicy(cfg, logger), db, publisher, logger, service.Options{
		SampleSize:   cfg.SampleSize,
		TickInterval: cfg.TickInterval,
	})
	handler := api.NewHandler(sessions, bank, db, logger)

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           api.NewRouter(handler, logger, cfg.AllowedOrigins),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server", "live_sessions", sessions.Live())
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
		if err := sessions.Shutdown(ctx); err != nil {
			logger.Error("sessions did not stop in time", "error", err)
		}
		stopSubscriber()
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "scoring", cfg.ScoringPolicy)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

func loadBank(cfg *config.Config) (*questionbank.Bank, error) {
	if cfg.QuestionsPath == "" {
		return questionbank.Default(), nil
	}
	return questionbank.LoadFile(cfg.QuestionsPath)
}

func newPolicy(cfg *config.Config, logger *slog.Logger) practicesession.ScoringPolicy {
	random := grader.NewRandomPolicy(0)
	if cfg.ScoringPolicy != config.ScoringLLM {
		return random
	}
	llm := grader.NewOllamaGrader(cfg.LLMURL, cfg.LLMModel, cfg.LLMTimeout)
	return grader.NewLLMPolicy(llm, random, cfg.LLMTimeout, cfg.LLMWorkers, logger)
}

// newPublisher falls back to a no-op publisher when Redis is not configured
// or unreachable at startup.
func newPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if cfg.RedisAddr == "" {
		return events.NopPublisher{}
	}

	p := events.NewRedisPublisher(cfg.RedisAddr, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, outcome events disabled", "addr", cfg.RedisAddr, "error", err)
		p.Close()
		return events.NopPublisher{}
	}
	return p
}

func logOutcomes(ctx context.Context, p *events.RedisPublisher, logger *slog.Logger) {
	err := p.Subscribe(ctx, func(o events.Outcome) {
		logger.Info("outcome received",
			"session_id", o.SessionID,
			"kind", o.Kind,
			"category", o.Category,
			"answers", len(o.Answers),
		)
	})
	if err != nil {
		logger.Warn("outcome subscriber stopped", "error", err)
	}
}
