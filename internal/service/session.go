package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/careerprep/backend/internal/domain/category"
	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
	"github.com/careerprep/backend/internal/domain/questionbank"
	"github.com/careerprep/backend/internal/events"
	"github.com/careerprep/backend/internal/metrics"
	"github.com/careerprep/backend/internal/store"
)

var ErrSessionNotFound = errors.New("session not found")

const persistTimeout = 5 * time.Second

type Options struct {
	SampleSize   int
	TickInterval time.Duration
}

// SessionService hosts live practice sessions. Each session is owned by a
// practicesession.Runner; the service only keeps the runner index.
// Terminal outcomes are persisted and published, then the session is
// dropped from the index.
type SessionService struct {
	bank      *questionbank.Bank
	policy    practicesession.ScoringPolicy
	store     store.Store
	publisher events.Publisher
	logger    *slog.Logger
	opts      Options

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	live map[string]*practicesession.Runner
}

func NewSessionService(
	bank *questionbank.Bank,
	policy practicesession.ScoringPolicy,
	s store.Store,
	publisher events.Publisher,
	logger *slog.Logger,
	opts Options,
) *SessionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = questionbank.DefaultSampleSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionService{
		bank:      bank,
		policy:    policy,
		store:     s,
		publisher: publisher,
		logger:    logger,
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		live:      make(map[string]*practicesession.Runner),
	}
}

// Start filters the bank and begins a session on its first question.
func (s *SessionService) Start(ctx context.Context, cat *category.Category) (practicesession.Snapshot, error) {
	if err := s.ctx.Err(); err != nil {
		return practicesession.Snapshot{}, err
	}

	rec := &outcomeRecorder{svc: s}
	if cat != nil {
		rec.category = cat.String()
	}

	session, err := practicesession.NewFromBank(s.bank, practicesession.SessionConfig{
		Category:     cat,
		SampleSize:   s.opts.SampleSize,
		TickInterval: s.opts.TickInterval,
	}, s.policy, rec)
	if err != nil {
		return practicesession.Snapshot{}, err
	}
	rec.session = session
	snap := session.Snapshot()

	runner := practicesession.NewRunner(session, s.opts.TickInterval)

	s.mu.Lock()
	s.live[session.ID] = runner
	s.mu.Unlock()

	runner.Start(s.ctx)
	go s.reap(runner, rec)

	metrics.SessionStarted(rec.category)
	s.logger.Info("session started",
		"session_id", session.ID,
		"category", rec.category,
		"questions", snap.Total,
	)
	return snap, nil
}

// reap drops the runner from the index once its loop has exited.
func (s *SessionService) reap(r *practicesession.Runner, rec *outcomeRecorder) {
	<-r.Done()

	s.mu.Lock()
	delete(s.live, r.ID())
	s.mu.Unlock()

	// finished is written on the runner goroutine before Done is closed.
	if !rec.finished {
		metrics.SessionDiscarded()
		s.logger.Info("session discarded", "session_id", r.ID())
	}
}

func (s *SessionService) Get(ctx context.Context, id string) (practicesession.Snapshot, error) {
	return s.do(ctx, id, func(*practicesession.PracticeSession) error { return nil })
}

func (s *SessionService) EditDraft(ctx context.Context, id, text string) (practicesession.Snapshot, error) {
	return s.do(ctx, id, func(ps *practicesession.PracticeSession) error {
		return ps.EditDraft(text)
	})
}

func (s *SessionService) ClearDraft(ctx context.Context, id string) (practicesession.Snapshot, error) {
	return s.do(ctx, id, func(ps *practicesession.PracticeSession) error {
		return ps.ClearDraft()
	})
}

func (s *SessionService) ToggleRecording(ctx context.Context, id string) (practicesession.Snapshot, error) {
	return s.do(ctx, id, func(ps *practicesession.PracticeSession) error {
		_, err := ps.ToggleRecording()
		return err
	})
}

// Advance commits the draft. On the last question the returned snapshot is
// terminal and carries the score.
func (s *SessionService) Advance(ctx context.Context, id string) (practicesession.Snapshot, error) {
	snap, err := s.do(ctx, id, func(ps *practicesession.PracticeSession) error {
		return ps.Advance()
	})
	if err == nil {
		metrics.AnswerRecorded()
	}
	return snap, err
}

func (s *SessionService) Skip(ctx context.Context, id string) (practicesession.Snapshot, error) {
	snap, err := s.do(ctx, id, func(ps *practicesession.PracticeSession) error {
		return ps.Skip()
	})
	if err == nil {
		metrics.QuestionSkipped()
	}
	return snap, err
}

func (s *SessionService) Cancel(ctx context.Context, id string) (practicesession.Snapshot, error) {
	return s.do(ctx, id, func(ps *practicesession.PracticeSession) error {
		return ps.Cancel()
	})
}

// Live returns the number of sessions still presenting questions.
func (s *SessionService) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live)
}

// Shutdown stops every live runner without firing session callbacks and
// waits for the loops to exit or ctx to expire.
func (s *SessionService) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.RLock()
	runners := make([]*practicesession.Runner, 0, len(s.live))
	for _, r := range s.live {
		runners = append(runners, r)
	}
	s.mu.RUnlock()

	for _, r := range runners {
		select {
		case <-r.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *SessionService) do(ctx context.Context, id string, fn func(*practicesession.PracticeSession) error) (practicesession.Snapshot, error) {
	s.mu.RLock()
	r, ok := s.live[id]
	s.mu.RUnlock()
	if !ok {
		return practicesession.Snapshot{}, ErrSessionNotFound
	}

	var (
		snap practicesession.Snapshot
		ran  bool
	)
	err := r.Do(ctx, func(ps *practicesession.PracticeSession) error {
		ran = true
		err := fn(ps)
		snap = ps.Snapshot()
		return err
	})
	// The loop exited before reap removed it from the index.
	if !ran && errors.Is(err, practicesession.ErrSessionClosed) {
		return practicesession.Snapshot{}, ErrSessionNotFound
	}
	return snap, err
}
