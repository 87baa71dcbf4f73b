package practicesession

import (
	"context"
	"time"
)

type action struct {
	fn    func(*PracticeSession) error
	reply chan error
}

// Runner owns a session inside a single goroutine. Transitions and clock
// ticks are serialized through one select loop, so the session itself
// needs no locking.
//
// The loop, and with it the ticker, stops on every exit path: completion,
// cancellation, or the context passed to Run being done (the hosting view
// went away).
type Runner struct {
	session  *PracticeSession
	interval time.Duration
	actions  chan action
	done     chan struct{}
}

// NewRunner wraps a session. A non-positive interval means one second.
func NewRunner(session *PracticeSession, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{
		session:  session,
		interval: interval,
		actions:  make(chan action),
		done:     make(chan struct{}),
	}
}

// Start runs the loop in a new goroutine.
func (r *Runner) Start(ctx context.Context) {
	go r.Run(ctx)
}

// Run blocks until the session is terminal or ctx is done.
func (r *Runner) Run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.session.Tick() {
				return
			}
		case a := <-r.actions:
			a.reply <- a.fn(r.session)
			if r.session.State().Terminal() {
				return
			}
		}
	}
}

// Do executes fn on the loop goroutine and returns its error. Once the
// loop has exited it returns ErrSessionClosed.
func (r *Runner) Do(ctx context.Context, fn func(*PracticeSession) error) error {
	a := action{fn: fn, reply: make(chan error, 1)}

	select {
	case r.actions <- a:
	case <-r.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// The loop always replies to an accepted action.
	return <-a.reply
}

// Done is closed when the loop has exited and the ticker is stopped.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// ID returns the wrapped session's ID. It never changes, so it is safe to
// read from any goroutine.
func (r *Runner) ID() string {
	return r.session.ID
}
