package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
)

// OutcomesChannel is the Redis pub/sub channel session outcomes go to.
const OutcomesChannel = "interview:outcomes"

type Kind string

const (
	KindCompleted Kind = "completed"
	KindCancelled Kind = "cancelled"
)

type Outcome struct {
	SessionID      string                   `json:"sessionId"`
	Kind           Kind                     `json:"kind"`
	Category       string                   `json:"category,omitempty"`
	Score          *int                     `json:"score,omitempty"`
	QuestionCount  int                      `json:"questionCount"`
	ElapsedSeconds int                      `json:"elapsedSeconds"`
	Answers        []practicesession.Answer `json:"answers"`
	FinishedAt     time.Time                `json:"finishedAt"`
}

type Publisher interface {
	Publish(ctx context.Context, o Outcome) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Outcome) error { return nil }
func (NopPublisher) Close() error                           { return nil }

type RedisPublisher struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewRedisPublisher(redisAddr string, logger *slog.Logger) *RedisPublisher {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	return &RedisPublisher{rdb: rdb, logger: logger}
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func (p *RedisPublisher) Publish(ctx context.Context, o Outcome) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	receivers, err := p.rdb.Publish(ctx, OutcomesChannel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish outcome %s: %w", o.SessionID, err)
	}

	p.logger.Debug("outcome published", "session_id", o.SessionID, "kind", o.Kind, "receivers", receivers)
	return nil
}

// Subscribe delivers outcomes to handle until ctx is done. Malformed
// payloads are logged and dropped.
func (p *RedisPublisher) Subscribe(ctx context.Context, handle func(Outcome)) error {
	sub := p.rdb.Subscribe(ctx, OutcomesChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", OutcomesChannel, err)
	}
	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var o Outcome
			if err := json.Unmarshal([]byte(msg.Payload), &o); err != nil {
				p.logger.Warn("dropping malformed outcome", "error", err)
				continue
			}
			handle(o)
		}
	}
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
