package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
    session_id TEXT PRIMARY KEY,
    category TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    score INTEGER,
    question_count INTEGER NOT NULL,
    elapsed_seconds INTEGER NOT NULL,
    finished_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS result_answers (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    question_id TEXT NOT NULL,
    answer TEXT NOT NULL,
    PRIMARY KEY (session_id, position),
    FOREIGN KEY (session_id) REFERENCES results(session_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_results_finished_at ON results(finished_at);
`

// timeLayout is fixed width so finished_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveResult(ctx context.Context, r *Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var score sql.NullInt64
	if r.Score != nil {
		score = sql.NullInt64{Int64: int64(*r.Score), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO results (session_id, category, status, score, question_count, elapsed_seconds, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.SessionID, r.Category, string(r.Status), score, r.QuestionCount, r.ElapsedSeconds,
		r.FinishedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	for i, a := range r.Answers {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO result_answers (session_id, position, question_id, answer) VALUES (?, ?, ?, ?)",
			r.SessionID, i, a.QuestionID, a.AnswerText,
		)
		if err != nil {
			return fmt.Errorf("insert answer %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetResult(ctx context.Context, sessionID string) (*Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, category, status, score, question_count, elapsed_seconds, finished_at
		FROM results WHERE session_id = ?
	`, sessionID)

	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	answers, err := s.loadAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	r.Answers = answers

	return r, nil
}

// ListResults returns the most recent outcomes first, without transcripts.
func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, category, status, score, question_count, elapsed_seconds, finished_at
		FROM results ORDER BY finished_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) CategoryStats(ctx context.Context) ([]CategoryStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category,
		       SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
		       COALESCE(AVG(score), 0),
		       COALESCE(MAX(score), 0)
		FROM results
		GROUP BY category
		ORDER BY category
	`, string(StatusCompleted), string(StatusCancelled))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []CategoryStats{}
	for rows.Next() {
		var cs CategoryStats
		var avg float64
		if err := rows.Scan(&cs.Category, &cs.Sessions, &cs.Cancelled, &avg, &cs.BestScore); err != nil {
			return nil, err
		}
		cs.AverageScore = int(avg)
		stats = append(stats, cs)
	}
	return stats, rows.Err()
}

func (s *SQLiteStore) loadAnswers(ctx context.Context, sessionID string) ([]practicesession.Answer, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT question_id, answer FROM result_answers WHERE session_id = ? ORDER BY position",
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []practicesession.Answer{}
	for rows.Next() {
		var a practicesession.Answer
		if err := rows.Scan(&a.QuestionID, &a.AnswerText); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*Result, error) {
	var (
		r          Result
		status     string
		score      sql.NullInt64
		finishedAt string
	)
	if err := row.Scan(&r.SessionID, &r.Category, &status, &score, &r.QuestionCount, &r.ElapsedSeconds, &finishedAt); err != nil {
		return nil, err
	}

	r.Status = Status(status)
	if score.Valid {
		v := int(score.Int64)
		r.Score = &v
	}

	t, err := time.Parse(timeLayout, finishedAt)
	if err != nil {
		return nil, fmt.Errorf("parse finished_at %q: %w", finishedAt, err)
	}
	r.FinishedAt = t

	return &r, nil
}
