package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/careerprep/backend/internal/domain/category"
	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
	"github.com/careerprep/backend/internal/domain/questionbank"
	"github.com/careerprep/backend/internal/grader"
	"github.com/careerprep/backend/internal/store"
	"github.com/careerprep/backend/internal/tui"
)

func runPractice(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	catFlag, _ := f.GetString("category")
	questionsPath, _ := f.GetString("questions")
	sample, _ := f.GetInt("sample")
	tick, _ := f.GetDuration("tick")
	dbPath, _ := f.GetString("db")

	cat, err := category.ParseOptional(catFlag)
	if err != nil {
		return err
	}

	bank := questionbank.Default()
	if questionsPath != "" {
		if bank, err = questionbank.LoadFile(questionsPath); err != nil {
			return err
		}
	}

	policy, err := policyFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg := practicesession.SessionConfig{Category: cat, SampleSize: sample, TickInterval: tick}
	model, err := tui.NewPracticeModel(func(b practicesession.Boundary) (*practicesession.PracticeSession, error) {
		return practicesession.NewFromBank(bank, cfg, policy, b)
	}, tick)
	if err != nil {
		return err
	}

	out, err := tui.RunPractice(model)
	if err != nil {
		return err
	}

	session := model.Session()
	switch {
	case out.Completed:
		fmt.Printf("✅ Interview complete: %d/100 (%d of %d answered in %s)\n",
			out.Score, len(out.Answers), session.Len(), practicesession.FormatElapsed(session.Elapsed()))
	case out.Cancelled:
		fmt.Println("❌ Interview cancelled.")
	default:
		return nil
	}

	if dbPath == "" {
		return nil
	}
	return saveOutcome(dbPath, session, cat, out)
}

func policyFromFlags(cmd *cobra.Command) (practicesession.ScoringPolicy, error) {
	f := cmd.Flags()
	name, _ := f.GetString("score")
	seed, _ := f.GetInt64("seed")

	switch name {
	case "random":
		return grader.NewRandomPolicy(seed), nil
	case "fixed":
		score, _ := f.GetInt("fixed-score")
		return grader.FixedPolicy(score), nil
	case "llm":
		url, _ := f.GetString("llm-url")
		model, _ := f.GetString("llm-model")
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		g := grader.NewOllamaGrader(url, model, 60*time.Second)
		return grader.NewLLMPolicy(g, grader.NewRandomPolicy(seed), 90*time.Second, 3, logger), nil
	}
	return nil, fmt.Errorf("unknown scoring policy %q (want random, fixed or llm)", name)
}

func saveOutcome(dbPath string, session *practicesession.PracticeSession, cat *category.Category, out tui.Outcome) error {
	db, err := store.NewSQLite(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	result := &store.Result{
		SessionID:      session.ID,
		Status:         store.StatusCancelled,
		QuestionCount:  session.Len(),
		ElapsedSeconds: session.Elapsed(),
		Answers:        session.Answers(),
		FinishedAt:     time.Now().UTC(),
	}
	if cat != nil {
		result.Category = cat.String()
	}
	if out.Completed {
		score := out.Score
		result.Status = store.StatusCompleted
		result.Score = &score
	}

	if err := db.SaveResult(context.Background(), result); err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Recorded in %s\n", dbPath)
	return nil
}
