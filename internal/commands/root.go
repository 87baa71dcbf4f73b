package commands

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "practice",
	Short: "Rehearse interview questions in the terminal",
	Long: `practice runs a mock interview: questions are shown one at a time,
you type an answer or skip, and the session is scored when the last
question is answered.`,
	SilenceUsage: true,
	RunE:         runPractice,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.Flags()
	f.StringP("category", "c", "", "practice one category: soft-skills, technical or general")
	f.StringP("questions", "f", "", "YAML question corpus (defaults to the built-in questions)")
	f.IntP("sample", "n", 3, "questions to draw when no category is given")
	f.String("score", "random", "scoring policy: random, fixed or llm")
	f.Int("fixed-score", 85, "score used by the fixed policy")
	f.Int64("seed", 0, "seed for the random policy (0 = time based)")
	f.String("llm-url", "http://localhost:1234", "OpenAI-compatible endpoint for the llm policy")
	f.String("llm-model", "qwen3-8b", "model name for the llm policy")
	f.Duration("tick", 0, "wall time per elapsed second (defaults to 1s)")
	f.String("db", "", "SQLite file to record the outcome in")

	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("db", "careerprep.db", "SQLite file with recorded outcomes")
	historyCmd.Flags().Int("limit", 10, "number of results to show")
}
