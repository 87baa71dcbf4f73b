package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
	"github.com/careerprep/backend/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently recorded interview outcomes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		limit, _ := cmd.Flags().GetInt("limit")

		db, err := store.NewSQLite(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		results, err := db.ListResults(cmd.Context(), limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No interviews recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FINISHED\tCATEGORY\tSTATUS\tSCORE\tTIME")
		for _, r := range results {
			cat := r.Category
			if cat == "" {
				cat = "sample"
			}
			score := "-"
			if r.Score != nil {
				score = fmt.Sprintf("%d", *r.Score)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.FinishedAt.Local().Format("2006-01-02 15:04"), cat, r.Status, score,
				practicesession.FormatElapsed(r.ElapsedSeconds))
		}
		return w.Flush()
	},
}
