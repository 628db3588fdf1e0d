package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past clean runs",
	Long: `Show recorded clean runs, newest first.

Examples:
  dcc history
  dcc history --cleaner 2 --limit 5
  dcc history --clear --cleaner 2`,
	Aliases: []string{"log"},
	Args:    cobra.NoArgs,
	RunE:    runHistory,
}

var (
	historyCleaner int
	historyLimit   int
	historyClear   bool
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyCleaner, "cleaner", "c", 0, "Only runs of this cleaner id")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs (0 for all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the recorded runs instead of listing them")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	sweeper, err := deps.getSweeper()
	if err != nil {
		return err
	}

	if historyClear {
		n, err := sweeper.ForgetHistory(ctx, historyCleaner)
		if err != nil {
			return err
		}

		if jsonFlag {
			return printJSON(os.Stdout, map[string]int{"deleted": n})
		}

		_, _ = fmt.Fprintf(os.Stdout, "Deleted %d runs.\n", n)

		return nil
	}

	runs, err := sweeper.History(ctx, historyCleaner, historyLimit)
	if err != nil {
		return err
	}

	if jsonFlag {
		return printJSON(os.Stdout, runs)
	}

	if len(runs) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STARTED\tCLEANER\tMODE\tMATCHED\tREMOVED\tFAILED\tDURATION")

	for _, r := range runs {
		mode := "clean"
		if r.DryRun {
			mode = "dry-run"
		}

		if r.Canceled {
			mode += " (canceled)"
		}

		_, _ = fmt.Fprintf(w, "%s\t#%d %s\t%s\t%d\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.CleanerID,
			truncateString(r.CleanerName, 20),
			mode,
			len(r.Matched),
			len(r.Removed),
			len(r.Failed),
			r.Duration().Round(time.Millisecond).String(),
		)
	}

	return w.Flush()
}

