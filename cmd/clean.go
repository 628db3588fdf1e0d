package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/inovacc/dcc/internal/cli"
	"github.com/inovacc/dcc/internal/core"
	"github.com/inovacc/dcc/internal/model"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [id]",
	Short: "Remove the directories a cleaner matches",
	Long: `Delete every directory a cleaner matches below its location.

Each match is deleted independently. Directories that vanish on their own
are skipped; permission and I/O failures are reported as warnings and the
run carries on. Every run, including dry runs, is recorded in the history.

Exit codes:
  0  everything matched was removed (or nothing matched)
  2  unknown cleaner or invalid location
  4  some directories could not be removed
  130 interrupted

Examples:
  dcc clean 1 --dry-run
  dcc clean 1 --yes --parallel 4
  dcc clean                # pick a cleaner interactively`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

var (
	cleanDryRun   bool
	cleanYes      bool
	cleanParallel int
	cleanSize     bool
	cleanNoTUI    bool
)

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "List matches without deleting")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Skip confirmation")
	cleanCmd.Flags().IntVarP(&cleanParallel, "parallel", "p", 1, "Number of concurrent deletions")
	cleanCmd.Flags().BoolVar(&cleanSize, "size", false, "Measure matched directories before deleting")
	cleanCmd.Flags().BoolVar(&cleanNoTUI, "no-tui", false, "Run without the progress spinner")
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if cleanParallel < 1 || cleanParallel > 64 {
		return &model.ValidationError{Field: "parallel", Reason: "must be between 1 and 64"}
	}

	c, err := resolveCleaner(ctx, args, "Clean with cleaner")
	if err != nil {
		return err
	}

	sweeper, err := deps.getSweeper()
	if err != nil {
		return err
	}

	if !cleanDryRun && !cleanYes {
		if !isInteractive() || jsonFlag {
			return &model.ValidationError{Field: "yes", Reason: "refusing to delete without confirmation; pass --yes"}
		}

		prompt := fmt.Sprintf("Delete every %v directory under %s? [y/N]: ", c.Directories, c.Location)
		if !promptConfirm(os.Stdin, os.Stdout, prompt) {
			_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
			return nil
		}
	}

	opts := core.CleanOptions{
		DryRun:      cleanDryRun,
		Parallel:    cleanParallel,
		MeasureSize: cleanSize || cleanDryRun,
	}

	run := func(ctx context.Context) (*core.CleanResult, error) {
		return sweeper.Clean(ctx, c, opts)
	}

	var result *core.CleanResult
	if !cleanDryRun && !cleanNoTUI && !jsonFlag && isInteractive() {
		result, err = cli.RunClean(ctx, c, run, deps.dispatcher)
	} else {
		result, err = run(ctx)
	}

	if result == nil {
		return err
	}

	if jsonFlag {
		if jerr := printJSON(os.Stdout, result); jerr != nil {
			return jerr
		}

		return err
	}

	printCleanResult(os.Stdout, result)

	return err
}

func printCleanResult(w io.Writer, result *core.CleanResult) {
	run := result.Run

	if run.NothingFound() {
		_, _ = fmt.Fprintf(w, "Nothing to clean under %s\n", run.Location)
		return
	}

	if run.DryRun {
		for _, path := range run.Matched {
			_, _ = fmt.Fprintln(w, path)
		}

		_, _ = fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("\n%d directories would be removed (%s)", len(run.Matched), formatBytes(run.Bytes))))

		return
	}

	for _, path := range run.Removed {
		_, _ = fmt.Fprintf(w, "%s %s\n", okStyle.Render("removed"), path)
	}

	for _, f := range run.Failed {
		style := warnStyle
		if f.Fatal {
			style = errStyle
		}

		_, _ = fmt.Fprintf(w, "%s %s: %s\n", style.Render("failed "), f.Path, f.Error)
	}

	summary := fmt.Sprintf("\nRemoved %d of %d directories", len(run.Removed), len(run.Matched))
	if run.Bytes > 0 {
		summary += fmt.Sprintf(", %s", formatBytes(run.Bytes))
	}

	if freed := core.Reclaimed(result.FreeBefore, result.FreeAfter); freed > 0 {
		summary += fmt.Sprintf(" (%s free space reclaimed)", formatBytes(int64(freed)))
	}

	if run.Canceled {
		summary += " before being interrupted"
	}

	_, _ = fmt.Fprintln(w, titleStyle.Render(summary))
}
