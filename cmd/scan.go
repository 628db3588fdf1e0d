package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/inovacc/dcc/internal/core"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [id]",
	Short: "List the directories a cleaner would remove",
	Long: `Find every directory a cleaner matches and show its size. Nothing is
deleted.

Matching is case-insensitive and stops at the first match on each branch,
so a node_modules inside another node_modules is not listed separately.

Examples:
  dcc scan 1
  dcc scan 1 --json
  dcc scan                 # pick a cleaner interactively`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

var scanNoSize bool

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanNoSize, "no-size", false, "Skip measuring directory sizes")
}

// ScanOutput is the JSON form of a scan
type ScanOutput struct {
	CleanerID int           `json:"cleaner_id"`
	Location  string        `json:"location"`
	Targets   []core.Target `json:"targets"`
	Bytes     int64         `json:"bytes"`
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := resolveCleaner(ctx, args, "Scan with cleaner")
	if err != nil {
		return err
	}

	sweeper, err := deps.getSweeper()
	if err != nil {
		return err
	}

	var targets []core.Target
	if scanNoSize {
		targets, err = sweeper.Targets(ctx, c, false)
	} else {
		targets, err = sweeper.Scan(ctx, c)
	}

	if err != nil {
		return err
	}

	out := ScanOutput{CleanerID: c.ID, Location: c.Location, Targets: targets}
	for _, t := range targets {
		out.Bytes += t.Bytes
	}

	if jsonFlag {
		return printJSON(os.Stdout, out)
	}

	if len(targets) == 0 {
		_, _ = fmt.Fprintf(os.Stdout, "Nothing to clean under %s\n", c.Location)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	for _, t := range targets {
		size := "-"
		if !scanNoSize {
			size = formatBytes(t.Bytes)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\n", size, t.Path)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	summary := fmt.Sprintf("\n%d directories", len(targets))
	if !scanNoSize {
		summary += ", " + formatBytes(out.Bytes)
	}

	_, _ = fmt.Fprintln(os.Stdout, titleStyle.Render(summary))

	return nil
}
