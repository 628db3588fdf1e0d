package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var cleanerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cleaners",
	Long: `List all cleaner profiles in configuration order.

Examples:
  dcc cleaner list
  dcc cleaner list --json
  dcc cleaner list --refresh`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runCleanerList,
}

var cleanerListRefresh bool

func init() {
	cleanerCmd.AddCommand(cleanerListCmd)

	cleanerListCmd.Flags().BoolVar(&cleanerListRefresh, "refresh", false, "Reload the configuration file before listing")
}

func runCleanerList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	list := deps.cleaners.List
	if cleanerListRefresh {
		list = deps.cleaners.Refresh
	}

	cleaners, err := list(ctx)
	if err != nil {
		return err
	}

	if jsonFlag {
		return printJSON(os.Stdout, cleaners)
	}

	if len(cleaners) == 0 {
		printEmptyResult(os.Stdout, "cleaners", "dcc cleaner add --name <name> --location <dir> --dir <name>")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tLOCATION\tDIRECTORIES")

	for _, c := range cleaners {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			strconv.Itoa(c.ID),
			truncateString(c.Name, 24),
			truncateString(c.Location, 48),
			truncateString(strings.Join(c.Directories, ","), 40),
		)
	}

	return w.Flush()
}
