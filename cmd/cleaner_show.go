package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var cleanerShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a cleaner",
	Long: `Show every field of a cleaner profile.

Without an id an interactive picker is shown.

Examples:
  dcc cleaner show 3
  dcc cleaner show 3 --json`,
	Aliases: []string{"get"},
	Args:    cobra.MaximumNArgs(1),
	RunE:    runCleanerShow,
}

func init() {
	cleanerCmd.AddCommand(cleanerShowCmd)
}

func runCleanerShow(cmd *cobra.Command, args []string) error {
	c, err := resolveCleaner(cmd.Context(), args, "Show cleaner")
	if err != nil {
		return err
	}

	if jsonFlag {
		return printJSON(os.Stdout, c)
	}

	_, _ = os.Stdout.WriteString(titleStyle.Render(c.Name) + "\n")
	printField(os.Stdout, "ID", strconv.Itoa(c.ID))
	printField(os.Stdout, "Description", c.DescriptionText())
	printField(os.Stdout, "Location", c.Location)
	printField(os.Stdout, "Directories", strings.Join(c.Directories, ", "))

	return nil
}
