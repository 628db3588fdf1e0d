package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var cleanerRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a cleaner",
	Long: `Delete a cleaner profile. The directories it matches are not touched.

Examples:
  dcc cleaner remove 4
  dcc cleaner remove 4 --yes --forget-history`,
	Aliases: []string{"rm", "delete"},
	Args:    cobra.ExactArgs(1),
	RunE:    runCleanerRemove,
}

var (
	cleanerRemoveYes    bool
	cleanerRemoveForget bool
)

func init() {
	cleanerCmd.AddCommand(cleanerRemoveCmd)

	cleanerRemoveCmd.Flags().BoolVarP(&cleanerRemoveYes, "yes", "y", false, "Skip confirmation")
	cleanerRemoveCmd.Flags().BoolVar(&cleanerRemoveForget, "forget-history", false, "Also delete the cleaner's run history")
}

func runCleanerRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, err := deps.cleaners.Get(ctx, id)
	if err != nil {
		return err
	}

	if !cleanerRemoveYes && isInteractive() {
		if !promptConfirm(os.Stdin, os.Stdout, fmt.Sprintf("Delete cleaner #%d %s? [y/N]: ", c.ID, c.Name)) {
			_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
			return nil
		}
	}

	if err := deps.cleaners.Delete(ctx, id); err != nil {
		return err
	}

	if cleanerRemoveForget {
		sweeper, err := deps.getSweeper()
		if err != nil {
			return err
		}

		n, err := sweeper.ForgetHistory(ctx, id)
		if err != nil {
			return err
		}

		deps.logger.Debug("history removed", slog.Int("cleaner", id), slog.Int("runs", n))
	}

	if jsonFlag {
		return printJSON(os.Stdout, map[string]any{"deleted": id})
	}

	_, _ = fmt.Fprintln(os.Stdout, okStyle.Render(fmt.Sprintf("✓ Deleted cleaner #%d %s", c.ID, c.Name)))

	return nil
}
