package cmd

import (
	"fmt"
	"os"

	"github.com/inovacc/dcc/internal/core"
	"github.com/inovacc/dcc/internal/model"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the dcc configuration file",
	Long: `Commands for managing the configuration file that holds the cleaners.

Available Commands:
  path      Print the configuration file location
  show      Print the configuration document
  reset     Delete every cleaner`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if jsonFlag {
			return printJSON(os.Stdout, map[string]string{
				"data_dir":      deps.paths.DataDir,
				"configuration": deps.config.Path(),
				"history":       deps.paths.History(historyBackend),
			})
		}

		_, _ = fmt.Fprintln(os.Stdout, deps.config.Path())

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration document",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ShowConfig(os.Stdout, deps.config)
	},
}

var configResetYes bool

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every cleaner",
	Long: `Replace the configuration file with an empty one. Run history is kept.

Examples:
  dcc config reset --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !configResetYes {
			if !isInteractive() {
				return &model.ValidationError{Field: "yes", Reason: "refusing to reset without confirmation; pass --yes"}
			}

			if !promptConfirm(os.Stdin, os.Stdout, "Delete every cleaner? [y/N]: ") {
				_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
				return nil
			}
		}

		if _, err := core.ResetConfig(deps.config); err != nil {
			return err
		}

		if _, err := deps.cleaners.Refresh(cmd.Context()); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(os.Stdout, okStyle.Render("✓ Configuration reset"))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().BoolVarP(&configResetYes, "yes", "y", false, "Skip confirmation")
}
