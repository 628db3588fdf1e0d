package cmd

import (
	"context"
	"fmt"

	"github.com/inovacc/dcc/internal/cli"
	"github.com/inovacc/dcc/internal/model"
	"github.com/spf13/cobra"
)

var cleanerCmd = &cobra.Command{
	Use:   "cleaner",
	Short: "Manage cleaner profiles",
	Long: `Commands for managing cleaner profiles.

A cleaner is a named search location plus the directory names to remove
beneath it.

Available Commands:
  list      List cleaners
  show      Show one cleaner
  add       Create a cleaner
  edit      Change a cleaner
  remove    Delete a cleaner`,
	Aliases: []string{"cleaners"},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(cleanerCmd)
}

// resolveCleaner returns the cleaner named by args[0], or lets the user
// pick one when no id was given and the session is interactive.
func resolveCleaner(ctx context.Context, args []string, title string) (model.Cleaner, error) {
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return model.Cleaner{}, err
		}

		return deps.cleaners.Get(ctx, id)
	}

	if jsonFlag || !isInteractive() {
		return model.Cleaner{}, &model.ValidationError{Field: "id", Reason: "a cleaner id is required"}
	}

	cleaners, err := deps.cleaners.List(ctx)
	if err != nil {
		return model.Cleaner{}, err
	}

	if len(cleaners) == 0 {
		return model.Cleaner{}, fmt.Errorf("no cleaners configured, create one with: dcc cleaner add")
	}

	selected, err := cli.PickCleaner(title, cleaners)
	if err != nil {
		return model.Cleaner{}, err
	}

	if selected == nil {
		return model.Cleaner{}, context.Canceled
	}

	return *selected, nil
}
