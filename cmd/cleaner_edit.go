package cmd

import (
	"fmt"
	"os"

	"github.com/inovacc/dcc/internal/core"
	"github.com/inovacc/dcc/internal/model"
	"github.com/spf13/cobra"
)

var cleanerEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a cleaner",
	Long: `Change the fields of a cleaner profile. Only the flags given are
changed; --dir replaces the whole directory list. The id never changes.

Examples:
  dcc cleaner edit 2 --location ~/work
  dcc cleaner edit 2 --dir bin,obj,.vs
  dcc cleaner edit 2 --clear-description`,
	Aliases: []string{"update"},
	Args:    cobra.ExactArgs(1),
	RunE:    runCleanerEdit,
}

var (
	cleanerEditName             string
	cleanerEditDescription      string
	cleanerEditClearDescription bool
	cleanerEditLocation         string
	cleanerEditDirs             []string
	cleanerEditNoCheck          bool
)

func init() {
	cleanerCmd.AddCommand(cleanerEditCmd)

	cleanerEditCmd.Flags().StringVarP(&cleanerEditName, "name", "n", "", "New name")
	cleanerEditCmd.Flags().StringVarP(&cleanerEditDescription, "description", "d", "", "New description")
	cleanerEditCmd.Flags().BoolVar(&cleanerEditClearDescription, "clear-description", false, "Remove the description")
	cleanerEditCmd.Flags().StringVarP(&cleanerEditLocation, "location", "l", "", "New search root")
	cleanerEditCmd.Flags().StringSliceVar(&cleanerEditDirs, "dir", nil, "Replacement directory names (repeatable)")
	cleanerEditCmd.Flags().BoolVar(&cleanerEditNoCheck, "no-check", false, "Do not require the location to exist")

	cleanerEditCmd.MarkFlagsMutuallyExclusive("description", "clear-description")
}

func runCleanerEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, err := deps.cleaners.Get(ctx, id)
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if flags.Changed("name") {
		c.Name = cleanerEditName
	}

	if flags.Changed("description") {
		c.Description = &cleanerEditDescription
	}

	if cleanerEditClearDescription {
		c.Description = nil
	}

	if flags.Changed("location") {
		location, err := expandPath(cleanerEditLocation)
		if err != nil {
			return &model.ValidationError{Field: "location", Reason: err.Error()}
		}

		c.Location = location

		if !cleanerEditNoCheck {
			if err := core.ValidateLocation(c); err != nil {
				return err
			}
		}
	}

	if flags.Changed("dir") {
		c.Directories = splitDirectories(cleanerEditDirs)
	}

	updated, err := deps.cleaners.Update(ctx, c)
	if err != nil {
		return err
	}

	if jsonFlag {
		return printJSON(os.Stdout, updated)
	}

	_, _ = fmt.Fprintln(os.Stdout, okStyle.Render(fmt.Sprintf("✓ Updated cleaner #%d %s", updated.ID, updated.Name)))

	return nil
}
