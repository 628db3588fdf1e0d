package cmd

import (
	"fmt"
	"os"

	"github.com/inovacc/dcc/internal/core"
	"github.com/inovacc/dcc/internal/model"
	"github.com/spf13/cobra"
)

var cleanerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a cleaner",
	Long: `Create a cleaner profile.

The id is assigned automatically (one more than the highest id in use)
unless --id is given. --dir may be repeated or take a comma separated list.

Examples:
  dcc cleaner add --name dotnet --location ~/src --dir bin,obj
  dcc cleaner add --name node --location ~/web --dir node_modules --dir .cache
  dcc cleaner add --id 10 --name gradle --location ~/android --dir build`,
	Aliases: []string{"create", "new"},
	Args:    cobra.NoArgs,
	RunE:    runCleanerAdd,
}

var (
	cleanerAddID          int
	cleanerAddName        string
	cleanerAddDescription string
	cleanerAddLocation    string
	cleanerAddDirs        []string
	cleanerAddNoCheck     bool
)

func init() {
	cleanerCmd.AddCommand(cleanerAddCmd)

	cleanerAddCmd.Flags().IntVar(&cleanerAddID, "id", 0, "Explicit cleaner id (default: next free id)")
	cleanerAddCmd.Flags().StringVarP(&cleanerAddName, "name", "n", "", "Cleaner name")
	cleanerAddCmd.Flags().StringVarP(&cleanerAddDescription, "description", "d", "", "Optional description")
	cleanerAddCmd.Flags().StringVarP(&cleanerAddLocation, "location", "l", "", "Search root")
	cleanerAddCmd.Flags().StringSliceVar(&cleanerAddDirs, "dir", nil, "Directory name to remove (repeatable)")
	cleanerAddCmd.Flags().BoolVar(&cleanerAddNoCheck, "no-check", false, "Do not require the location to exist")

	_ = cleanerAddCmd.MarkFlagRequired("name")
	_ = cleanerAddCmd.MarkFlagRequired("location")
	_ = cleanerAddCmd.MarkFlagRequired("dir")
}

func runCleanerAdd(cmd *cobra.Command, _ []string) error {
	location, err := expandPath(cleanerAddLocation)
	if err != nil {
		return &model.ValidationError{Field: "location", Reason: err.Error()}
	}

	c := model.Cleaner{
		ID:          cleanerAddID,
		Name:        cleanerAddName,
		Directories: splitDirectories(cleanerAddDirs),
		Location:    location,
	}

	if cleanerAddDescription != "" {
		c.Description = &cleanerAddDescription
	}

	if !cleanerAddNoCheck {
		if err := core.ValidateLocation(c); err != nil {
			return err
		}
	}

	created, err := deps.cleaners.Create(cmd.Context(), c)
	if err != nil {
		return err
	}

	if jsonFlag {
		return printJSON(os.Stdout, created)
	}

	_, _ = fmt.Fprintln(os.Stdout, okStyle.Render(fmt.Sprintf("✓ Created cleaner #%d %s", created.ID, created.Name)))

	return nil
}
