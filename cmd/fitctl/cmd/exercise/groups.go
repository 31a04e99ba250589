package exercise

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/internal/config"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List muscle groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())

		api, err := gc.Provider.SDKClient()
		if err != nil {
			return err
		}

		groups, err := api.ListGroups(cmd.Context())
		if err != nil {
			return err
		}

		pterm.DefaultSection.Println("Muscle Groups")
		for _, group := range groups {
			pterm.Println("  " + group)
		}
		return nil
	},
}
