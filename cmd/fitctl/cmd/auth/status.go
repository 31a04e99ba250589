package auth

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())

		mgr, err := gc.Provider.Session()
		if err != nil {
			return err
		}

		state := mgr.State()
		if !state.SignedIn() {
			pterm.Warning.Println("Not signed in. Run `fitctl auth login`.")
			return nil
		}

		pterm.DefaultSection.Println("Authentication Status")
		pterm.Info.Printf("Signed in as: %s\n", state.User.Name)
		pterm.Info.Printf("Email: %s\n", state.User.Email)
		pterm.Info.Printf("User ID: %s\n", state.User.ID)
		return nil
	},
}
