package profile

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/internal/config"
	"github.com/fitlog/fitctl/pkg/sdk"
)

var (
	updateName        string
	updatePassword    string
	updateOldPassword string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the signed-in user's profile",
	Long: `Updates the display name and, optionally, the password. The server
is updated first; the locally stored profile is then replaced as a whole.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())

		mgr, err := gc.Provider.Session()
		if err != nil {
			return err
		}

		state := mgr.State()
		if !state.SignedIn() {
			return fmt.Errorf("not signed in; run `fitctl auth login`")
		}

		if updateName == "" && updatePassword == "" {
			return fmt.Errorf("nothing to update: pass --name and/or --password")
		}
		if updatePassword != "" && updateOldPassword == "" {
			return fmt.Errorf("--old-password is required when changing the password")
		}

		name := updateName
		if name == "" {
			name = state.User.Name
		}

		api, err := gc.Provider.SDKClient()
		if err != nil {
			return err
		}
		if err := api.UpdateUser(cmd.Context(), sdk.UpdateUserInput{
			Name:        name,
			Password:    updatePassword,
			OldPassword: updateOldPassword,
		}); err != nil {
			return fmt.Errorf("profile update failed: %w", err)
		}

		// Replace the whole stored profile rather than mutating it in place.
		updated := *state.User
		updated.Name = name
		if err := mgr.UpdateProfile(updated); err != nil {
			return fmt.Errorf("server updated but local profile could not be saved: %w", err)
		}

		pterm.Success.Println("Profile updated")
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "New display name")
	updateCmd.Flags().StringVar(&updatePassword, "password", "", "New password")
	updateCmd.Flags().StringVar(&updateOldPassword, "old-password", "", "Current password, required with --password")
}
