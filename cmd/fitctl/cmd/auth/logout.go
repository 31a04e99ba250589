package auth

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out from FitLog",
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())

		mgr, err := gc.Provider.Session()
		if err != nil {
			return err
		}

		if err := mgr.SignOut(); err != nil {
			return fmt.Errorf("failed to clear stored session: %w", err)
		}

		pterm.Success.Println("Signed out")
		return nil
	},
}
