package auth

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/internal/config"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to FitLog",
	Long: `Signs in with email and password and stores the session on this
machine. Subsequent commands authenticate with the stored session until
you log out or the server invalidates the credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())

		mgr, err := gc.Provider.Session()
		if err != nil {
			return err
		}

		email := loginEmail
		password := loginPassword

		if email == "" {
			if gc.NonInteractive {
				return fmt.Errorf("--email is required in non-interactive mode")
			}
			email, err = pterm.DefaultInteractiveTextInput.Show("Email")
			if err != nil {
				return err
			}
		}
		if password == "" {
			if gc.NonInteractive {
				return fmt.Errorf("--password is required in non-interactive mode")
			}
			password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
		}

		if err := mgr.SignIn(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("sign-in failed: %w", err)
		}

		state := mgr.State()
		pterm.Success.Printf("Signed in as %s (%s)\n", state.User.Name, state.User.Email)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
}
