package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/internal/config"
	"github.com/fitlog/fitctl/pkg/sdk"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a FitLog account",
	Long:  `Creates a new account and signs in with it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())

		if registerName == "" || registerEmail == "" {
			return fmt.Errorf("--name and --email are required")
		}

		password := registerPassword
		if password == "" {
			if gc.NonInteractive {
				return fmt.Errorf("--password is required in non-interactive mode")
			}
			var err error
			password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
		}

		api, err := gc.Provider.SDKClient()
		if err != nil {
			return err
		}

		if err := api.CreateUser(cmd.Context(), sdk.CreateUserInput{
			Name:     registerName,
			Email:    registerEmail,
			Password: password,
		}); err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		mgr, err := gc.Provider.Session()
		if err != nil {
			return err
		}
		if err := mgr.SignIn(cmd.Context(), registerEmail, password); err != nil {
			return fmt.Errorf("account created but sign-in failed: %w", err)
		}

		pterm.Success.Printf("Account created. Signed in as %s\n", registerName)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (prompted when omitted)")
}
