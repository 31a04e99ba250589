package exercise

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/internal/config"
)

var logCmd = &cobra.Command{
	Use:   "log <exercise-id>",
	Short: "Record a completed exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())

		api, err := gc.Provider.SDKClient()
		if err != nil {
			return err
		}

		if err := api.LogExercise(cmd.Context(), args[0]); err != nil {
			return err
		}

		pterm.Success.Println("Exercise logged in your history")
		return nil
	},
}
