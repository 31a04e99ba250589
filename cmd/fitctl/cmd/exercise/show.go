package exercise

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/internal/config"
)

var showCmd = &cobra.Command{
	Use:   "show <exercise-id>",
	Short: "Display exercise details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())

		api, err := gc.Provider.SDKClient()
		if err != nil {
			return err
		}

		ex, err := api.GetExercise(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		pterm.DefaultSection.Println(ex.Name)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Group\t%s\n", ex.Group)
		fmt.Fprintf(w, "Series\t%d\n", ex.Series)
		fmt.Fprintf(w, "Repetitions\t%d\n", ex.Repetitions)
		if ex.Demo != "" {
			fmt.Fprintf(w, "Demo\t%s/exercise/demo/%s\n", gc.Config.Server.URL, ex.Demo)
		}
		w.Flush()
		return nil
	},
}
