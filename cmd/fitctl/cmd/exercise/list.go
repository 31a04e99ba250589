package exercise

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/internal/config"
)

var listGroup string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List exercises for a muscle group",
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())

		if listGroup == "" {
			return fmt.Errorf("--group is required (see `fitctl exercise groups`)")
		}

		api, err := gc.Provider.SDKClient()
		if err != nil {
			return err
		}

		exercises, err := api.ListExercisesByGroup(cmd.Context(), listGroup)
		if err != nil {
			return err
		}

		pterm.DefaultSection.Printf("Exercises: %s\n", listGroup)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSERIES\tREPS")
		for _, ex := range exercises {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", ex.ID, ex.Name, ex.Series, ex.Repetitions)
		}
		w.Flush()
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listGroup, "group", "", "Muscle group to list")
}
