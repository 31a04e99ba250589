package history

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/internal/config"
)

// HistoryCmd displays the workout history grouped by day.
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your workout history",
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := config.MustFromContext(cmd.Context())

		api, err := gc.Provider.SDKClient()
		if err != nil {
			return err
		}

		days, err := api.ListHistory(cmd.Context())
		if err != nil {
			return err
		}

		if len(days) == 0 {
			pterm.Info.Println("No exercises logged yet. Record one with `fitctl exercise log`.")
			return nil
		}

		for _, day := range days {
			pterm.DefaultSection.Println(day.Title)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, entry := range day.Entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Hour, entry.Group, entry.Name)
			}
			w.Flush()
		}
		return nil
	},
}
