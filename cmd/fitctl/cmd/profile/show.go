package profile

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/internal/config"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the signed-in user's profile",
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

		pterm.DefaultSection.Println("Profile")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Name\t%s\n", state.User.Name)
		fmt.Fprintf(w, "Email\t%s\n", state.User.Email)
		fmt.Fprintf(w, "ID\t%s\n", state.User.ID)
		if state.User.Avatar != "" {
			fmt.Fprintf(w, "Avatar\t%s\n", state.User.Avatar)
		}
		w.Flush()
		return nil
	},
}
