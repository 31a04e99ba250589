package profile

import "github.com/spf13/cobra"

// ProfileCmd is the parent command for profile operations
var ProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and update your profile",
}

func init() {
	ProfileCmd.AddCommand(showCmd)
	ProfileCmd.AddCommand(updateCmd)
}
