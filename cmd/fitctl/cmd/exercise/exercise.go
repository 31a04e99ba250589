package exercise

import "github.com/spf13/cobra"

// ExerciseCmd is the parent command for exercise operations
var ExerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Browse and log exercises",
}

func init() {
	ExerciseCmd.AddCommand(groupsCmd)
	ExerciseCmd.AddCommand(listCmd)
	ExerciseCmd.AddCommand(showCmd)
	ExerciseCmd.AddCommand(logCmd)
}
