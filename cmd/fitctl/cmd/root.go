package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/fitlog/fitctl/cmd/fitctl/cmd/auth"
	"github.com/fitlog/fitctl/cmd/fitctl/cmd/exercise"
	"github.com/fitlog/fitctl/cmd/fitctl/cmd/history"
	"github.com/fitlog/fitctl/cmd/fitctl/cmd/profile"
	"github.com/fitlog/fitctl/internal/client"
	"github.com/fitlog/fitctl/internal/config"
)

var (
	serverURL      string
	configPath     string
	stateDir       string
	nonInteractive bool
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "fitctl",
	Short: "FitLog CLI - workout tracking client",
	Long: `fitctl is the command-line client for FitLog, a workout-tracking
service. Use it to sign in, browse exercises by muscle group, log completed
exercises, and review your workout history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Check for FITCTL_NON_INTERACTIVE environment variable
		if os.Getenv("FITCTL_NON_INTERACTIVE") == "1" {
			nonInteractive = true
		}

		path := configPath
		if path == "" {
			path = config.DefaultFile()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if serverURL != "" {
			cfg.Server.URL = serverURL
		}
		if stateDir != "" {
			cfg.State.Dir = stateDir
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		logger := hclog.New(&hclog.LoggerOptions{
			Name:   "fitctl",
			Level:  hclog.LevelFromString(cfg.Log.Level),
			Output: os.Stderr,
		})

		provider := client.NewProvider(cfg.Server.URL,
			client.WithTimeout(cfg.Server.Timeout),
			client.WithStateDir(cfg.State.Dir),
			client.WithLogger(logger),
		)

		cmd.SetContext(config.InjectConfig(cmd.Context(), &config.GlobalConfig{
			Config:         cfg,
			NonInteractive: nonInteractive,
			Provider:       provider,
		}))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if gc, ok := config.FromContext(cmd.Context()); ok {
			gc.Provider.Close()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "FitLog API server URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.fitctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Session state directory (default ~/.fitctl)")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Disable interactive prompts (also set via FITCTL_NON_INTERACTIVE=1)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(exercise.ExerciseCmd)
	rootCmd.AddCommand(history.HistoryCmd)
	rootCmd.AddCommand(profile.ProfileCmd)
	rootCmd.AddCommand(registerCmd)
}
