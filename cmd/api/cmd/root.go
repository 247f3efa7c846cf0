package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"vocalab-users/cmd/api/app"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "vocalab-users",
	Short: "VocaLab user profile service",
	Long: `vocalab-users stores user profile records and serves them over gRPC and REST.

Running it without a subcommand is the same as "vocalab-users serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", app.ConfigPath(),
		"directory containing app.env (defaults to $CONFIG_PATH or the working directory)")
}
