package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vocalab-users/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the service name and version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", cfg.Logger.ServiceName, cfg.Logger.ServiceVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
