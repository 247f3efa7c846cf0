package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"vocalab-users/cmd/api/app"
	"vocalab-users/cmd/api/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gRPC and HTTP servers until SIGINT or SIGTERM",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := app.New(configPath)
	if err != nil {
		return err
	}

	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	return a.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
