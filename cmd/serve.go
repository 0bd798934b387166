package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/conflow/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the preview HTTP API and the metrics endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Serve(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
