package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nguyentranbao-ct/reuse/internal/app"
	"github.com/nguyentranbao-ct/reuse/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend for the app",
	Long: `Serve the /api/v1 product, auth and listing routes, /health and /metrics on the
configured address (SERVER_ADDR).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(conf, []any{server.StartServer}).Run()
	},
}
