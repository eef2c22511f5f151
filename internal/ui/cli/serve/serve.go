package serve

import (
	"github.com/spf13/cobra"

	"github.com/nvasko/loom/internal/appState"
	"github.com/nvasko/loom/internal/server"
	"github.com/nvasko/loom/internal/shared"
)

var portFlag int

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run API over HTTP",
	Long:  `Start an HTTP server where POST /api/runs queues a chain run and GET /api/runs/:id reports its status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := shared.InitializePipelineService()
		if err != nil {
			return err
		}

		port := portFlag
		if port == 0 {
			port = appState.Get().Config.Server.Port
		}

		srv := server.New(svc, svc.Repo())
		return srv.Listen(cmd.Context(), port)
	},
}

func init() {
	ServeCmd.Flags().IntVarP(&portFlag, "port", "p", 0, "Port to listen on (defaults to config)")
}
