package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/clockstore/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the diagnostics server",
	Long: `Start the diagnostics HTTP server.

/metrics is open for scraping. /api/v1/health, /api/v1/stats and
/api/v1/config need the X-API-Key header. With api_key set to "auto" a
key is generated for this run and printed.

Examples:
  clockstore serve
  clockstore serve --port=9400`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := container.GetConfig()
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cfg.Server.APIKey == "" || cfg.Server.APIKey == "auto" {
			key, err := config.GenerateSecureKey(32)
			if err != nil {
				return err
			}
			cfg.Server.APIKey = key
			noteColor.Fprintf(cmd.OutOrStdout(), "Generated API key for this run: %s\n", key)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		server := container.NewAPIServer()
		okColor.Fprintf(cmd.OutOrStdout(), "Metrics available at: http://%s/metrics\n", server.Addr())
		return server.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 9300, "Port to listen on")
}
