package cli

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/reviewdesk/internal/infrastructure/sse"
	"github.com/felixgeelhaar/reviewdesk/internal/infrastructure/watch"
	"github.com/felixgeelhaar/reviewdesk/pkg/infrastructure/dashboard"
	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveFeedDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	Long: `Start the web dashboard.

Serves the review inbox, analytics and a JSON API on the given address.
Live updates stream to /events over SSE. With --feed-dir, feed files dropped
into the directory are ingested automatically while the server runs.

Examples:
  reviewdesk serve
  reviewdesk serve --addr :9000 --feed-dir ./feeds`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		events := sse.NewSSEHandler(services.Publisher)
		server, err := dashboard.NewServer(serveAddr, services.Review, services.Insights, services.Store.Profiles(), events)
		if err != nil {
			return fmt.Errorf("build dashboard: %w", err)
		}

		if serveFeedDir != "" {
			watcher, err := watch.NewIngestWatcher(serveFeedDir, services.Ingest, 500*time.Millisecond)
			if err != nil {
				return fmt.Errorf("start feed watcher: %w", err)
			}
			go func() {
				if err := watcher.Run(cmd.Context()); err != nil {
					fmt.Printf("Feed watcher stopped: %v\n", err)
				}
			}()
			fmt.Printf("Watching %s for feed files\n", serveFeedDir)
		}

		fmt.Printf("Dashboard listening on http://localhost%s\n", serveAddr)
		return server.Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address for the dashboard")
	serveCmd.Flags().StringVar(&serveFeedDir, "feed-dir", "", "Directory to watch for feed files")
	RootCmd.AddCommand(serveCmd)
}
