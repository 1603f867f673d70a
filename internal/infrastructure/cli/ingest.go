package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/reviewdesk/internal/infrastructure/watch"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Load a feed file of profiles and reviews",
	Long: `Load a feed file of profiles and reviews into the store.

JSON feeds are validated against the feed schema before loading; YAML feeds
are parsed directly. Records are upserted by id, so re-ingesting a feed is
safe.

Examples:
  reviewdesk ingest reviews.json
  reviewdesk ingest seed.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read feed file: %w", err)
		}

		actor := "feed:" + filepath.Base(args[0])
		var n int
		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".json":
			n, err = services.Ingest.IngestJSON(data, actor)
		case ".yaml", ".yml":
			n, err = services.Ingest.IngestYAML(data, actor)
		default:
			return fmt.Errorf("unsupported feed format %q (want .json, .yaml or .yml)", filepath.Ext(args[0]))
		}
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("Ingested %d record(s) from %s\n", n, args[0])
		return nil
	},
}

var ingestWatchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and ingest feed files as they arrive",
	Long: `Watch a directory and ingest feed files as they arrive.

Files are processed after a short quiet period so partially written feeds are
not picked up. Processed files are renamed with a .done suffix, failed ones
with .failed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		watcher, err := watch.NewIngestWatcher(args[0], services.Ingest, watchDebounce)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}

		fmt.Printf("Watching %s for feed files... (ctrl+c to stop)\n", args[0])
		return watcher.Run(cmd.Context())
	},
}

func init() {
	ingestWatchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Quiet period before a changed directory is swept")
	ingestCmd.AddCommand(ingestWatchCmd)
	RootCmd.AddCommand(ingestCmd)
}
