package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Ingester applies one feed document. Implemented by the ingest service.
type Ingester interface {
	IngestJSON(data []byte, actor string) (int, error)
	IngestYAML(data []byte, actor string) (int, error)
}

// IngestWatcher watches a drop directory with fsnotify and feeds new documents
// into the ingester. Processed files are renamed with a .done suffix so a
// restart never double-ingests; failed ones get .failed and are left for
// inspection.
type IngestWatcher struct {
	dir      string
	ingester Ingester
	watcher  *fsnotify.Watcher
	debounce time.Duration
	// OnIngest is called after each processed file, mainly for logging/tests.
	OnIngest func(path string, records int, err error)
}

// NewIngestWatcher creates a watcher for the given drop directory.
func NewIngestWatcher(dir string, ingester Ingester, debounce time.Duration) (*IngestWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &IngestWatcher{
		dir:      dir,
		ingester: ingester,
		watcher:  w,
		debounce: debounce,
	}, nil
}

// Run processes anything already in the directory, then blocks ingesting new
// drops until the context is cancelled.
func (w *IngestWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return fmt.Errorf("create drop directory: %w", err)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	// Catch up on files dropped while nothing was watching
	w.Sweep()

	debouncer := NewDebouncer(w.debounce, w.Sweep)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !isFeedFile(event.Name) {
				continue
			}
			debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// Sweep ingests every unprocessed feed file currently in the directory, oldest
// name first for deterministic ordering.
func (w *IngestWatcher) Sweep() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		log.Printf("read drop directory: %v", err)
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isFeedFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(w.dir, name)
		records, err := w.ingestFile(path)
		if w.OnIngest != nil {
			w.OnIngest(path, records, err)
		}
		if err != nil {
			log.Printf("ingest %s: %v", path, err)
			_ = os.Rename(path, path+".failed")
			continue
		}
		log.Printf("ingested %s: %d record(s)", path, records)
		_ = os.Rename(path, path+".done")
	}
}

func (w *IngestWatcher) ingestFile(path string) (int, error) {
	// #nosec G304 -- Path comes from listing the configured drop directory
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if strings.HasSuffix(path, ".json") {
		return w.ingester.IngestJSON(data, "feed:"+filepath.Base(path))
	}
	return w.ingester.IngestYAML(data, "feed:"+filepath.Base(path))
}

func isFeedFile(name string) bool {
	switch filepath.Ext(name) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
