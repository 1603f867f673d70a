// Package wiring assembles the stores, event plumbing, and application services
// for a workspace root. Every entry point (CLI, dashboard, MCP) builds the same
// graph through here.
package wiring

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/reviewdesk/internal/infrastructure/config"
	"github.com/felixgeelhaar/reviewdesk/internal/infrastructure/messaging"
	"github.com/felixgeelhaar/reviewdesk/pkg/ai"
	"github.com/felixgeelhaar/reviewdesk/pkg/application"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/events"
	"github.com/felixgeelhaar/reviewdesk/pkg/storage"
)

// AppServices exposes the application layer wired together for a workspace root.
type AppServices struct {
	Store      *storage.MemoryStore
	Events     *storage.FileEventStore
	Publisher  *storage.InMemoryEventPublisher
	Dispatcher *events.EventDispatcher
	Settings   *config.Settings

	Review   *application.ReviewService
	Ingest   *application.IngestService
	Insights *application.InsightsService
	Suggest  *application.SuggestService
}

// BuildAppServices constructs the service graph for a workspace root and loads
// the seed document, if present, into the in-memory store.
func BuildAppServices(root string) (*AppServices, error) {
	ws := storage.NewFilesystemWorkspace(root)

	settings, err := config.LoadSettings(root)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	eventStore, err := storage.NewFileEventStore(ws.Dir())
	if err != nil {
		return nil, fmt.Errorf("open event store: %w", err)
	}

	store := storage.NewMemoryStore()
	publisher := storage.NewInMemoryEventPublisher()

	ingestSvc := application.NewIngestService(store, eventStore, publisher)
	reviewSvc := application.NewReviewService(store, eventStore, publisher)
	insightsSvc := application.NewInsightsService(store)

	provider, err := ai.GetDefaultProvider(settings.AIProvider, settings.AIModel)
	if err != nil {
		return nil, fmt.Errorf("build AI provider: %w", err)
	}
	suggestSvc := application.NewSuggestService(store, ingestSvc, provider)
	suggestSvc.Tone = settings.Tone()
	suggestSvc.BusinessName = settings.BusinessName
	suggestSvc.Template = settings.Template

	registry, err := messaging.NewRegistry(settings.Messaging)
	if err != nil {
		return nil, fmt.Errorf("build messaging adapters: %w", err)
	}

	// All event-driven reactions hang off one dispatcher so handler order is
	// deterministic and a failing handler cannot silence the others.
	dispatcher := events.NewEventDispatcher()
	dispatcher.ContinueOnError = true

	if len(registry.Adapters()) > 0 {
		dispatcher.RegisterWildcard("messaging", func(ctx context.Context, e events.DomainEvent) error {
			if be, ok := e.(*events.BaseEvent); ok {
				registry.Notify(ctx, be)
			}
			return nil
		})
	}
	if settings.AutoApprove {
		dispatcher.RegisterHandler("auto-approve", func(ctx context.Context, e events.DomainEvent) error {
			_, err := reviewSvc.Approve(e.AggregateID(), "auto-approve")
			return err
		}, events.TypeSuggestionAttached)
	}

	publisher.Subscribe(func(e *events.BaseEvent) error {
		return dispatcher.Dispatch(context.Background(), e)
	})

	// The stores are memory-only; the seed file is how a workspace gets data
	// back after a restart without a live feed.
	if data, err := ws.ReadFile(storage.SeedFile); err == nil && data != nil {
		if _, err := ingestSvc.IngestYAML(data, "seed"); err != nil {
			return nil, fmt.Errorf("load seed data: %w", err)
		}
	}

	return &AppServices{
		Store:      store,
		Events:     eventStore,
		Publisher:  publisher,
		Dispatcher: dispatcher,
		Settings:   settings,
		Review:     reviewSvc,
		Ingest:     ingestSvc,
		Insights:   insightsSvc,
		Suggest:    suggestSvc,
	}, nil
}
