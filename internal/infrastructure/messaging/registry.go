package messaging

import (
	"context"
	"fmt"
	"log"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/events"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/messaging"
)

// Registry creates messaging adapters from configuration.
type Registry struct {
	adapters []messaging.MessageAdapter
	configs  []messaging.AdapterConfig
}

// NewRegistry creates adapters from a MessagingConfig.
func NewRegistry(config *messaging.MessagingConfig) (*Registry, error) {
	if config == nil {
		return &Registry{}, nil
	}

	var adapters []messaging.MessageAdapter
	var configs []messaging.AdapterConfig
	for _, cfg := range config.Adapters {
		if !cfg.Enabled {
			continue
		}

		adapter, err := createAdapter(cfg)
		if err != nil {
			return nil, fmt.Errorf("create adapter %q: %w", cfg.Name, err)
		}
		adapters = append(adapters, adapter)
		configs = append(configs, cfg)
	}

	return &Registry{adapters: adapters, configs: configs}, nil
}

// Adapters returns all active adapters.
func (r *Registry) Adapters() []messaging.MessageAdapter {
	return r.adapters
}

// Notify fans an event out to every adapter whose filters match. Delivery is
// best-effort; a failing channel never blocks the review workflow.
func (r *Registry) Notify(ctx context.Context, event *events.BaseEvent) {
	for i, adapter := range r.adapters {
		if !r.configs[i].Matches(event.Type) {
			continue
		}
		if err := adapter.Send(ctx, event); err != nil {
			log.Printf("messaging: %s delivery failed: %v", adapter.Name(), err)
		}
	}
}

func createAdapter(cfg messaging.AdapterConfig) (messaging.MessageAdapter, error) {
	switch cfg.Type {
	case "webhook":
		return NewWebhookAdapter(cfg), nil
	case "slack":
		return NewSlackAdapter(cfg), nil
	default:
		return nil, fmt.Errorf("unknown adapter type: %s", cfg.Type)
	}
}
