package ai

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/suggest"
)

// suggestTimeout bounds one generation call end to end, retries included.
// The lifecycle core never waits on this; only the suggestion collaborator does.
const suggestTimeout = 60 * time.Second

type ResilientProvider struct {
	inner suggest.Provider
}

func NewResilientProvider(inner suggest.Provider) *ResilientProvider {
	return &ResilientProvider{inner: inner}
}

func (p *ResilientProvider) ID() string {
	return p.inner.ID()
}

func (p *ResilientProvider) Suggest(ctx context.Context, req suggest.Request) (*suggest.Response, error) {
	r := retry.New[*suggest.Response](retry.Config{
		MaxAttempts:   2,
		InitialDelay:  time.Second,
		BackoffPolicy: retry.BackoffExponential,
	})

	t := timeout.New[*suggest.Response](timeout.Config{
		DefaultTimeout: suggestTimeout,
	})

	return t.Execute(ctx, suggestTimeout, func(ctx context.Context) (*suggest.Response, error) {
		return r.Do(ctx, func(ctx context.Context) (*suggest.Response, error) {
			return p.inner.Suggest(ctx, req)
		})
	})
}
