package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/suggest"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantID   string
		wantErr  bool
	}{
		{"empty selects template", "", "template", false},
		{"template", "template", "template", false},
		{"openai", "openai", "openai:gpt-4o", false},
		{"unknown", "llama", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.provider, "")
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewProvider(%q) should fail", tt.provider)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider(%q): %v", tt.provider, err)
			}
			if p.ID() != tt.wantID {
				t.Errorf("ID = %q, want %q", p.ID(), tt.wantID)
			}
		})
	}
}

func TestGetDefaultProviderEnvOverride(t *testing.T) {
	t.Setenv("REVIEWDESK_AI_PROVIDER", "template")
	t.Setenv("REVIEWDESK_AI_MODEL", "")

	p, err := GetDefaultProvider("openai", "gpt-4o")
	if err != nil {
		t.Fatalf("GetDefaultProvider: %v", err)
	}
	if p.ID() != "template" {
		t.Errorf("ID = %q, want env override to win", p.ID())
	}
}

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) ID() string { return "counting" }

func (p *countingProvider) Suggest(ctx context.Context, req suggest.Request) (*suggest.Response, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &suggest.Response{Text: "ok"}, nil
}

func TestResilientProviderRetries(t *testing.T) {
	inner := &countingProvider{err: errors.New("transient")}
	p := NewResilientProvider(inner)

	req := suggest.Request{Review: &review.Review{ID: "rev-1", ReviewerName: "A", Rating: 3, Text: "x"}}
	if _, err := p.Suggest(context.Background(), req); err == nil {
		t.Fatal("exhausted retries should surface the error")
	}
	if inner.calls < 2 {
		t.Errorf("inner called %d times, want at least 2", inner.calls)
	}
	if p.ID() != "counting" {
		t.Errorf("ID = %q, want the inner provider's", p.ID())
	}
}

func TestResilientProviderPassthrough(t *testing.T) {
	inner := &countingProvider{}
	p := NewResilientProvider(inner)

	resp, err := p.Suggest(context.Background(), suggest.Request{Review: &review.Review{ID: "rev-1"}})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if resp.Text != "ok" || inner.calls != 1 {
		t.Errorf("resp = %+v, calls = %d", resp, inner.calls)
	}
}
