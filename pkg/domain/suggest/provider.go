// Package suggest defines the contract for AI reply-suggestion backends.
// Generation happens outside the reply lifecycle; results are attached to pending
// reviews through the ingest service, never awaited inside a transition.
package suggest

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
)

// Tone selects the register of a generated reply.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneCasual       Tone = "casual"
)

// IsValid returns true if the tone is a known value.
func (t Tone) IsValid() bool {
	switch t {
	case ToneProfessional, ToneFriendly, ToneCasual:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tone.
func (t Tone) String() string {
	return string(t)
}

// ParseTone parses a string into a Tone. The empty string means professional.
func ParseTone(s string) (Tone, error) {
	if s == "" {
		return ToneProfessional, nil
	}
	tone := Tone(s)
	if !tone.IsValid() {
		return "", fmt.Errorf("invalid tone: %s", s)
	}
	return tone, nil
}

// Request carries everything a backend needs to draft a reply.
type Request struct {
	Review       *review.Review
	BusinessName string
	Tone         Tone
	// Template, when set, overrides the backend's own phrasing. {reviewer} and
	// {business} placeholders are substituted.
	Template  string
	MaxTokens int
}

// Response is a drafted candidate reply.
type Response struct {
	Text  string
	Model string
	Usage TokenUsage
}

// TokenUsage tracks costs.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Provider is the interface for all suggestion backends.
type Provider interface {
	ID() string
	Suggest(ctx context.Context, req Request) (*Response, error)
}
