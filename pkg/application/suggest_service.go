package application

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/suggest"
	"github.com/felixgeelhaar/reviewdesk/pkg/storage"
)

// SuggestService drives the AI suggestion collaborator. It generates candidate
// replies outside the lifecycle core and delivers them through the ingest
// service's SetSuggestion, so the lifecycle never blocks on a provider call.
type SuggestService struct {
	store    *storage.MemoryStore
	ingest   *IngestService
	provider suggest.Provider

	// Reply settings applied to every generation.
	Tone         suggest.Tone
	BusinessName string
	Template     string
}

func NewSuggestService(store *storage.MemoryStore, ingest *IngestService, provider suggest.Provider) *SuggestService {
	return &SuggestService{
		store:    store,
		ingest:   ingest,
		provider: provider,
		Tone:     suggest.ToneProfessional,
	}
}

// Generate drafts a suggestion for one pending review and attaches it.
func (s *SuggestService) Generate(ctx context.Context, reviewID string) (string, error) {
	r, err := s.store.Get(reviewID)
	if err != nil {
		return "", err
	}

	businessName := s.BusinessName
	if businessName == "" {
		if p, err := s.store.GetProfile(r.BusinessProfileID); err == nil {
			businessName = p.Name
		}
	}

	resp, err := s.provider.Suggest(ctx, suggest.Request{
		Review:       r,
		BusinessName: businessName,
		Tone:         s.Tone,
		Template:     s.Template,
	})
	if err != nil {
		return "", fmt.Errorf("generate suggestion: %w", err)
	}

	if err := s.ingest.SetSuggestion(reviewID, resp.Text, s.provider.ID(), "ai-collaborator"); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// GenerateMissing drafts suggestions for every pending review that has none.
// Returns the ids that received a suggestion; the first provider error stops the
// run.
func (s *SuggestService) GenerateMissing(ctx context.Context) ([]string, error) {
	var done []string
	for _, r := range s.store.List() {
		if r.Status != review.StatusPending || r.AISuggestion != "" {
			continue
		}
		if _, err := s.Generate(ctx, r.ID); err != nil {
			return done, err
		}
		done = append(done, r.ID)
	}
	return done, nil
}
