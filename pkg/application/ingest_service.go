package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/events"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/profile"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
	"github.com/felixgeelhaar/reviewdesk/pkg/storage"
)

// batchSchemaJSON validates JSON ingest batches before any record touches the
// store, so a malformed feed document is rejected whole.
const batchSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "profiles": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id": { "type": "string" },
          "name": { "type": "string" },
          "address": { "type": "string" },
          "review_count": { "type": "integer", "minimum": 0 },
          "average_rating": { "type": "number", "minimum": 0, "maximum": 5 }
        }
      }
    },
    "reviews": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["business_profile_id", "reviewer_name", "rating", "text"],
        "properties": {
          "id": { "type": "string" },
          "business_profile_id": { "type": "string" },
          "reviewer_name": { "type": "string" },
          "rating": { "type": "integer", "minimum": 1, "maximum": 5 },
          "text": { "type": "string", "minLength": 1 },
          "sentiment": { "enum": ["positive", "neutral", "negative", ""] },
          "status": { "enum": ["pending", "replied", "ignored", ""] }
        }
      }
    }
  }
}`

var batchSchemaLoader = gojsonschema.NewStringLoader(batchSchemaJSON)

// Batch is one ingest document: profiles first, then the reviews that reference
// them.
type Batch struct {
	Profiles []*profile.BusinessProfile `json:"profiles" yaml:"profiles"`
	Reviews  []*review.Review           `json:"reviews" yaml:"reviews"`
}

// IngestService is the in-process stand-in for the external sync/ingestion
// collaborator: it delivers complete profile and review records into the store
// and attaches AI suggestions to pending reviews.
type IngestService struct {
	store     *storage.MemoryStore
	events    events.EventStore
	publisher events.EventPublisher
}

func NewIngestService(store *storage.MemoryStore, eventStore events.EventStore, publisher events.EventPublisher) *IngestService {
	return &IngestService{store: store, events: eventStore, publisher: publisher}
}

// ListProfiles returns the connected profiles in feed order.
func (s *IngestService) ListProfiles() []*profile.BusinessProfile {
	return s.store.ListProfiles()
}

// UpsertProfile delivers a profile record from the sync feed.
func (s *IngestService) UpsertProfile(p *profile.BusinessProfile, actor string) error {
	if err := s.store.UpsertProfile(p); err != nil {
		return err
	}
	s.record(events.NewProfileSynced(p.ID, p.ReviewCount, actor))
	return nil
}

// UpsertReview delivers a review record. Records without an id are assigned one;
// records without a status start pending.
func (s *IngestService) UpsertReview(r *review.Review, actor string) error {
	if r == nil {
		return &domain.ValidationError{Field: "review", Reason: "cannot be nil"}
	}
	if strings.TrimSpace(r.ID) == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = review.StatusPending
	}
	if r.Sentiment == "" {
		r.Sentiment = review.SentimentNeutral
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	if err := s.store.Upsert(r); err != nil {
		return err
	}
	s.record(events.NewReviewIngested(r.ID, r.Rating, r.Sentiment, actor))
	return nil
}

// SetSuggestion attaches a candidate reply delivered by the AI collaborator.
// Suggestions only make sense on pending reviews; anything else is an
// InvalidStateError.
func (s *IngestService) SetSuggestion(reviewID string, text string, providerID string, actor string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &domain.ValidationError{Field: "ai_suggestion", Reason: "cannot be empty"}
	}

	r, err := s.store.Get(reviewID)
	if err != nil {
		return err
	}
	if r.Status != review.StatusPending {
		return &domain.InvalidStateError{ReviewID: reviewID, Status: r.Status.String(), Event: "suggest"}
	}

	r.AISuggestion = trimmed
	if err := s.store.Upsert(r); err != nil {
		return err
	}
	s.record(events.NewSuggestionAttached(reviewID, providerID, actor))
	return nil
}

// SyncProfile simulates a completed connection flow: the profile is stamped
// connected with a fresh sync time. No real OAuth happens anywhere in this tool.
func (s *IngestService) SyncProfile(profileID string, actor string) (*profile.BusinessProfile, error) {
	p, err := s.store.GetProfile(profileID)
	if err != nil {
		return nil, err
	}
	p.MarkSynced(time.Now())
	if err := s.store.UpsertProfile(p); err != nil {
		return nil, err
	}
	s.record(events.NewProfileSynced(p.ID, p.ReviewCount, actor))
	return p, nil
}

// IngestJSON validates a JSON batch document against the ingest schema and
// applies it, profiles before reviews.
func (s *IngestService) IngestJSON(data []byte, actor string) (int, error) {
	result, err := gojsonschema.Validate(batchSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return 0, fmt.Errorf("validate batch: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return 0, &domain.ValidationError{Field: "batch", Reason: strings.Join(msgs, "; ")}
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return 0, fmt.Errorf("unmarshal batch: %w", err)
	}
	return s.apply(&batch, actor)
}

// IngestYAML applies a YAML batch document. YAML batches come from the local
// seed file rather than a feed, so schema validation is skipped in favor of the
// domain validation every record passes through anyway.
func (s *IngestService) IngestYAML(data []byte, actor string) (int, error) {
	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return 0, fmt.Errorf("unmarshal batch: %w", err)
	}
	return s.apply(&batch, actor)
}

func (s *IngestService) apply(batch *Batch, actor string) (int, error) {
	applied := 0
	for _, p := range batch.Profiles {
		if err := s.UpsertProfile(p, actor); err != nil {
			return applied, err
		}
		applied++
	}
	for _, r := range batch.Reviews {
		if err := s.UpsertReview(r, actor); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

func (s *IngestService) record(e *events.BaseEvent) {
	if s.events != nil {
		_ = s.events.Append(e)
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(e)
	}
}
