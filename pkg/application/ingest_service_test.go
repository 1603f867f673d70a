package application

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/profile"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
	"github.com/felixgeelhaar/reviewdesk/pkg/storage"
)

func TestUpsertReviewDefaults(t *testing.T) {
	store := seededStore(t)
	svc := NewIngestService(store, nil, nil)

	r := &review.Review{
		BusinessProfileID: "prof-1",
		ReviewerName:      "Mike Chen",
		Rating:            4,
		Text:              "Solid lunch spot.",
	}
	if err := svc.UpsertReview(r, "feed"); err != nil {
		t.Fatalf("UpsertReview: %v", err)
	}

	if r.ID == "" {
		t.Error("missing id should be assigned")
	}
	if r.Status != review.StatusPending {
		t.Errorf("status = %s, want pending default", r.Status)
	}
	if r.Sentiment != review.SentimentNeutral {
		t.Errorf("sentiment = %s, want neutral default", r.Sentiment)
	}
	if r.CreatedAt.IsZero() {
		t.Error("created_at should be stamped")
	}
}

func TestUpsertReviewNil(t *testing.T) {
	svc := NewIngestService(seededStore(t), nil, nil)
	if err := svc.UpsertReview(nil, "feed"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("UpsertReview(nil) = %v, want ErrValidation", err)
	}
}

func TestSetSuggestion(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", ""))
	svc := NewIngestService(store, nil, nil)

	if err := svc.SetSuggestion("rev-1", "  Thank you for the kind words!  ", "template", "ai-collaborator"); err != nil {
		t.Fatalf("SetSuggestion: %v", err)
	}
	r, _ := store.Get("rev-1")
	if r.AISuggestion != "Thank you for the kind words!" {
		t.Errorf("suggestion = %q, want trimmed text", r.AISuggestion)
	}
	if r.Status != review.StatusPending {
		t.Errorf("SetSuggestion mutated status to %s", r.Status)
	}
}

func TestSetSuggestionNonPending(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", "Thanks!"))
	reviewSvc := NewReviewService(store, nil, nil)
	if _, err := reviewSvc.Approve("rev-1", "cli"); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	svc := NewIngestService(store, nil, nil)
	err := svc.SetSuggestion("rev-1", "too late", "template", "ai-collaborator")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("SetSuggestion(replied) = %v, want ErrInvalidState", err)
	}
}

func TestSetSuggestionEmpty(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", ""))
	svc := NewIngestService(store, nil, nil)
	err := svc.SetSuggestion("rev-1", "   ", "template", "ai-collaborator")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("SetSuggestion(blank) = %v, want ErrValidation", err)
	}
}

func TestSyncProfile(t *testing.T) {
	store := seededStore(t)
	svc := NewIngestService(store, nil, nil)

	p, err := svc.SyncProfile("prof-1", "cli")
	if err != nil {
		t.Fatalf("SyncProfile: %v", err)
	}
	if !p.IsConnected || p.LastSyncAt == nil {
		t.Error("SyncProfile should mark the profile connected with a sync time")
	}

	if _, err := svc.SyncProfile("nope", "cli"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SyncProfile(unknown) = %v, want ErrNotFound", err)
	}
}

func TestIngestJSON(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewIngestService(store, nil, nil)

	doc := []byte(`{
		"profiles": [
			{"id": "prof-1", "name": "Corner Cafe", "address": "12 High St", "review_count": 127, "average_rating": 4.3}
		],
		"reviews": [
			{"id": "rev-1", "business_profile_id": "prof-1", "reviewer_name": "Sarah Johnson", "rating": 5, "text": "Best coffee in town.", "sentiment": "positive"}
		]
	}`)

	applied, err := svc.IngestJSON(doc, "feed:reviews.json")
	if err != nil {
		t.Fatalf("IngestJSON: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	r, err := store.Get("rev-1")
	if err != nil {
		t.Fatalf("Get after ingest: %v", err)
	}
	if r.Status != review.StatusPending || r.Sentiment != review.SentimentPositive {
		t.Errorf("ingested review = %s/%s", r.Status, r.Sentiment)
	}
	if len(store.ListProfiles()) != 1 {
		t.Error("profile not ingested")
	}
}

func TestIngestJSONRejectsInvalidBatch(t *testing.T) {
	svc := NewIngestService(storage.NewMemoryStore(), nil, nil)

	tests := []struct {
		name string
		doc  string
	}{
		{"rating out of range", `{"reviews": [{"business_profile_id": "prof-1", "reviewer_name": "A", "rating": 6, "text": "x"}]}`},
		{"missing reviewer", `{"reviews": [{"business_profile_id": "prof-1", "rating": 3, "text": "x"}]}`},
		{"empty text", `{"reviews": [{"business_profile_id": "prof-1", "reviewer_name": "A", "rating": 3, "text": ""}]}`},
		{"bad sentiment", `{"reviews": [{"business_profile_id": "prof-1", "reviewer_name": "A", "rating": 3, "text": "x", "sentiment": "angry"}]}`},
		{"profile missing name", `{"profiles": [{"id": "prof-1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied, err := svc.IngestJSON([]byte(tt.doc), "feed")
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("IngestJSON = %v, want ErrValidation", err)
			}
			if applied != 0 {
				t.Errorf("invalid batch applied %d records", applied)
			}
		})
	}
}

func TestIngestYAML(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewIngestService(store, nil, nil)

	doc := []byte(`
profiles:
  - id: prof-1
    name: Corner Cafe
    review_count: 12
reviews:
  - id: rev-1
    business_profile_id: prof-1
    reviewer_name: Emma Wilson
    rating: 2
    text: Long wait at lunch.
    sentiment: negative
`)

	applied, err := svc.IngestYAML(doc, "seed")
	if err != nil {
		t.Fatalf("IngestYAML: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	r, err := store.Get("rev-1")
	if err != nil {
		t.Fatalf("Get after ingest: %v", err)
	}
	if r.Sentiment != review.SentimentNegative {
		t.Errorf("sentiment = %s, want negative", r.Sentiment)
	}
}

func TestIngestReviewForUnknownProfile(t *testing.T) {
	svc := NewIngestService(storage.NewMemoryStore(), nil, nil)

	doc := []byte(`{"reviews": [{"business_profile_id": "ghost", "reviewer_name": "A", "rating": 3, "text": "x"}]}`)
	_, err := svc.IngestJSON(doc, "feed")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("ingest against unknown profile = %v, want ErrValidation", err)
	}
}

func TestListProfilesOrder(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewIngestService(store, nil, nil)

	for _, id := range []string{"prof-b", "prof-a", "prof-c"} {
		if err := svc.UpsertProfile(&profile.BusinessProfile{ID: id, Name: id}, "feed"); err != nil {
			t.Fatalf("UpsertProfile: %v", err)
		}
	}

	got := svc.ListProfiles()
	if len(got) != 3 || got[0].ID != "prof-b" || got[2].ID != "prof-c" {
		t.Errorf("ListProfiles order: %v", got)
	}
}
