package application

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/events"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/profile"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
	"github.com/felixgeelhaar/reviewdesk/pkg/storage"
)

func seededStore(t *testing.T, reviews ...*review.Review) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.UpsertProfile(&profile.BusinessProfile{
		ID:   "prof-1",
		Name: "Corner Cafe",
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	for _, r := range reviews {
		if err := store.Upsert(r); err != nil {
			t.Fatalf("seed review %s: %v", r.ID, err)
		}
	}
	return store
}

func pendingReview(id, suggestion string) *review.Review {
	return &review.Review{
		ID:                id,
		BusinessProfileID: "prof-1",
		ReviewerName:      "Sarah Johnson",
		Rating:            5,
		Text:              "Best coffee in town.",
		CreatedAt:         time.Now(),
		Sentiment:         review.SentimentPositive,
		Status:            review.StatusPending,
		AISuggestion:      suggestion,
	}
}

func TestApprove(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", "Thanks, Sarah!"))
	svc := NewReviewService(store, nil, nil)

	got, err := svc.Approve("rev-1", "cli")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got.Status != review.StatusReplied {
		t.Errorf("status = %s, want replied", got.Status)
	}
	if got.ReplyText != "Thanks, Sarah!" {
		t.Errorf("reply text = %q, want the suggestion verbatim", got.ReplyText)
	}
	if !got.HasReply || got.ReplyCreatedAt == nil {
		t.Error("reply invariant fields not set")
	}

	stored, _ := store.Get("rev-1")
	if stored.Status != review.StatusReplied {
		t.Errorf("stored status = %s, want replied", stored.Status)
	}
}

func TestApproveWithoutSuggestion(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", ""))
	svc := NewReviewService(store, nil, nil)

	_, err := svc.Approve("rev-1", "cli")
	var ise *domain.InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("Approve without suggestion = %v, want InvalidStateError", err)
	}

	stored, _ := store.Get("rev-1")
	if stored.Status != review.StatusPending {
		t.Errorf("failed approve mutated status to %s", stored.Status)
	}
}

func TestApproveTwice(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", "Thanks!"))
	svc := NewReviewService(store, nil, nil)

	if _, err := svc.Approve("rev-1", "cli"); err != nil {
		t.Fatalf("first Approve: %v", err)
	}
	_, err := svc.Approve("rev-1", "cli")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("second Approve = %v, want ErrInvalidState", err)
	}
}

// laggedStore widens the window between reading a review and writing it back,
// so interleavings that are rare on a fast store become deterministic.
type laggedStore struct {
	*storage.MemoryStore
	delay time.Duration
}

func (s *laggedStore) Get(id string) (*review.Review, error) {
	r, err := s.MemoryStore.Get(id)
	time.Sleep(s.delay)
	return r, err
}

func TestConcurrentApprove(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", "Thanks!"))
	svc := NewReviewService(&laggedStore{MemoryStore: store, delay: 50 * time.Millisecond}, nil, nil)

	results := make(chan error, 2)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < 2; i++ {
		go func() {
			start.Wait()
			_, err := svc.Approve("rev-1", "cli")
			results <- err
		}()
	}
	start.Done()

	var ok, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInvalidState):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != 1 {
		t.Errorf("concurrent approves: %d succeeded, %d conflicted; want exactly one of each", ok, conflicts)
	}

	r, _ := store.Get("rev-1")
	if r.Status != review.StatusReplied {
		t.Errorf("status = %s, want replied", r.Status)
	}
}

func TestApproveUnknownReview(t *testing.T) {
	svc := NewReviewService(seededStore(t), nil, nil)
	_, err := svc.Approve("nope", "cli")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Approve(unknown) = %v, want ErrNotFound", err)
	}
}

func TestEditFlow(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", "Thanks for visiting!"))
	svc := NewReviewService(store, nil, nil)

	draft, err := svc.BeginEdit("rev-1")
	if err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if draft != "Thanks for visiting!" {
		t.Errorf("draft = %q, want the suggestion", draft)
	}
	if text, ok := svc.Draft("rev-1"); !ok || text != draft {
		t.Errorf("Draft = %q, %v", text, ok)
	}

	got, err := svc.SaveEdit("rev-1", "  Thanks for visiting, Sarah!  ", "tui")
	if err != nil {
		t.Fatalf("SaveEdit: %v", err)
	}
	if got.ReplyText != "Thanks for visiting, Sarah!" {
		t.Errorf("reply text = %q, want trimmed edit", got.ReplyText)
	}
	if got.Status != review.StatusReplied {
		t.Errorf("status = %s, want replied", got.Status)
	}
	if _, ok := svc.Draft("rev-1"); ok {
		t.Error("draft should be discarded after SaveEdit")
	}
}

func TestSaveEditEmptyText(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", "Thanks!"))
	svc := NewReviewService(store, nil, nil)

	if _, err := svc.BeginEdit("rev-1"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}

	_, err := svc.SaveEdit("rev-1", "   ", "tui")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "reply_text" {
		t.Fatalf("SaveEdit(blank) = %v, want ValidationError on reply_text", err)
	}

	stored, _ := store.Get("rev-1")
	if stored.Status != review.StatusPending {
		t.Errorf("failed save mutated status to %s", stored.Status)
	}
	if _, ok := svc.Draft("rev-1"); !ok {
		t.Error("failed save should leave the draft in place")
	}
}

func TestSaveEditWithoutBegin(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", "Thanks!"))
	svc := NewReviewService(store, nil, nil)

	_, err := svc.SaveEdit("rev-1", "hello", "tui")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("SaveEdit without BeginEdit = %v, want ErrInvalidState", err)
	}
}

func TestBeginEditNonPending(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", "Thanks!"))
	svc := NewReviewService(store, nil, nil)

	if _, err := svc.Approve("rev-1", "cli"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := svc.BeginEdit("rev-1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("BeginEdit(replied) = %v, want ErrInvalidState", err)
	}
}

func TestCancelEdit(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", "Thanks!"))
	svc := NewReviewService(store, nil, nil)

	if err := svc.CancelEdit("rev-1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("CancelEdit without draft = %v, want ErrInvalidState", err)
	}

	if _, err := svc.BeginEdit("rev-1"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if err := svc.CancelEdit("rev-1"); err != nil {
		t.Fatalf("CancelEdit: %v", err)
	}
	if _, ok := svc.Draft("rev-1"); ok {
		t.Error("draft should be gone after CancelEdit")
	}

	stored, _ := store.Get("rev-1")
	if stored.Status != review.StatusPending {
		t.Errorf("CancelEdit mutated status to %s", stored.Status)
	}
}

func TestIgnore(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", ""))
	svc := NewReviewService(store, nil, nil)

	got, err := svc.Ignore("rev-1", "cli")
	if err != nil {
		t.Fatalf("Ignore: %v", err)
	}
	if got.Status != review.StatusIgnored {
		t.Errorf("status = %s, want ignored", got.Status)
	}
	if got.HasReply || got.ReplyText != "" {
		t.Error("ignored review must not carry a reply")
	}

	if _, err := svc.Ignore("rev-1", "cli"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("second Ignore = %v, want ErrInvalidState", err)
	}
}

func TestLifecycleEmitsEvents(t *testing.T) {
	store := seededStore(t, pendingReview("rev-1", "Thanks!"), pendingReview("rev-2", ""))
	pub := storage.NewInMemoryEventPublisher()

	var types []string
	pub.Subscribe(func(e *events.BaseEvent) error {
		types = append(types, e.Type)
		return nil
	})

	svc := NewReviewService(store, nil, pub)
	if _, err := svc.Approve("rev-1", "cli"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := svc.Ignore("rev-2", "cli"); err != nil {
		t.Fatalf("Ignore: %v", err)
	}

	if len(types) != 2 || types[0] != events.TypeReviewReplied || types[1] != events.TypeReviewIgnored {
		t.Errorf("published types = %v", types)
	}
}

func TestListVisible(t *testing.T) {
	r1 := pendingReview("rev-1", "")
	r2 := pendingReview("rev-2", "Thanks!")
	store := seededStore(t, r1, r2)
	svc := NewReviewService(store, nil, nil)

	if _, err := svc.Approve("rev-2", "cli"); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	pending := svc.ListVisible("", review.FilterPending)
	if len(pending) != 1 || pending[0].ID != "rev-1" {
		t.Errorf("pending filter returned %d reviews", len(pending))
	}
	replied := svc.ListVisible("", review.FilterReplied)
	if len(replied) != 1 || replied[0].ID != "rev-2" {
		t.Errorf("replied filter returned %d reviews", len(replied))
	}
}
