// Package application wires the domain into use cases: the reply lifecycle, the
// ingestion feed, suggestion generation, and the metrics reporter.
package application

import (
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/events"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
)

// ReviewService is the reply lifecycle manager. It owns the drafting edit
// buffers, which are session-local state keyed by review id and never stored on
// the review itself.
type ReviewService struct {
	store     review.Repository
	events    events.EventStore
	publisher events.EventPublisher

	mu     sync.Mutex
	drafts map[string]string

	// writeMu serializes the read-validate-write window of every transition.
	// The store's own mutex covers single calls; without this, two concurrent
	// approves could both validate against the same pending clone.
	writeMu sync.Mutex
}

// NewReviewService creates the lifecycle manager. The event store and publisher
// may be nil in tests; transitions then mutate the store silently.
func NewReviewService(store review.Repository, eventStore events.EventStore, publisher events.EventPublisher) *ReviewService {
	return &ReviewService{
		store:     store,
		events:    eventStore,
		publisher: publisher,
		drafts:    make(map[string]string),
	}
}

// ListVisible returns the reviews matching a search query and filter tag, in
// store order.
func (s *ReviewService) ListVisible(query string, tag review.FilterTag) []*review.Review {
	return review.VisibleSlice(s.store.List(), query, tag)
}

// Get returns a single review.
func (s *ReviewService) Get(id string) (*review.Review, error) {
	return s.store.Get(id)
}

// Approve posts the AI suggestion verbatim as the reply. Valid only from pending
// with a suggestion present; anything else is an InvalidStateError, never a
// silent success.
func (s *ReviewService) Approve(id string, actor string) (*review.Review, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	r, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	guard := func(string, string) bool { return r.AISuggestion != "" }
	if err := s.transition(r, review.EventApprove, guard); err != nil {
		return nil, err
	}

	r.PostReply(r.AISuggestion, time.Now())
	if err := s.store.Upsert(r); err != nil {
		return nil, err
	}

	s.record(events.NewReviewReplied(r.ID, review.EventApprove, actor))
	return r, nil
}

// BeginEdit moves the review into drafting, seeding the edit buffer with the
// current AI suggestion (or an empty string if absent). The stored review is not
// mutated.
func (s *ReviewService) BeginEdit(id string) (string, error) {
	r, err := s.store.Get(id)
	if err != nil {
		return "", err
	}
	if r.Status != review.StatusPending {
		return "", &domain.InvalidStateError{ReviewID: id, Status: r.Status.String(), Event: "edit"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[id] = r.AISuggestion
	return r.AISuggestion, nil
}

// Draft returns the current edit buffer, if any.
func (s *ReviewService) Draft(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.drafts[id]
	return text, ok
}

// SaveEdit posts the buffered text as the reply. Valid only while drafting;
// empty or whitespace-only text is a ValidationError and leaves both the review
// and the buffer unchanged.
func (s *ReviewService) SaveEdit(id string, text string, actor string) (*review.Review, error) {
	s.mu.Lock()
	_, drafting := s.drafts[id]
	s.mu.Unlock()
	if !drafting {
		return nil, &domain.InvalidStateError{ReviewID: id, Status: "not drafting", Event: review.EventReply}
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &domain.ValidationError{Field: "reply_text", Reason: "cannot be empty"}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	r, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(r, review.EventReply, nil); err != nil {
		return nil, err
	}

	r.PostReply(trimmed, time.Now())
	if err := s.store.Upsert(r); err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()

	s.record(events.NewReviewReplied(r.ID, review.EventReply, actor))
	return r, nil
}

// CancelEdit discards the edit buffer; the review remains pending.
func (s *ReviewService) CancelEdit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return &domain.InvalidStateError{ReviewID: id, Status: "not drafting", Event: "cancel"}
	}
	delete(s.drafts, id)
	return nil
}

// Ignore soft-dismisses a pending review. The review is kept; no reply exists.
func (s *ReviewService) Ignore(id string, actor string) (*review.Review, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	r, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(r, review.EventIgnore, nil); err != nil {
		return nil, err
	}

	r.Status = review.StatusIgnored
	if err := s.store.Upsert(r); err != nil {
		return nil, err
	}

	s.record(events.NewReviewIgnored(r.ID, actor))
	return r, nil
}

// transition runs the event through the reply state machine and maps a rejection
// to an InvalidStateError.
func (s *ReviewService) transition(r *review.Review, event string, guard func(string, string) bool) error {
	sm, err := review.NewReplyStateMachine(r.Status.String(), r.ID, guard)
	if err != nil {
		return err
	}
	if err := sm.Transition(event); err != nil {
		return &domain.InvalidStateError{ReviewID: r.ID, Status: r.Status.String(), Event: event}
	}
	return nil
}

// record appends the event to the audit log and notifies subscribers. Both are
// best-effort: a full store and a failing view must not undo a completed
// transition.
func (s *ReviewService) record(e *events.BaseEvent) {
	if s.events != nil {
		_ = s.events.Append(e)
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(e)
	}
}
