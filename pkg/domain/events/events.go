// Package events defines the domain events emitted by the review reply lifecycle
// and the ingestion feed, plus the publisher contract used to notify views.
package events

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
)

// Aggregate types.
const (
	AggregateReview  = "review"
	AggregateProfile = "profile"
)

// Event types.
const (
	TypeReviewIngested     = "review.ingested"
	TypeSuggestionAttached = "review.suggestion_attached"
	TypeReviewReplied      = "review.replied"
	TypeReviewIgnored      = "review.ignored"
	TypeProfileSynced      = "profile.synced"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events. Events appended to the audit
// log are hash-chained so tampering is detectable on replay.
type BaseEvent struct {
	ID             string                 `json:"id"`
	Type           string                 `json:"type"`
	AggregateID_   string                 `json:"aggregate_id"`
	AggregateType_ string                 `json:"aggregate_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Actor          string                 `json:"actor"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	PrevHash       string                 `json:"prev_hash,omitempty"`
	Hash           string                 `json:"hash,omitempty"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.AggregateID_ }
func (e BaseEvent) AggregateType() string { return e.AggregateType_ }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// CalculateHash generates a deterministic SHA256 hash of the event.
func (e *BaseEvent) CalculateHash() string {
	h := sha256.New()
	h.Write([]byte(e.PrevHash))
	h.Write([]byte(e.ID))
	h.Write([]byte(e.Timestamp.Format(time.RFC3339Nano)))
	h.Write([]byte(e.Type))
	h.Write([]byte(e.AggregateID_))
	h.Write([]byte(e.Actor))
	h.Write([]byte(canonicalJSON(e.Metadata)))
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalJSON produces a deterministic JSON representation.
func canonicalJSON(m map[string]interface{}) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make([]byte, 0, 256)
	ordered = append(ordered, '{')
	for i, k := range keys {
		if i > 0 {
			ordered = append(ordered, ',')
		}
		keyJSON, _ := json.Marshal(k)
		valJSON, _ := json.Marshal(m[k])
		ordered = append(ordered, keyJSON...)
		ordered = append(ordered, ':')
		ordered = append(ordered, valJSON...)
	}
	ordered = append(ordered, '}')
	return string(ordered)
}

// NewReviewIngested is emitted when the ingestion feed delivers a review.
func NewReviewIngested(reviewID string, rating int, sentiment review.Sentiment, actor string) *BaseEvent {
	return &BaseEvent{
		Type:           TypeReviewIngested,
		AggregateID_:   reviewID,
		AggregateType_: AggregateReview,
		Timestamp:      time.Now(),
		Actor:          actor,
		Metadata: map[string]interface{}{
			"rating":    rating,
			"sentiment": string(sentiment),
		},
	}
}

// NewSuggestionAttached is emitted when the AI collaborator delivers a candidate
// reply for a pending review.
func NewSuggestionAttached(reviewID string, provider string, actor string) *BaseEvent {
	return &BaseEvent{
		Type:           TypeSuggestionAttached,
		AggregateID_:   reviewID,
		AggregateType_: AggregateReview,
		Timestamp:      time.Now(),
		Actor:          actor,
		Metadata: map[string]interface{}{
			"provider": provider,
		},
	}
}

// NewReviewReplied is emitted when a reply is posted, whether the suggestion was
// approved verbatim or edited first.
func NewReviewReplied(reviewID string, event string, actor string) *BaseEvent {
	return &BaseEvent{
		Type:           TypeReviewReplied,
		AggregateID_:   reviewID,
		AggregateType_: AggregateReview,
		Timestamp:      time.Now(),
		Actor:          actor,
		Metadata: map[string]interface{}{
			"event": event,
		},
	}
}

// NewReviewIgnored is emitted when a review is soft-dismissed.
func NewReviewIgnored(reviewID string, actor string) *BaseEvent {
	return &BaseEvent{
		Type:           TypeReviewIgnored,
		AggregateID_:   reviewID,
		AggregateType_: AggregateReview,
		Timestamp:      time.Now(),
		Actor:          actor,
	}
}

// NewProfileSynced is emitted when the sync feed creates or updates a profile.
func NewProfileSynced(profileID string, reviewCount int, actor string) *BaseEvent {
	return &BaseEvent{
		Type:           TypeProfileSynced,
		AggregateID_:   profileID,
		AggregateType_: AggregateProfile,
		Timestamp:      time.Now(),
		Actor:          actor,
		Metadata: map[string]interface{}{
			"review_count": reviewCount,
		},
	}
}
