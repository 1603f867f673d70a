package review

import (
	"encoding/json"
	"fmt"
)

type ReviewStatus string

const (
	StatusPending ReviewStatus = "pending"
	StatusReplied ReviewStatus = "replied"
	StatusIgnored ReviewStatus = "ignored"
)

// Lifecycle event names. "approve" posts the AI suggestion verbatim, "reply" posts
// caller-supplied text, "ignore" soft-dismisses the review.
const (
	EventApprove = "approve"
	EventReply   = "reply"
	EventIgnore  = "ignore"
)

// validTransitions defines the allowed status transitions and their events.
// Map: currentStatus -> event -> targetStatus. Replied and ignored are terminal.
var validTransitions = map[ReviewStatus]map[string]ReviewStatus{
	StatusPending: {
		EventApprove: StatusReplied,
		EventReply:   StatusReplied,
		EventIgnore:  StatusIgnored,
	},
	StatusReplied: {},
	StatusIgnored: {},
}

// AllStatuses returns all valid review statuses.
func AllStatuses() []ReviewStatus {
	return []ReviewStatus{StatusPending, StatusReplied, StatusIgnored}
}

// IsValid returns true if the status is a valid review status.
func (s ReviewStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusReplied, StatusIgnored:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s ReviewStatus) String() string {
	return string(s)
}

// CanTransitionWith returns true if the given event can trigger a transition from
// this status.
func (s ReviewStatus) CanTransitionWith(event string) bool {
	transitions, ok := validTransitions[s]
	if !ok {
		return false
	}

	_, ok = transitions[event]
	return ok
}

// TransitionWith returns the target status for a given event, or an error if not
// allowed.
func (s ReviewStatus) TransitionWith(event string) (ReviewStatus, error) {
	transitions, ok := validTransitions[s]
	if !ok {
		return s, fmt.Errorf("no transitions defined for status: %s", s)
	}

	target, ok := transitions[event]
	if !ok {
		return s, fmt.Errorf("event '%s' not allowed from status '%s'", event, s)
	}

	return target, nil
}

// ValidEvents returns all valid events that can be triggered from this status.
func (s ReviewStatus) ValidEvents() []string {
	transitions, ok := validTransitions[s]
	if !ok {
		return nil
	}

	var events []string
	for event := range transitions {
		events = append(events, event)
	}
	return events
}

// IsFinal returns true if this is a terminal status (no reply action remains).
func (s ReviewStatus) IsFinal() bool {
	return s == StatusReplied || s == StatusIgnored
}

// IsPending returns true if the review is still awaiting a response.
func (s ReviewStatus) IsPending() bool {
	return s == StatusPending
}

// DisplayName returns a human-readable display name for the status.
func (s ReviewStatus) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusReplied:
		return "Replied"
	case StatusIgnored:
		return "Ignored"
	default:
		return string(s)
	}
}

// ParseStatus parses a string into a ReviewStatus.
func ParseStatus(s string) (ReviewStatus, error) {
	status := ReviewStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid review status: %s", s)
	}
	return status, nil
}

// MarshalJSON implements json.Marshaler interface.
func (s ReviewStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (s *ReviewStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	// Accept empty string as pending so freshly ingested records need no status
	if str == "" {
		*s = StatusPending
		return nil
	}

	status := ReviewStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid review status: %s", str)
	}

	*s = status
	return nil
}
