package review

import (
	"fmt"
	"iter"
	"strings"
)

// FilterTag selects a subset of reviews by status or sentiment.
// There is deliberately no tag for ignored or neutral reviews; the dashboard the
// filter serves never offered one.
type FilterTag string

const (
	FilterAll      FilterTag = "all"
	FilterPending  FilterTag = "pending"
	FilterReplied  FilterTag = "replied"
	FilterPositive FilterTag = "positive"
	FilterNegative FilterTag = "negative"
)

// AllFilterTags returns the filter tags in presentation order.
func AllFilterTags() []FilterTag {
	return []FilterTag{FilterAll, FilterPending, FilterReplied, FilterPositive, FilterNegative}
}

// IsValid returns true if the tag is a known filter tag.
func (t FilterTag) IsValid() bool {
	switch t {
	case FilterAll, FilterPending, FilterReplied, FilterPositive, FilterNegative:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tag.
func (t FilterTag) String() string {
	return string(t)
}

// ParseFilterTag parses a string into a FilterTag. The empty string means "all".
func ParseFilterTag(s string) (FilterTag, error) {
	if s == "" {
		return FilterAll, nil
	}
	tag := FilterTag(s)
	if !tag.IsValid() {
		return "", fmt.Errorf("invalid filter tag: %s", s)
	}
	return tag, nil
}

// matches reports whether a single review passes the tag.
func (t FilterTag) matches(r *Review) bool {
	switch t {
	case FilterAll:
		return true
	case FilterPending:
		return r.Status == StatusPending
	case FilterReplied:
		return r.Status == StatusReplied
	case FilterPositive:
		return r.Sentiment == SentimentPositive
	case FilterNegative:
		return r.Sentiment == SentimentNegative
	default:
		return false
	}
}

// MatchesQuery reports whether the review matches a case-insensitive substring
// query against the reviewer name or the review text. An empty query matches
// everything.
func MatchesQuery(r *Review, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.ReviewerName), q) ||
		strings.Contains(strings.ToLower(r.Text), q)
}

// Visible returns the reviews matching both the query and the filter tag, in the
// order given. The result is a lazy, restartable sequence over the input slice;
// it never re-sorts and has no side effects.
func Visible(reviews []*Review, query string, tag FilterTag) iter.Seq[*Review] {
	return func(yield func(*Review) bool) {
		for _, r := range reviews {
			if !MatchesQuery(r, query) || !tag.matches(r) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// VisibleSlice collects Visible into a slice for callers that render all at once.
func VisibleSlice(reviews []*Review, query string, tag FilterTag) []*Review {
	var out []*Review
	for r := range Visible(reviews, query, tag) {
		out = append(out, r)
	}
	return out
}
