// Package review contains the review aggregate: the entity itself, its status and
// sentiment value objects, the reply lifecycle state machine, and the filter engine.
package review

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain"
)

func newValidationError(field, reason string) error {
	return &domain.ValidationError{Field: field, Reason: reason}
}

// Review is a single customer review attached to a business profile.
// Reviews are created by the ingestion feed and mutated only through the reply
// lifecycle (approve, reply, ignore). AISuggestion is retained after a reply is
// posted for audit purposes but is no longer actionable.
type Review struct {
	ID                string       `json:"id" yaml:"id"`
	BusinessProfileID string       `json:"business_profile_id" yaml:"business_profile_id"`
	ReviewerName      string       `json:"reviewer_name" yaml:"reviewer_name"`
	ReviewerAvatar    string       `json:"reviewer_avatar,omitempty" yaml:"reviewer_avatar,omitempty"`
	Rating            int          `json:"rating" yaml:"rating"`
	Text              string       `json:"text" yaml:"text"`
	CreatedAt         time.Time    `json:"created_at" yaml:"created_at"`
	Sentiment         Sentiment    `json:"sentiment" yaml:"sentiment"`
	Status            ReviewStatus `json:"status" yaml:"status"`
	HasReply          bool         `json:"has_reply" yaml:"has_reply"`
	ReplyText         string       `json:"reply_text,omitempty" yaml:"reply_text,omitempty"`
	ReplyCreatedAt    *time.Time   `json:"reply_created_at,omitempty" yaml:"reply_created_at,omitempty"`
	AISuggestion      string       `json:"ai_suggestion,omitempty" yaml:"ai_suggestion,omitempty"`
}

// MinRating and MaxRating bound the star rating a reviewer can give.
const (
	MinRating = 1
	MaxRating = 5
)

// Validate checks the structural invariants of a review record.
// Profile existence is checked by the store, which owns the profile index.
func (r *Review) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return newValidationError("id", "cannot be empty")
	}
	if strings.TrimSpace(r.BusinessProfileID) == "" {
		return newValidationError("business_profile_id", "cannot be empty")
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return newValidationError("rating", "must be between 1 and 5")
	}
	if strings.TrimSpace(r.Text) == "" {
		return newValidationError("text", "cannot be empty")
	}
	if !r.Status.IsValid() {
		return newValidationError("status", "unknown status: "+string(r.Status))
	}
	if !r.Sentiment.IsValid() {
		return newValidationError("sentiment", "unknown sentiment: "+string(r.Sentiment))
	}
	return r.CheckReplyInvariant()
}

// CheckReplyInvariant enforces HasReply == (Status == replied) and that reply text
// and timestamp are both present iff a reply exists.
func (r *Review) CheckReplyInvariant() error {
	if r.HasReply != (r.Status == StatusReplied) {
		return newValidationError("has_reply", "must equal (status == replied)")
	}
	if r.HasReply {
		if strings.TrimSpace(r.ReplyText) == "" {
			return newValidationError("reply_text", "required when a reply exists")
		}
		if r.ReplyCreatedAt == nil {
			return newValidationError("reply_created_at", "required when a reply exists")
		}
		return nil
	}
	if r.ReplyText != "" {
		return newValidationError("reply_text", "must be empty without a reply")
	}
	if r.ReplyCreatedAt != nil {
		return newValidationError("reply_created_at", "must be empty without a reply")
	}
	return nil
}

// Clone returns a deep copy, so callers can hand out reviews without exposing the
// store's canonical record to mutation.
func (r *Review) Clone() *Review {
	c := *r
	if r.ReplyCreatedAt != nil {
		t := *r.ReplyCreatedAt
		c.ReplyCreatedAt = &t
	}
	return &c
}

// PostReply records a reply on the review, moving it to StatusReplied.
// Callers are responsible for checking the current status first; this only
// applies the effects.
func (r *Review) PostReply(text string, at time.Time) {
	r.ReplyText = text
	r.ReplyCreatedAt = &at
	r.HasReply = true
	r.Status = StatusReplied
}
