// Package profile contains the business profile aggregate.
package profile

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain"
)

// BusinessProfile is one connected (or connectable) business location.
// Profiles are created when a connection flow completes and mutated only by sync
// operations; they are never deleted. ReviewCount and AverageRating are
// profile-level counters maintained by the sync feed and can legitimately diverge
// from the live review store.
type BusinessProfile struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Address       string     `json:"address" yaml:"address"`
	Phone         string     `json:"phone,omitempty" yaml:"phone,omitempty"`
	Website       string     `json:"website,omitempty" yaml:"website,omitempty"`
	IsConnected   bool       `json:"is_connected" yaml:"is_connected"`
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty" yaml:"last_sync_at,omitempty"`
	ReviewCount   int        `json:"review_count" yaml:"review_count"`
	AverageRating float64    `json:"average_rating" yaml:"average_rating"`
}

// Validate checks the structural invariants of a profile record.
func (p *BusinessProfile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return &domain.ValidationError{Field: "id", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(p.Name) == "" {
		return &domain.ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if p.ReviewCount < 0 {
		return &domain.ValidationError{Field: "review_count", Reason: "cannot be negative"}
	}
	if p.AverageRating < 0 || p.AverageRating > 5 {
		return &domain.ValidationError{Field: "average_rating", Reason: "must be between 0.0 and 5.0"}
	}
	return nil
}

// MarkSynced stamps the profile as connected with a fresh sync time.
func (p *BusinessProfile) MarkSynced(at time.Time) {
	p.IsConnected = true
	p.LastSyncAt = &at
}

// Clone returns a deep copy.
func (p *BusinessProfile) Clone() *BusinessProfile {
	c := *p
	if p.LastSyncAt != nil {
		t := *p.LastSyncAt
		c.LastSyncAt = &t
	}
	return &c
}
