// Package storage provides the in-memory review and profile stores and the
// file-backed audit event log kept under the .reviewdesk workspace directory.
//
// The review and profile stores are deliberately memory-only: canonical records
// arrive from the sync/ingestion feed and are rebuilt on restart, so nothing is
// persisted beyond the audit trail.
package storage

import (
	"sync"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/profile"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
)

// MemoryStore holds reviews and business profiles, insertion-ordered. All access
// is serialized by one mutex so a reply's status/text/timestamp can never be
// observed in a torn state.
type MemoryStore struct {
	mu sync.RWMutex

	reviews     map[string]*review.Review
	reviewOrder []string

	profiles     map[string]*profile.BusinessProfile
	profileOrder []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reviews:  make(map[string]*review.Review),
		profiles: make(map[string]*profile.BusinessProfile),
	}
}

// interface guards
var (
	_ review.Repository  = (*MemoryStore)(nil)
	_ profile.Repository = profileView{}
)

// Upsert inserts or replaces a review by id. The record is validated first, and
// its business profile must already be known to the store.
func (s *MemoryStore) Upsert(r *review.Review) error {
	if r == nil {
		return &domain.ValidationError{Field: "review", Reason: "cannot be nil"}
	}
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[r.BusinessProfileID]; !ok {
		return &domain.ValidationError{
			Field:  "business_profile_id",
			Reason: "unknown business profile: " + r.BusinessProfileID,
		}
	}

	if _, exists := s.reviews[r.ID]; !exists {
		s.reviewOrder = append(s.reviewOrder, r.ID)
	}
	s.reviews[r.ID] = r.Clone()
	return nil
}

// Get returns a copy of the review or a NotFoundError.
func (s *MemoryStore) Get(id string) (*review.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "review", ID: id}
	}
	return r.Clone(), nil
}

// List returns all reviews in insertion order, as copies.
func (s *MemoryStore) List() []*review.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*review.Review, 0, len(s.reviewOrder))
	for _, id := range s.reviewOrder {
		out = append(out, s.reviews[id].Clone())
	}
	return out
}

// UpsertProfile inserts or replaces a business profile by id.
func (s *MemoryStore) UpsertProfile(p *profile.BusinessProfile) error {
	if p == nil {
		return &domain.ValidationError{Field: "profile", Reason: "cannot be nil"}
	}
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.ID]; !exists {
		s.profileOrder = append(s.profileOrder, p.ID)
	}
	s.profiles[p.ID] = p.Clone()
	return nil
}

// GetProfile returns a copy of the profile or a NotFoundError.
func (s *MemoryStore) GetProfile(id string) (*profile.BusinessProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "profile", ID: id}
	}
	return p.Clone(), nil
}

// ListProfiles returns all profiles in insertion order, as copies.
func (s *MemoryStore) ListProfiles() []*profile.BusinessProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*profile.BusinessProfile, 0, len(s.profileOrder))
	for _, id := range s.profileOrder {
		out = append(out, s.profiles[id].Clone())
	}
	return out
}

// profileView adapts MemoryStore to the profile.Repository interface so both
// ports can be satisfied despite the clashing method names.
type profileView struct {
	s *MemoryStore
}

// Profiles returns the store viewed as a profile repository.
func (s *MemoryStore) Profiles() profile.Repository {
	return profileView{s: s}
}

func (v profileView) Upsert(p *profile.BusinessProfile) error         { return v.s.UpsertProfile(p) }
func (v profileView) Get(id string) (*profile.BusinessProfile, error) { return v.s.GetProfile(id) }
func (v profileView) List() []*profile.BusinessProfile                { return v.s.ListProfiles() }
