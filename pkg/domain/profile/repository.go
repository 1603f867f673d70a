package profile

// Repository holds business profiles keyed by id, insertion-ordered.
type Repository interface {
	Upsert(p *BusinessProfile) error
	Get(id string) (*BusinessProfile, error)
	List() []*BusinessProfile
}
