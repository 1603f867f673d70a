package review

// Repository holds the authoritative mapping from review id to record.
// Implementations must preserve insertion order in List so rendered lists are
// stable across reads.
type Repository interface {
	// Upsert inserts or replaces a review by id. It fails with a ValidationError
	// when the record is malformed or references an unknown business profile.
	Upsert(r *Review) error
	// Get returns the review or a NotFoundError.
	Get(id string) (*Review, error)
	// List returns the full ordered sequence as copies safe for the caller to hold.
	List() []*Review
}
