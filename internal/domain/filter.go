package domain

// TermFilter defines parameters for listing and paginating terms.
type TermFilter struct {
	// Page is 1-based. Values below 1 are clamped to 1.
	Page int

	// Limit is the page size. Default: 50, max: 100.
	Limit int

	// Status restricts to one lifecycle state. Empty means any status.
	Status Status

	// NameSearch performs a case-insensitive substring match on name.
	// Used by the admin listing; empty means no text filter.
	NameSearch string
}

const (
	// DefaultPageLimit is applied when no limit is given.
	DefaultPageLimit = 50
	// MaxPageLimit caps the page size of any listing.
	MaxPageLimit = 100
	// DefaultSearchLimit is applied to public search when no limit is given.
	DefaultSearchLimit = 20
	// MaxSearchLimit caps public search results.
	MaxSearchLimit = 50
)

// Normalize applies defaults and clamps values.
func (f *TermFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
}

// Offset returns the number of rows to skip for the current page.
func (f *TermFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
