// Package domain holds the glossary's core types and derivation rules.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Term is one glossary entry with its editorial metadata.
// Slug, FirstLetter, MetaTitle, and MetaDescription are derived fields;
// they are never taken from client input directly.
type Term struct {
	ID               uuid.UUID
	Name             string
	Slug             string
	Description      string
	ShortDescription string
	Category         string
	RelatedTerms     []string
	AuthorityLinks   []AuthorityLink
	FirstLetter      string
	Status           Status
	MetaTitle        string
	MetaDescription  string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AuthorityLink is a citation record pointing to an external medical reference.
type AuthorityLink struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// NewTerm builds a draft term with all derived fields populated and both
// timestamps stamped to now. Optional fields carry their defaults; callers
// overwrite them before persisting when the client supplied values.
func NewTerm(name string) *Term {
	now := time.Now().UTC()
	return &Term{
		ID:              uuid.New(),
		Name:            name,
		Slug:            Slugify(name),
		Category:        DefaultCategory,
		RelatedTerms:    []string{},
		AuthorityLinks:  []AuthorityLink{},
		FirstLetter:     FirstLetter(name),
		Status:          StatusDraft,
		MetaTitle:       MetaTitle(name),
		MetaDescription: DefaultMetaDescription(name),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// MetaTitle derives the SEO title for a term name.
func MetaTitle(name string) string {
	return name + " - BariWiki"
}

// DefaultMetaDescription derives the fallback SEO description used when no
// short description is available.
func DefaultMetaDescription(name string) string {
	return fmt.Sprintf("Learn about %s in bariatric surgery.", name)
}

// TermPatch is a sparse update: only non-nil fields are applied. A field
// must be explicitly present (even as an empty value) to change; absence
// never clears. Derived fields are filled in by the lifecycle service,
// not by transport-layer callers.
type TermPatch struct {
	Name             *string
	Description      *string
	ShortDescription *string
	Category         *string
	RelatedTerms     *[]string
	AuthorityLinks   *[]AuthorityLink
	Status           *Status

	// Derived; set alongside Name / ShortDescription.
	Slug            *string
	FirstLetter     *string
	MetaTitle       *string
	MetaDescription *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p TermPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.ShortDescription == nil &&
		p.Category == nil && p.RelatedTerms == nil && p.AuthorityLinks == nil &&
		p.Status == nil && p.Slug == nil && p.FirstLetter == nil &&
		p.MetaTitle == nil && p.MetaDescription == nil
}

// CategoryCount is one row of the published-terms-per-category aggregate.
type CategoryCount struct {
	Category string
	Count    int
}

// Stats holds the glossary-wide counters.
type Stats struct {
	Total      int
	Published  int
	Drafts     int
	Categories int
}
