package domain

// Status is the visibility lifecycle state of a term. Only published
// terms appear in public listings, search, and aggregates.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished:
		return true
	}
	return false
}

// DefaultCategory is assigned to terms created without a category.
const DefaultCategory = "Uncategorized"

// Categories is the editorial category list offered to the generation
// service. Stored categories are not hard-enforced against it.
var Categories = []string{
	"Procedures",
	"Complications",
	"Anatomy",
	"Nutrition",
	"Medications",
	"Conditions",
	"Diagnostic Tests",
	"Patient Care",
	"Equipment",
	"Outcomes",
}
