package glossary

import (
	"strings"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// CreateInput holds parameters for term creation. Optional fields left at
// their zero value fall back to the entry defaults.
type CreateInput struct {
	Name             string
	Description      string
	ShortDescription string
	Category         string
	RelatedTerms     []string
	AuthorityLinks   []domain.AuthorityLink
	Status           string
}

// Validate validates the create input.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if i.Status != "" && !domain.Status(i.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be draft or published"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput holds parameters for a partial term update.
// All fields are optional (nil = don't change); an explicit empty value
// clears the field.
type UpdateInput struct {
	Name             *string
	Description      *string
	ShortDescription *string
	Category         *string
	RelatedTerms     *[]string
	AuthorityLinks   *[]domain.AuthorityLink
	Status           *string
}

// Validate validates the update input.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name != nil && strings.TrimSpace(*i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "cannot be empty"})
	}
	if i.Status != nil && !domain.Status(*i.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be draft or published"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// isEmpty reports whether the update carries no fields at all.
func (i UpdateInput) isEmpty() bool {
	return i.Name == nil && i.Description == nil && i.ShortDescription == nil &&
		i.Category == nil && i.RelatedTerms == nil && i.AuthorityLinks == nil &&
		i.Status == nil
}
