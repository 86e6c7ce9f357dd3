package rest

import (
	"time"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// termResponse is the JSON shape of a term on every endpoint.
type termResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Slug             string                 `json:"slug"`
	Description      string                 `json:"description"`
	ShortDescription string                 `json:"short_description"`
	Category         string                 `json:"category"`
	RelatedTerms     []string               `json:"related_terms"`
	AuthorityLinks   []domain.AuthorityLink `json:"authority_links"`
	FirstLetter      string                 `json:"first_letter"`
	Status           string                 `json:"status"`
	MetaTitle        string                 `json:"meta_title"`
	MetaDescription  string                 `json:"meta_description"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

func toTermResponse(t *domain.Term) termResponse {
	return termResponse{
		ID:               t.ID.String(),
		Name:             t.Name,
		Slug:             t.Slug,
		Description:      t.Description,
		ShortDescription: t.ShortDescription,
		Category:         t.Category,
		RelatedTerms:     t.RelatedTerms,
		AuthorityLinks:   t.AuthorityLinks,
		FirstLetter:      t.FirstLetter,
		Status:           t.Status.String(),
		MetaTitle:        t.MetaTitle,
		MetaDescription:  t.MetaDescription,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// toTermResponses never returns nil so empty listings encode as [].
func toTermResponses(terms []domain.Term) []termResponse {
	out := make([]termResponse, 0, len(terms))
	for i := range terms {
		out = append(out, toTermResponse(&terms[i]))
	}
	return out
}
