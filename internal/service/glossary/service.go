// Package glossary implements the term lifecycle and the public read
// operations of the glossary.
package glossary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// termRepo defines the term repository interface needed by glossary service.
type termRepo interface {
	Create(ctx context.Context, t *domain.Term) (*domain.Term, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.TermPatch) (*domain.Term, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Publish(ctx context.Context, id uuid.UUID) error
	PublishDrafts(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Term, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Find(ctx context.Context, filter domain.TermFilter) ([]domain.Term, int, error)
	FindByLetter(ctx context.Context, letter string, publishedOnly bool) ([]domain.Term, error)
	FindByCategory(ctx context.Context, category string, publishedOnly bool) ([]domain.Term, error)
	AllPublished(ctx context.Context) ([]domain.Term, error)
	Search(ctx context.Context, q string, limit int) ([]domain.Term, error)
	CategoriesWithCounts(ctx context.Context) ([]domain.CategoryCount, error)
	LettersWithCounts(ctx context.Context) (map[string]int, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// Page is one page of a term listing.
type Page struct {
	Terms []domain.Term
	Total int
	Page  int
	Limit int
	Pages int
}

// Service implements term lifecycle and query operations.
type Service struct {
	log   *slog.Logger
	terms termRepo
}

// NewService creates a new glossary service instance.
func NewService(logger *slog.Logger, terms termRepo) *Service {
	return &Service{
		log:   logger.With("service", "glossary"),
		terms: terms,
	}
}

// Create creates a new draft (or, when requested, published) term with all
// derived fields populated. Fails with domain.ErrConflict when another term
// already owns the derived slug.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Term, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	t := domain.NewTerm(in.Name)
	t.Description = in.Description
	if in.ShortDescription != "" {
		t.ShortDescription = in.ShortDescription
		t.MetaDescription = in.ShortDescription
	}
	if in.Category != "" {
		t.Category = in.Category
	}
	if in.RelatedTerms != nil {
		t.RelatedTerms = in.RelatedTerms
	}
	if in.AuthorityLinks != nil {
		t.AuthorityLinks = in.AuthorityLinks
	}
	if in.Status != "" {
		t.Status = domain.Status(in.Status)
	}

	taken, err := s.terms.ExistsBySlug(ctx, t.Slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("slug %q: %w", t.Slug, domain.ErrConflict)
	}

	created, err := s.terms.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create term: %w", err)
	}

	s.log.Info("term created", "id", created.ID, "slug", created.Slug, "status", created.Status)
	return created, nil
}

// Update applies a partial update to a term. A name change re-derives slug,
// first_letter, and meta_title, and re-checks slug uniqueness against other
// terms; a short_description change mirrors into meta_description.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*domain.Term, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.isEmpty() {
		return s.terms.GetByID(ctx, id)
	}

	patch := domain.TermPatch{
		Name:           in.Name,
		Description:    in.Description,
		Category:       in.Category,
		RelatedTerms:   in.RelatedTerms,
		AuthorityLinks: in.AuthorityLinks,
	}

	if in.Name != nil {
		slug := domain.Slugify(*in.Name)
		letter := domain.FirstLetter(*in.Name)
		title := domain.MetaTitle(*in.Name)
		patch.Slug = &slug
		patch.FirstLetter = &letter
		patch.MetaTitle = &title

		current, err := s.terms.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if slug != current.Slug {
			taken, err := s.terms.ExistsBySlug(ctx, slug)
			if err != nil {
				return nil, fmt.Errorf("check slug: %w", err)
			}
			if taken {
				return nil, fmt.Errorf("slug %q: %w", slug, domain.ErrConflict)
			}
		}
	}

	if in.ShortDescription != nil {
		patch.ShortDescription = in.ShortDescription
		patch.MetaDescription = in.ShortDescription
	}

	if in.Status != nil {
		status := domain.Status(*in.Status)
		patch.Status = &status
	}

	updated, err := s.terms.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update term: %w", err)
	}

	s.log.Info("term updated", "id", id)
	return updated, nil
}

// Delete permanently removes a term. Related-term references held by other
// terms are name strings and are left untouched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.terms.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("term deleted", "id", id)
	return nil
}

// Publish transitions a term to the published state. Publishing an already
// published term succeeds without effect.
func (s *Service) Publish(ctx context.Context, id uuid.UUID) error {
	if err := s.terms.Publish(ctx, id); err != nil {
		return err
	}
	s.log.Info("term published", "id", id)
	return nil
}

// PublishAll publishes every draft and returns the number of terms moved.
func (s *Service) PublishAll(ctx context.Context) (int, error) {
	n, err := s.terms.PublishDrafts(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info("drafts published", "count", n)
	return n, nil
}

// GetByID returns a single term by id, any status.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
	return s.terms.GetByID(ctx, id)
}

// GetBySlug returns a single term by slug, any status.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Term, error) {
	return s.terms.GetBySlug(ctx, slug)
}

// List returns one page of terms sorted by name. The filter is normalized
// before use, so out-of-range page and limit values are clamped rather than
// rejected.
func (s *Service) List(ctx context.Context, filter domain.TermFilter) (Page, error) {
	filter.Normalize()

	terms, total, err := s.terms.Find(ctx, filter)
	if err != nil {
		return Page{}, fmt.Errorf("list terms: %w", err)
	}

	return Page{
		Terms: terms,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
		Pages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// ByLetter returns published terms whose derived first letter matches.
// The letter is uppercased first, so "a" and "A" are the same bucket.
// It returns the normalized letter alongside the terms.
func (s *Service) ByLetter(ctx context.Context, letter string) (string, []domain.Term, error) {
	letter = strings.ToUpper(letter)
	terms, err := s.terms.FindByLetter(ctx, letter, true)
	if err != nil {
		return "", nil, fmt.Errorf("terms by letter: %w", err)
	}
	return letter, terms, nil
}

// ByCategory returns published terms in one category.
func (s *Service) ByCategory(ctx context.Context, category string) ([]domain.Term, error) {
	terms, err := s.terms.FindByCategory(ctx, category, true)
	if err != nil {
		return nil, fmt.Errorf("terms by category: %w", err)
	}
	return terms, nil
}

// Search matches published terms whose name or description contains the
// query, case-insensitively. The limit defaults to 20 and is capped at 50.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]domain.Term, error) {
	if q == "" {
		return nil, domain.NewValidationError("q", "required")
	}
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	if limit > domain.MaxSearchLimit {
		limit = domain.MaxSearchLimit
	}

	terms, err := s.terms.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search terms: %w", err)
	}
	return terms, nil
}

// Categories returns published-term counts per category.
func (s *Service) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	return s.terms.CategoriesWithCounts(ctx)
}

// Letters returns published-term counts per first letter.
func (s *Service) Letters(ctx context.Context) (map[string]int, error) {
	return s.terms.LettersWithCounts(ctx)
}

// Stats returns the glossary-wide counters.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	return s.terms.Stats(ctx)
}

// AllPublished returns every published term. Used by the sitemap builder.
func (s *Service) AllPublished(ctx context.Context) ([]domain.Term, error) {
	return s.terms.AllPublished(ctx)
}
