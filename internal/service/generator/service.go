// Package generator implements AI-assisted content generation for glossary
// terms: single-term enrichment and the batch driver that fills every term
// still missing a description.
package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// hintFetchLimit is how many existing term names are fetched as related-term
// candidates; only the first hintLimit of them reach the prompt.
const hintFetchLimit = 20

// termRepo defines the term repository interface needed by generator service.
type termRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.TermPatch) (*domain.Term, error)
	Names(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error)
	FindWithoutDescription(ctx context.Context, limit int) ([]domain.Term, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// Service implements content generation for terms.
type Service struct {
	log       *slog.Logger
	terms     termRepo
	gen       ContentGenerator
	hintLimit int
}

// NewService creates a new generator service instance. gen may be nil when
// no generation backend is configured; every operation then fails with
// domain.ErrNotConfigured.
func NewService(logger *slog.Logger, terms termRepo, gen ContentGenerator, hintLimit int) *Service {
	return &Service{
		log:       logger.With("service", "generator"),
		terms:     terms,
		gen:       gen,
		hintLimit: hintLimit,
	}
}

// Enabled reports whether a generation backend is configured.
func (s *Service) Enabled() bool {
	return s.gen != nil
}

// GenerateForTerm generates encyclopedia content for one term and merges it
// in: description, short_description, category, related_terms, and
// authority_links are overwritten, meta_description mirrors the new short
// description, and status is never touched. Generation never auto-publishes.
func (s *Service) GenerateForTerm(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
	if s.gen == nil {
		return nil, fmt.Errorf("generation backend: %w", domain.ErrNotConfigured)
	}

	term, err := s.terms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hints, err := s.terms.Names(ctx, id, hintFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch hint terms: %w", err)
	}
	if len(hints) > s.hintLimit {
		hints = hints[:s.hintLimit]
	}

	content, err := s.gen.Generate(ctx, term.Name, hints)
	if err != nil {
		return nil, err
	}

	updated, err := s.terms.Update(ctx, id, contentPatch(content))
	if err != nil {
		return nil, fmt.Errorf("apply generated content: %w", err)
	}

	s.log.Info("content generated", "id", id, "name", term.Name, "category", updated.Category)
	return updated, nil
}

// contentPatch converts generated content into a term patch. Missing
// category falls back to the default; sequences become empty, not nil.
func contentPatch(c *Content) domain.TermPatch {
	category := c.Category
	if category == "" {
		category = domain.DefaultCategory
	}
	related := c.RelatedTerms
	if related == nil {
		related = []string{}
	}
	links := c.AuthorityLinks
	if links == nil {
		links = []domain.AuthorityLink{}
	}

	description := c.Description
	shortDescription := c.ShortDescription
	return domain.TermPatch{
		Description:      &description,
		ShortDescription: &shortDescription,
		MetaDescription:  &shortDescription,
		Category:         &category,
		RelatedTerms:     &related,
		AuthorityLinks:   &links,
	}
}
