// Package term implements the Term repository using PostgreSQL.
// It owns the query surface of the glossary: pagination, letter/category
// buckets, search, aggregates, and the sparse-field update used by the
// lifecycle service.
package term

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ezbjus/bariwikiemerg/internal/adapter/postgres"
	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// Repo provides term persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// New creates a new term repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var termColumns = []string{
	"id", "name", "slug", "description", "short_description", "category",
	"related_terms", "authority_links", "first_letter", "status",
	"meta_title", "meta_description", "created_at", "updated_at",
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTerm(row rowScanner) (*domain.Term, error) {
	var (
		t     domain.Term
		links []byte
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Description, &t.ShortDescription,
		&t.Category, &t.RelatedTerms, &links, &t.FirstLetter, &t.Status,
		&t.MetaTitle, &t.MetaDescription, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.AuthorityLinks = []domain.AuthorityLink{}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &t.AuthorityLinks); err != nil {
			return nil, fmt.Errorf("decode authority_links for %s: %w", t.ID, err)
		}
	}
	if t.RelatedTerms == nil {
		t.RelatedTerms = []string{}
	}

	return &t, nil
}

func collectTerms(rows pgx.Rows) ([]domain.Term, error) {
	defer rows.Close()

	var terms []domain.Term
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return terms, nil
}

func encodeLinks(links []domain.AuthorityLink) ([]byte, error) {
	if links == nil {
		links = []domain.AuthorityLink{}
	}
	return json.Marshal(links)
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Create inserts a fully derived term.
// Returns domain.ErrAlreadyExists when the slug is already taken.
func (r *Repo) Create(ctx context.Context, t *domain.Term) (*domain.Term, error) {
	links, err := encodeLinks(t.AuthorityLinks)
	if err != nil {
		return nil, fmt.Errorf("encode authority_links: %w", err)
	}

	query, args, err := r.sb.Insert("terms").
		Columns(termColumns...).
		Values(
			t.ID, t.Name, t.Slug, t.Description, t.ShortDescription,
			t.Category, t.RelatedTerms, links, t.FirstLetter, t.Status,
			t.MetaTitle, t.MetaDescription, t.CreatedAt, t.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return nil, postgres.MapError(err, "term", t.Slug)
	}

	return t, nil
}

// Update applies a sparse patch to one term and returns the updated row.
// Only non-nil patch fields become SET clauses; updated_at is always
// refreshed. Returns domain.ErrNotFound when the id does not resolve and
// domain.ErrAlreadyExists when a slug change collides.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, patch domain.TermPatch) (*domain.Term, error) {
	b := r.sb.Update("terms").Set("updated_at", sq.Expr("now()"))

	if patch.Name != nil {
		b = b.Set("name", *patch.Name)
	}
	if patch.Slug != nil {
		b = b.Set("slug", *patch.Slug)
	}
	if patch.Description != nil {
		b = b.Set("description", *patch.Description)
	}
	if patch.ShortDescription != nil {
		b = b.Set("short_description", *patch.ShortDescription)
	}
	if patch.Category != nil {
		b = b.Set("category", *patch.Category)
	}
	if patch.RelatedTerms != nil {
		b = b.Set("related_terms", *patch.RelatedTerms)
	}
	if patch.AuthorityLinks != nil {
		links, err := encodeLinks(*patch.AuthorityLinks)
		if err != nil {
			return nil, fmt.Errorf("encode authority_links: %w", err)
		}
		b = b.Set("authority_links", links)
	}
	if patch.FirstLetter != nil {
		b = b.Set("first_letter", *patch.FirstLetter)
	}
	if patch.Status != nil {
		b = b.Set("status", *patch.Status)
	}
	if patch.MetaTitle != nil {
		b = b.Set("meta_title", *patch.MetaTitle)
	}
	if patch.MetaDescription != nil {
		b = b.Set("meta_description", *patch.MetaDescription)
	}

	query, args, err := b.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	t, err := scanTerm(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "term", id.String())
	}
	return t, nil
}

// Delete permanently removes a term. There is no recovery path.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM terms WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "term", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("term %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Publish flips a term to the published state, refreshing updated_at.
// Publishing an already-published term is a no-op success.
func (r *Repo) Publish(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE terms SET status = 'published', updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "term", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("term %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// PublishDrafts publishes every draft in one statement and reports the
// number of rows modified. Zero drafts is a valid success.
func (r *Repo) PublishDrafts(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE terms SET status = 'published', updated_at = now() WHERE status = 'draft'`)
	if err != nil {
		return 0, postgres.MapError(err, "term", "batch-publish")
	}
	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetByID returns a term by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
	query, args, err := r.sb.Select(termColumns...).
		From("terms").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	t, err := scanTerm(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "term", id.String())
	}
	return t, nil
}

// GetBySlug returns a term by its slug, regardless of status. The slug is
// the canonical public identifier.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Term, error) {
	query, args, err := r.sb.Select(termColumns...).
		From("terms").
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	t, err := scanTerm(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "term", slug)
	}
	return t, nil
}

// ExistsBySlug reports whether any term already claims the slug.
func (r *Repo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM terms WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "term", slug)
	}
	return exists, nil
}

// Find returns one page of terms sorted by name ascending, plus the total
// count matching the filter. The filter must be normalized by the caller.
func (r *Repo) Find(ctx context.Context, filter domain.TermFilter) ([]domain.Term, int, error) {
	where := sq.And{}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}
	if filter.NameSearch != "" {
		where = append(where, sq.ILike{"name": "%" + filter.NameSearch + "%"})
	}

	countQuery, countArgs, err := r.sb.Select("count(*)").
		From("terms").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "term", "count")
	}

	query, args, err := r.sb.Select(termColumns...).
		From("terms").
		Where(where).
		OrderBy("name ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, postgres.MapError(err, "term", "list")
	}

	terms, err := collectTerms(rows)
	if err != nil {
		return nil, 0, postgres.MapError(err, "term", "list")
	}
	return terms, total, nil
}

// FindByLetter returns terms whose derived first letter matches, sorted by
// name. publishedOnly restricts the result to published terms.
func (r *Repo) FindByLetter(ctx context.Context, letter string, publishedOnly bool) ([]domain.Term, error) {
	return r.findWhere(ctx, sq.Eq{"first_letter": letter}, publishedOnly)
}

// AllPublished returns every published term sorted by name. The sitemap
// builder consumes this; the glossary stays small enough to list whole.
func (r *Repo) AllPublished(ctx context.Context) ([]domain.Term, error) {
	return r.findWhere(ctx, sq.Eq{"status": domain.StatusPublished}, false)
}

// FindByCategory returns terms in a category, sorted by name.
func (r *Repo) FindByCategory(ctx context.Context, category string, publishedOnly bool) ([]domain.Term, error) {
	return r.findWhere(ctx, sq.Eq{"category": category}, publishedOnly)
}

func (r *Repo) findWhere(ctx context.Context, cond sq.Sqlizer, publishedOnly bool) ([]domain.Term, error) {
	where := sq.And{cond}
	if publishedOnly {
		where = append(where, sq.Eq{"status": domain.StatusPublished})
	}

	query, args, err := r.sb.Select(termColumns...).
		From("terms").
		Where(where).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "term", "find")
	}

	terms, err := collectTerms(rows)
	if err != nil {
		return nil, postgres.MapError(err, "term", "find")
	}
	return terms, nil
}

// Search performs a case-insensitive substring match against name or
// description, restricted to published terms.
func (r *Repo) Search(ctx context.Context, q string, limit int) ([]domain.Term, error) {
	pattern := "%" + q + "%"
	query, args, err := r.sb.Select(termColumns...).
		From("terms").
		Where(sq.And{
			sq.Eq{"status": domain.StatusPublished},
			sq.Or{
				sq.ILike{"name": pattern},
				sq.ILike{"description": pattern},
			},
		}).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "term", "search")
	}

	terms, err := collectTerms(rows)
	if err != nil {
		return nil, postgres.MapError(err, "term", "search")
	}
	return terms, nil
}

// ---------------------------------------------------------------------------
// Aggregates
// ---------------------------------------------------------------------------

// CategoriesWithCounts returns published-term counts per category, sorted
// by category name.
func (r *Repo) CategoriesWithCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, count(*)
		FROM terms
		WHERE status = 'published'
		GROUP BY category
		ORDER BY category`)
	if err != nil {
		return nil, postgres.MapError(err, "term", "categories")
	}
	defer rows.Close()

	var out []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, postgres.MapError(err, "term", "categories")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "term", "categories")
	}
	return out, nil
}

// LettersWithCounts returns published-term counts per first letter.
func (r *Repo) LettersWithCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT first_letter, count(*)
		FROM terms
		WHERE status = 'published'
		GROUP BY first_letter`)
	if err != nil {
		return nil, postgres.MapError(err, "term", "letters")
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			letter string
			count  int
		)
		if err := rows.Scan(&letter, &count); err != nil {
			return nil, postgres.MapError(err, "term", "letters")
		}
		out[letter] = count
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "term", "letters")
	}
	return out, nil
}

// Stats returns the glossary-wide counters in one round trip.
func (r *Repo) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'published'),
			count(*) FILTER (WHERE status = 'draft'),
			count(DISTINCT category)
		FROM terms`).
		Scan(&s.Total, &s.Published, &s.Drafts, &s.Categories)
	if err != nil {
		return domain.Stats{}, postgres.MapError(err, "term", "stats")
	}
	return s, nil
}

// Names returns up to limit term names excluding one id. Used to build the
// related-terms hint list for generation.
func (r *Repo) Names(ctx context.Context, exclude uuid.UUID, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name FROM terms WHERE id <> $1 ORDER BY name LIMIT $2`, exclude, limit)
	if err != nil {
		return nil, postgres.MapError(err, "term", "names")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, postgres.MapError(err, "term", "names")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "term", "names")
	}
	return names, nil
}

// FindWithoutDescription returns terms whose description is still empty,
// oldest first. The batch generation driver consumes this.
func (r *Repo) FindWithoutDescription(ctx context.Context, limit int) ([]domain.Term, error) {
	query, args, err := r.sb.Select(termColumns...).
		From("terms").
		Where(sq.Eq{"description": ""}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "term", "without-description")
	}

	terms, err := collectTerms(rows)
	if err != nil {
		return nil, postgres.MapError(err, "term", "without-description")
	}
	return terms, nil
}

func columnList() string {
	list := termColumns[0]
	for _, c := range termColumns[1:] {
		list += ", " + c
	}
	return list
}
