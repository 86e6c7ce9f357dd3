package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
	"github.com/ezbjus/bariwikiemerg/internal/service/glossary"
)

// glossaryServiceMock implements glossaryService with overridable fields.
type glossaryServiceMock struct {
	ListFunc       func(ctx context.Context, filter domain.TermFilter) (glossary.Page, error)
	GetBySlugFunc  func(ctx context.Context, slug string) (*domain.Term, error)
	ByLetterFunc   func(ctx context.Context, letter string) (string, []domain.Term, error)
	ByCategoryFunc func(ctx context.Context, category string) ([]domain.Term, error)
	SearchFunc     func(ctx context.Context, q string, limit int) ([]domain.Term, error)
	CategoriesFunc func(ctx context.Context) ([]domain.CategoryCount, error)
	LettersFunc    func(ctx context.Context) (map[string]int, error)
	StatsFunc      func(ctx context.Context) (domain.Stats, error)
}

func (m *glossaryServiceMock) List(ctx context.Context, filter domain.TermFilter) (glossary.Page, error) {
	return m.ListFunc(ctx, filter)
}

func (m *glossaryServiceMock) GetBySlug(ctx context.Context, slug string) (*domain.Term, error) {
	return m.GetBySlugFunc(ctx, slug)
}

func (m *glossaryServiceMock) ByLetter(ctx context.Context, letter string) (string, []domain.Term, error) {
	return m.ByLetterFunc(ctx, letter)
}

func (m *glossaryServiceMock) ByCategory(ctx context.Context, category string) ([]domain.Term, error) {
	return m.ByCategoryFunc(ctx, category)
}

func (m *glossaryServiceMock) Search(ctx context.Context, q string, limit int) ([]domain.Term, error) {
	return m.SearchFunc(ctx, q, limit)
}

func (m *glossaryServiceMock) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	return m.CategoriesFunc(ctx)
}

func (m *glossaryServiceMock) Letters(ctx context.Context) (map[string]int, error) {
	return m.LettersFunc(ctx)
}

func (m *glossaryServiceMock) Stats(ctx context.Context) (domain.Stats, error) {
	return m.StatsFunc(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// termsRouter mounts a TermsHandler on the public route table.
func termsRouter(svc glossaryService) http.Handler {
	h := NewTermsHandler(svc, testLogger())
	r := chi.NewRouter()
	r.Get("/api/terms", h.List)
	r.Get("/api/terms/search", h.Search)
	r.Get("/api/terms/categories", h.Categories)
	r.Get("/api/terms/letters", h.Letters)
	r.Get("/api/terms/letter/{letter}", h.ByLetter)
	r.Get("/api/terms/category/{category}", h.ByCategory)
	r.Get("/api/terms/slug/{slug}", h.BySlug)
	r.Get("/api/stats", h.Stats)
	return r
}

func doGet(t *testing.T, handler http.Handler, url string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestTermsList_PassesFilterAndShapesResponse(t *testing.T) {
	t.Parallel()

	svc := &glossaryServiceMock{
		ListFunc: func(ctx context.Context, filter domain.TermFilter) (glossary.Page, error) {
			assert.Equal(t, 2, filter.Page)
			assert.Equal(t, 10, filter.Limit)
			assert.Equal(t, domain.StatusPublished, filter.Status)
			return glossary.Page{
				Terms: []domain.Term{{Name: "Hernia", Status: domain.StatusPublished}},
				Total: 31, Page: 2, Limit: 10, Pages: 4,
			}, nil
		},
	}

	rec, body := doGet(t, termsRouter(svc), "/api/terms?page=2&limit=10&status=published")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(31), body["total"])
	assert.Equal(t, float64(4), body["pages"])
	terms := body["terms"].([]any)
	require.Len(t, terms, 1)
	assert.Equal(t, "Hernia", terms[0].(map[string]any)["name"])
}

func TestTermsList_EmptyPageEncodesEmptyArray(t *testing.T) {
	t.Parallel()

	svc := &glossaryServiceMock{
		ListFunc: func(ctx context.Context, filter domain.TermFilter) (glossary.Page, error) {
			return glossary.Page{Page: 1, Limit: 50}, nil
		},
	}

	rec, body := doGet(t, termsRouter(svc), "/api/terms")

	assert.Equal(t, http.StatusOK, rec.Code)
	terms, ok := body["terms"].([]any)
	require.True(t, ok, "terms must be an array, not null")
	assert.Empty(t, terms)
}

func TestTermsBySlug_Found(t *testing.T) {
	t.Parallel()

	term := domain.NewTerm("Gastric Bypass")
	svc := &glossaryServiceMock{
		GetBySlugFunc: func(ctx context.Context, slug string) (*domain.Term, error) {
			assert.Equal(t, "gastric-bypass", slug)
			return term, nil
		},
	}

	rec, body := doGet(t, termsRouter(svc), "/api/terms/slug/gastric-bypass")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gastric Bypass", body["name"])
	assert.Equal(t, "gastric-bypass", body["slug"])
	assert.Equal(t, "Gastric Bypass - BariWiki", body["meta_title"])
}

func TestTermsBySlug_NotFound(t *testing.T) {
	t.Parallel()

	svc := &glossaryServiceMock{
		GetBySlugFunc: func(ctx context.Context, slug string) (*domain.Term, error) {
			return nil, domain.ErrNotFound
		},
	}

	rec, body := doGet(t, termsRouter(svc), "/api/terms/slug/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "term not found", body["error"])
}

func TestTermsByLetter_WrapsResponse(t *testing.T) {
	t.Parallel()

	svc := &glossaryServiceMock{
		ByLetterFunc: func(ctx context.Context, letter string) (string, []domain.Term, error) {
			assert.Equal(t, "g", letter)
			return "G", []domain.Term{{Name: "Ghrelin"}, {Name: "Gastric Band"}}, nil
		},
	}

	rec, body := doGet(t, termsRouter(svc), "/api/terms/letter/g")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "G", body["letter"])
	assert.Equal(t, float64(2), body["count"])
}

func TestTermsSearch_WrapsResponse(t *testing.T) {
	t.Parallel()

	svc := &glossaryServiceMock{
		SearchFunc: func(ctx context.Context, q string, limit int) ([]domain.Term, error) {
			assert.Equal(t, "bypass", q)
			assert.Equal(t, 5, limit)
			return []domain.Term{{Name: "Gastric Bypass"}}, nil
		},
	}

	rec, body := doGet(t, termsRouter(svc), "/api/terms/search?q=bypass&limit=5")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bypass", body["query"])
	assert.Equal(t, float64(1), body["count"])
}

func TestTermsSearch_MissingQuery(t *testing.T) {
	t.Parallel()

	svc := &glossaryServiceMock{
		SearchFunc: func(ctx context.Context, q string, limit int) ([]domain.Term, error) {
			return nil, domain.NewValidationError("q", "required")
		},
	}

	rec, _ := doGet(t, termsRouter(svc), "/api/terms/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTermsCategories_Shape(t *testing.T) {
	t.Parallel()

	svc := &glossaryServiceMock{
		CategoriesFunc: func(ctx context.Context) ([]domain.CategoryCount, error) {
			return []domain.CategoryCount{{Category: "Procedures", Count: 12}}, nil
		},
	}

	rec, body := doGet(t, termsRouter(svc), "/api/terms/categories")

	assert.Equal(t, http.StatusOK, rec.Code)
	categories := body["categories"].([]any)
	require.Len(t, categories, 1)
	first := categories[0].(map[string]any)
	assert.Equal(t, "Procedures", first["category"])
	assert.Equal(t, float64(12), first["count"])
}

func TestTermsLetters_Shape(t *testing.T) {
	t.Parallel()

	svc := &glossaryServiceMock{
		LettersFunc: func(ctx context.Context) (map[string]int, error) {
			return map[string]int{"G": 3, "#": 1}, nil
		},
	}

	rec, body := doGet(t, termsRouter(svc), "/api/terms/letters")

	assert.Equal(t, http.StatusOK, rec.Code)
	letters := body["letters"].(map[string]any)
	assert.Equal(t, float64(3), letters["G"])
	assert.Equal(t, float64(1), letters["#"])
}

func TestStats_Shape(t *testing.T) {
	t.Parallel()

	svc := &glossaryServiceMock{
		StatsFunc: func(ctx context.Context) (domain.Stats, error) {
			return domain.Stats{Total: 100, Published: 70, Drafts: 30, Categories: 10}, nil
		},
	}

	rec, body := doGet(t, termsRouter(svc), "/api/stats")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(100), body["total_terms"])
	assert.Equal(t, float64(70), body["published"])
	assert.Equal(t, float64(30), body["drafts"])
	assert.Equal(t, float64(10), body["categories"])
}
