package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
	"github.com/ezbjus/bariwikiemerg/internal/service/glossary"
)

// glossaryService defines the minimal interface needed by TermsHandler.
type glossaryService interface {
	List(ctx context.Context, filter domain.TermFilter) (glossary.Page, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Term, error)
	ByLetter(ctx context.Context, letter string) (string, []domain.Term, error)
	ByCategory(ctx context.Context, category string) ([]domain.Term, error)
	Search(ctx context.Context, q string, limit int) ([]domain.Term, error)
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
	Letters(ctx context.Context) (map[string]int, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// TermsHandler serves the public glossary endpoints.
type TermsHandler struct {
	svc glossaryService
	log *slog.Logger
}

// NewTermsHandler creates a TermsHandler.
func NewTermsHandler(svc glossaryService, logger *slog.Logger) *TermsHandler {
	return &TermsHandler{svc: svc, log: logger.With("handler", "terms")}
}

type pageResponse struct {
	Terms []termResponse `json:"terms"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Pages int            `json:"pages"`
}

// List handles GET /api/terms.
func (h *TermsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.TermFilter{
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
		Status: domain.Status(r.URL.Query().Get("status")),
	}

	page, err := h.svc.List(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageResponse{
		Terms: toTermResponses(page.Terms),
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
		Pages: page.Pages,
	})
}

// BySlug handles GET /api/terms/slug/{slug}.
func (h *TermsHandler) BySlug(w http.ResponseWriter, r *http.Request) {
	term, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTermResponse(term))
}

// ByLetter handles GET /api/terms/letter/{letter}.
func (h *TermsHandler) ByLetter(w http.ResponseWriter, r *http.Request) {
	letter, terms, err := h.svc.ByLetter(r.Context(), chi.URLParam(r, "letter"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"letter": letter,
		"terms":  toTermResponses(terms),
		"count":  len(terms),
	})
}

// ByCategory handles GET /api/terms/category/{category}.
func (h *TermsHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	terms, err := h.svc.ByCategory(r.Context(), category)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"terms":    toTermResponses(terms),
		"count":    len(terms),
	})
}

// Search handles GET /api/terms/search.
func (h *TermsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	terms, err := h.svc.Search(r.Context(), q, queryInt(r, "limit"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query": q,
		"terms": toTermResponses(terms),
		"count": len(terms),
	})
}

// Categories handles GET /api/terms/categories.
func (h *TermsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Categories(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	categories := make([]map[string]any, 0, len(counts))
	for _, c := range counts {
		categories = append(categories, map[string]any{
			"category": c.Category,
			"count":    c.Count,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// Letters handles GET /api/terms/letters.
func (h *TermsHandler) Letters(w http.ResponseWriter, r *http.Request) {
	letters, err := h.svc.Letters(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if letters == nil {
		letters = map[string]int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"letters": letters})
}

// Stats handles GET /api/stats.
func (h *TermsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_terms": stats.Total,
		"published":   stats.Published,
		"drafts":      stats.Drafts,
		"categories":  stats.Categories,
	})
}

// queryInt parses an integer query parameter, 0 when absent or invalid.
func queryInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(key))
	return v
}
