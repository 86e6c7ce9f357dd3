package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
	"github.com/ezbjus/bariwikiemerg/internal/service/glossary"
	"github.com/ezbjus/bariwikiemerg/internal/service/importer"
)

// maxImportSize caps uploaded import files at 10 MiB.
const maxImportSize = 10 << 20

// adminGlossaryService defines the lifecycle operations needed by AdminHandler.
type adminGlossaryService interface {
	List(ctx context.Context, filter domain.TermFilter) (glossary.Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error)
	Create(ctx context.Context, in glossary.CreateInput) (*domain.Term, error)
	Update(ctx context.Context, id uuid.UUID, in glossary.UpdateInput) (*domain.Term, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Publish(ctx context.Context, id uuid.UUID) error
	PublishAll(ctx context.Context) (int, error)
}

// importService defines the bulk import operation needed by AdminHandler.
type importService interface {
	Import(ctx context.Context, filename string, data []byte) (importer.Result, error)
}

// generateService defines the content generation operation needed by AdminHandler.
type generateService interface {
	GenerateForTerm(ctx context.Context, id uuid.UUID) (*domain.Term, error)
}

// AdminHandler serves the authenticated admin endpoints.
type AdminHandler struct {
	glossary adminGlossaryService
	importer importService
	gen      generateService
	log      *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(g adminGlossaryService, imp importService, gen generateService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		glossary: g,
		importer: imp,
		gen:      gen,
		log:      logger.With("handler", "admin"),
	}
}

type createTermRequest struct {
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	ShortDescription string                 `json:"short_description"`
	Category         string                 `json:"category"`
	RelatedTerms     []string               `json:"related_terms"`
	AuthorityLinks   []domain.AuthorityLink `json:"authority_links"`
	Status           string                 `json:"status"`
}

type updateTermRequest struct {
	Name             *string                 `json:"name"`
	Description      *string                 `json:"description"`
	ShortDescription *string                 `json:"short_description"`
	Category         *string                 `json:"category"`
	RelatedTerms     *[]string               `json:"related_terms"`
	AuthorityLinks   *[]domain.AuthorityLink `json:"authority_links"`
	Status           *string                 `json:"status"`
}

// List handles GET /api/admin/terms. Unlike the public listing it accepts
// a name search and returns drafts.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.TermFilter{
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
		Status:     domain.Status(r.URL.Query().Get("status")),
		NameSearch: r.URL.Query().Get("search"),
	}

	page, err := h.glossary.List(r.Context(), filter)
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

// Get handles GET /api/admin/terms/{id}.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := termID(w, r)
	if !ok {
		return
	}

	term, err := h.glossary.GetByID(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTermResponse(term))
}

// Create handles POST /api/admin/terms.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	term, err := h.glossary.Create(r.Context(), glossary.CreateInput{
		Name:             req.Name,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Category:         req.Category,
		RelatedTerms:     req.RelatedTerms,
		AuthorityLinks:   req.AuthorityLinks,
		Status:           req.Status,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTermResponse(term))
}

// Update handles PUT /api/admin/terms/{id}.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := termID(w, r)
	if !ok {
		return
	}

	var req updateTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	term, err := h.glossary.Update(r.Context(), id, glossary.UpdateInput{
		Name:             req.Name,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Category:         req.Category,
		RelatedTerms:     req.RelatedTerms,
		AuthorityLinks:   req.AuthorityLinks,
		Status:           req.Status,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTermResponse(term))
}

// Delete handles DELETE /api/admin/terms/{id}.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := termID(w, r)
	if !ok {
		return
	}

	if err := h.glossary.Delete(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Term deleted successfully"})
}

// Publish handles POST /api/admin/terms/{id}/publish.
func (h *AdminHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := termID(w, r)
	if !ok {
		return
	}

	if err := h.glossary.Publish(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Term published successfully"})
}

// BatchPublish handles POST /api/admin/batch-publish.
func (h *AdminHandler) BatchPublish(w http.ResponseWriter, r *http.Request) {
	n, err := h.glossary.PublishAll(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%d terms published", n),
	})
}

// Import handles POST /api/admin/import (multipart form, field "file").
func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	res, err := h.importer.Import(r.Context(), header.Filename, data)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  fmt.Sprintf("Import complete: %d terms imported, %d skipped (duplicates)", res.Imported, res.Skipped),
		"imported": res.Imported,
		"skipped":  res.Skipped,
	})
}

// Generate handles POST /api/admin/terms/{id}/generate.
func (h *AdminHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id, ok := termID(w, r)
	if !ok {
		return
	}

	term, err := h.gen.GenerateForTerm(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Description generated successfully",
		"term":    toTermResponse(term),
	})
}

// termID parses the {id} route parameter, writing a 400 on failure.
func termID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid term ID")
		return uuid.Nil, false
	}
	return id, true
}
