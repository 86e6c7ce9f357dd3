package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// seoService defines the read operations needed by the sitemap builder.
type seoService interface {
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
	AllPublished(ctx context.Context) ([]domain.Term, error)
}

// SEOHandler serves sitemap.xml and robots.txt for the public site.
type SEOHandler struct {
	svc     seoService
	baseURL string
	log     *slog.Logger
}

// NewSEOHandler creates a SEOHandler. baseURL is the public site origin
// without a trailing slash.
func NewSEOHandler(svc seoService, baseURL string, logger *slog.Logger) *SEOHandler {
	return &SEOHandler{
		svc:     svc,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.With("handler", "seo"),
	}
}

// Sitemap handles GET /api/sitemap.xml. Static pages and A-Z browse pages
// are always listed; category and term pages come from the published set.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	terms, err := h.svc.AllPublished(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	today := time.Now().UTC().Format("2006-01-02")

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"` + "\n")
	b.WriteString(`        xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">` + "\n")

	writeURL(&b, h.baseURL+"/", today, "daily", "1.0")
	writeURL(&b, h.baseURL+"/resources", today, "weekly", "0.8")
	writeURL(&b, h.baseURL+"/disclaimer", today, "monthly", "0.5")

	for c := 'a'; c <= 'z'; c++ {
		writeURL(&b, fmt.Sprintf("%s/browse/%c", h.baseURL, c), "", "weekly", "0.8")
	}

	for _, c := range categories {
		slug := strings.ReplaceAll(c.Category, " ", "%20")
		writeURL(&b, h.baseURL+"/category/"+slug, "", "weekly", "0.7")
	}

	for _, t := range terms {
		lastmod := t.UpdatedAt.Format("2006-01-02")
		writeURL(&b, h.baseURL+"/wiki/"+t.Slug, lastmod, "monthly", "0.6")
	}

	b.WriteString("</urlset>")

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(b.String())) //nolint:errcheck
}

func writeURL(b *strings.Builder, loc, lastmod, changefreq, priority string) {
	b.WriteString("  <url>\n")
	fmt.Fprintf(b, "    <loc>%s</loc>\n", loc)
	if lastmod != "" {
		fmt.Fprintf(b, "    <lastmod>%s</lastmod>\n", lastmod)
	}
	fmt.Fprintf(b, "    <changefreq>%s</changefreq>\n", changefreq)
	fmt.Fprintf(b, "    <priority>%s</priority>\n", priority)
	b.WriteString("  </url>\n")
}

// Robots handles GET /api/robots.txt. AI crawlers are allowed on purpose;
// glossary content is meant to be citable.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content := fmt.Sprintf(`# BariWiki - Bariatric Surgery Encyclopedia
# %[1]s

User-agent: *
Allow: /
Disallow: /admin
Disallow: /admin/*

# Sitemaps
Sitemap: %[1]s/api/sitemap.xml

# Crawl-delay for politeness
Crawl-delay: 1

# Google-specific
User-agent: Googlebot
Allow: /

# Bing-specific
User-agent: Bingbot
Allow: /

# Allow AI crawlers for AEO
User-agent: GPTBot
Allow: /

User-agent: ChatGPT-User
Allow: /

User-agent: Google-Extended
Allow: /

User-agent: anthropic-ai
Allow: /

User-agent: Claude-Web
Allow: /
`, h.baseURL)

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content)) //nolint:errcheck
}
