package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterDeps bundles the handlers and middleware the router wires up.
type RouterDeps struct {
	Terms  *TermsHandler
	Admin  *AdminHandler
	Auth   *AuthHandler
	Health *HealthHandler
	SEO    *SEOHandler

	// RequireAdmin guards the authenticated admin routes.
	RequireAdmin func(http.Handler) http.Handler

	// Global wraps every route; build it with middleware.Chain.
	Global func(http.Handler) http.Handler
}

// NewRouter builds the full route table under /api.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	if d.Global != nil {
		r.Use(d.Global)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", d.Health.Health)
		r.Get("/ready", d.Health.Ready)
		r.Get("/stats", d.Terms.Stats)
		r.Get("/sitemap.xml", d.SEO.Sitemap)
		r.Get("/robots.txt", d.SEO.Robots)

		r.Route("/terms", func(r chi.Router) {
			r.Get("/", d.Terms.List)
			r.Get("/search", d.Terms.Search)
			r.Get("/categories", d.Terms.Categories)
			r.Get("/letters", d.Terms.Letters)
			r.Get("/letter/{letter}", d.Terms.ByLetter)
			r.Get("/category/{category}", d.Terms.ByCategory)
			r.Get("/slug/{slug}", d.Terms.BySlug)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", d.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(d.RequireAdmin)

				r.Get("/me", d.Auth.Me)
				r.Post("/import", d.Admin.Import)
				r.Post("/batch-publish", d.Admin.BatchPublish)

				r.Route("/terms", func(r chi.Router) {
					r.Get("/", d.Admin.List)
					r.Post("/", d.Admin.Create)
					r.Get("/{id}", d.Admin.Get)
					r.Put("/{id}", d.Admin.Update)
					r.Delete("/{id}", d.Admin.Delete)
					r.Post("/{id}/publish", d.Admin.Publish)
					r.Post("/{id}/generate", d.Admin.Generate)
				})
			})
		})
	})

	return r
}
