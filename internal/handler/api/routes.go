// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/creative-api/internal/middleware"
)

// RouteConfig configures access control for the API routes.
type RouteConfig struct {
	// AdminToken guards inquiry, event and cache routes. Empty disables them.
	AdminToken string

	// ContactLimiter rate limits contact form submissions. Nil disables it.
	ContactLimiter *middleware.GlobalRateLimiter
}

// Routes returns the /api/v1 router.
func (h *Handler) Routes(cfg RouteConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Language(h.set))
	r.Use(middleware.OptionalAdminToken(cfg.AdminToken))

	r.Route("/blog", func(r chi.Router) {
		r.Get("/", h.ListBlogPosts)
		r.Get("/categories", h.ListBlogCategories)
		r.Get("/category/{category}", h.ListBlogPostsByCategory)
		r.Get("/{id}", h.GetBlogPost)
	})

	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/", h.ListPortfolioItems)
		r.Get("/categories", h.ListPortfolioCategories)
		r.Get("/category/{category}", h.ListPortfolioByCategory)
		r.Get("/{id}", h.GetPortfolioItem)
	})

	r.Get("/services", h.ListServices)
	r.Get("/services/{id}", h.GetService)
	r.Get("/team", h.ListTeamMembers)
	r.Get("/team/{id}", h.GetTeamMember)
	r.Get("/testimonials", h.ListTestimonials)
	r.Get("/testimonials/{id}", h.GetTestimonial)
	r.Get("/faqs", h.ListFAQs)
	r.Get("/faqs/{id}", h.GetFAQ)
	r.Get("/navigation", h.GetNavigation)
	r.Get("/languages", h.ListLanguages)

	r.Route("/contact", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.ContactLimiter != nil {
				r.Use(cfg.ContactLimiter.Middleware())
			}
			r.Post("/", h.CreateContactInquiry)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminToken(cfg.AdminToken))
			r.Get("/", h.ListContactInquiries)
			r.Get("/{id}", h.GetContactInquiry)
			r.Post("/{id}/handled", h.MarkContactHandled)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminToken(cfg.AdminToken))
		r.Get("/events", h.ListEvents)
		r.Get("/cache", h.GetCacheStatus)
		r.Post("/cache/invalidate", h.InvalidateCache)
		r.Get("/jobs", h.ListJobs)
		r.Post("/jobs/{name}/run", h.TriggerJob)
	})

	return r
}
