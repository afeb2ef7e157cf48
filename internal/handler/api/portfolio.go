// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/creative-api/internal/format"
	"github.com/olegiv/creative-api/internal/model"
)

// TechnologyResponse represents a technology in API responses.
type TechnologyResponse struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// PortfolioItemResponse represents a portfolio item in API responses.
// CategoryKey is the untranslated category used by the category filter.
type PortfolioItemResponse struct {
	ID               int64                `json:"id"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	Category         string               `json:"category"`
	CategoryKey      string               `json:"category_key"`
	Client           string               `json:"client"`
	Image            string               `json:"image"`
	URL              string               `json:"url"`
	CompletionDate   *time.Time           `json:"completion_date"`
	Technologies     []TechnologyResponse `json:"technologies"`
	TechnologiesList string               `json:"technologies_list"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

func (h *Handler) portfolioItemResponse(it model.PortfolioItem, lang string) PortfolioItemResponse {
	f := h.portfolioFields.Project(it.Fields, h.set, lang)

	resp := PortfolioItemResponse{
		ID:             it.ID,
		Title:          f[model.FieldTitle],
		Description:    f[model.FieldDescription],
		Category:       f[model.FieldCategory],
		CategoryKey:    it.CategoryKey(),
		Client:         f[model.FieldClient],
		Image:          it.Image,
		URL:            it.URL,
		CompletionDate: it.CompletionDate,
		Technologies:   make([]TechnologyResponse, len(it.Technologies)),
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}

	names := make([]string, len(it.Technologies))
	for i, t := range it.Technologies {
		name := h.technologyName.Value(t.Fields, h.set, lang, model.FieldName)
		resp.Technologies[i] = TechnologyResponse{ID: t.ID, Slug: t.Slug, Name: name}
		names[i] = name
	}
	resp.TechnologiesList = format.RelatedList(names)

	return resp
}

// ListPortfolioItems handles GET /api/v1/portfolio
func (h *Handler) ListPortfolioItems(w http.ResponseWriter, r *http.Request) {
	h.listPortfolio(w, r, "")
}

// ListPortfolioByCategory handles GET /api/v1/portfolio/category/{category}
func (h *Handler) ListPortfolioByCategory(w http.ResponseWriter, r *http.Request) {
	h.listPortfolio(w, r, chi.URLParam(r, "category"))
}

func (h *Handler) listPortfolio(w http.ResponseWriter, r *http.Request, category string) {
	params := h.listParams(r)
	if category != "" {
		params.Category = category
	}

	page, err := h.catalog.PortfolioItems(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, "portfolio items")
		return
	}
	writePage(w, page, func(it model.PortfolioItem) PortfolioItemResponse {
		return h.portfolioItemResponse(it, params.Lang)
	})
}

// GetPortfolioItem handles GET /api/v1/portfolio/{id}
func (h *Handler) GetPortfolioItem(w http.ResponseWriter, r *http.Request) {
	item, ok := requireEntityByID(w, r, "portfolio item", func(id int64) (model.PortfolioItem, error) {
		return h.catalog.PortfolioItem(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, h.portfolioItemResponse(item, h.lang(r)), nil)
}

// ListPortfolioCategories handles GET /api/v1/portfolio/categories
// Returns every category in use with its item count.
func (h *Handler) ListPortfolioCategories(w http.ResponseWriter, r *http.Request) {
	groups, err := h.catalog.PortfolioCategories(r.Context(), h.lang(r))
	if err != nil {
		writeServiceError(w, r, err, "portfolio categories")
		return
	}
	WriteSuccess(w, groups, nil)
}
