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

// FeatureResponse represents a service feature in API responses.
type FeatureResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// ServiceResponse represents a service in API responses.
type ServiceResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Details      string            `json:"details"`
	DetailsHTML  string            `json:"details_html"`
	Image        string            `json:"image"`
	Pricing      string            `json:"pricing"`
	Features     []FeatureResponse `json:"features"`
	FeaturesList string            `json:"features_list"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (h *Handler) serviceResponse(s model.Service, lang string) ServiceResponse {
	f := h.serviceFields.Project(s.Fields, h.set, lang)

	resp := ServiceResponse{
		ID:          s.ID,
		Title:       f[model.FieldTitle],
		Description: f[model.FieldDescription],
		Details:     f[model.FieldDetails],
		DetailsHTML: renderMarkdown(f[model.FieldDetails], "service", s.ID),
		Image:       s.Image,
		Pricing:     s.Pricing,
		Features:    make([]FeatureResponse, len(s.Features)),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}

	names := make([]string, len(s.Features))
	for i, ft := range s.Features {
		name := h.featureName.Value(ft.Fields, h.set, lang, model.FieldName)
		resp.Features[i] = FeatureResponse{ID: ft.ID, Name: name, Order: ft.Order}
		names[i] = name
	}
	resp.FeaturesList = format.RelatedList(names)

	return resp
}

// ListServices handles GET /api/v1/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	params := h.listParams(r)
	page, err := h.catalog.Services(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, "services")
		return
	}
	writePage(w, page, func(s model.Service) ServiceResponse {
		return h.serviceResponse(s, params.Lang)
	})
}

// GetService handles GET /api/v1/services/{id}
// Service IDs are string keys such as "web-development".
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	s, err := h.catalog.Service(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "service")
		return
	}
	WriteSuccess(w, h.serviceResponse(s, h.lang(r)), nil)
}
