// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/creative-api/internal/model"
)

// FAQResponse represents a FAQ entry in API responses.
type FAQResponse struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Order    int    `json:"order"`
}

func (h *Handler) faqResponse(f model.FAQ, lang string) FAQResponse {
	v := h.faqFields.Project(f.Fields, h.set, lang)
	return FAQResponse{
		ID:       f.ID,
		Question: v[model.FieldQuestion],
		Answer:   v[model.FieldAnswer],
		Order:    f.Order,
	}
}

// ListFAQs handles GET /api/v1/faqs
// Inactive entries are never listed.
func (h *Handler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	params := h.listParams(r)
	page, err := h.catalog.FAQs(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, "FAQs")
		return
	}
	writePage(w, page, func(f model.FAQ) FAQResponse {
		return h.faqResponse(f, params.Lang)
	})
}

// GetFAQ handles GET /api/v1/faqs/{id}
func (h *Handler) GetFAQ(w http.ResponseWriter, r *http.Request) {
	f, ok := requireEntityByID(w, r, "FAQ", func(id int64) (model.FAQ, error) {
		return h.catalog.FAQ(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, h.faqResponse(f, h.lang(r)), nil)
}
