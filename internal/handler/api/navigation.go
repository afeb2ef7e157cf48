// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/service"
)

// GetNavigation handles GET /api/v1/navigation
// Returns the header navigation forest for the request language. A cycle in
// the stored links is reported as a data integrity error, never as a partial
// tree.
func (h *Handler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	tree, err := h.navigation.Tree(r.Context(), h.lang(r))
	if err != nil {
		writeServiceError(w, r, err, "navigation")
		return
	}
	WriteSuccess(w, tree, nil)
}

// LanguagesResponse lists the supported languages.
type LanguagesResponse struct {
	Default   string           `json:"default"`
	Current   string           `json:"current"`
	Languages []model.Language `json:"languages"`
}

// ListLanguages handles GET /api/v1/languages
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, LanguagesResponse{
		Default:   h.set.Default(),
		Current:   h.lang(r),
		Languages: service.Languages(h.set),
	}, nil)
}
