// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/service"
)

// maxContactBody bounds the contact form request body.
const maxContactBody = 64 << 10

// ContactCreatedResponse is returned to the submitter of a contact form.
type ContactCreatedResponse struct {
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateContactInquiry handles POST /api/v1/contact
func (h *Handler) CreateContactInquiry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)

	var in service.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large", nil)
			return
		}
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	inquiry, err := h.contact.Submit(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "contact inquiry")
		return
	}

	WriteCreated(w, ContactCreatedResponse{
		Reference: inquiry.Reference,
		Status:    inquiry.Status,
		CreatedAt: inquiry.CreatedAt,
	})
}

// ListContactInquiries handles GET /api/v1/contact
// Admin only. Optional ?status=new|handled filter.
func (h *Handler) ListContactInquiries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if status != "" && !slices.Contains([]string{model.InquiryNew, model.InquiryHandled}, status) {
		WriteBadRequest(w, "Invalid status", map[string]string{
			"status": "Must be one of: new, handled",
		})
		return
	}

	page, err := h.contact.List(r.Context(), status,
		parsePositiveInt(q.Get("page"), 1),
		parsePositiveInt(q.Get("per_page"), service.DefaultPerPage))
	if err != nil {
		writeServiceError(w, r, err, "contact inquiries")
		return
	}
	WriteSuccess(w, page.Items, pageMeta(page))
}

// GetContactInquiry handles GET /api/v1/contact/{id}
// Admin only. {id} is the numeric ID or the public reference.
func (h *Handler) GetContactInquiry(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")

	var (
		inquiry model.ContactInquiry
		err     error
	)
	if id, perr := strconv.ParseInt(key, 10, 64); perr == nil {
		inquiry, err = h.contact.Get(r.Context(), id)
	} else {
		inquiry, err = h.contact.ByReference(r.Context(), key)
	}
	if err != nil {
		writeServiceError(w, r, err, "contact inquiry")
		return
	}
	WriteSuccess(w, inquiry, nil)
}

// MarkContactHandled handles POST /api/v1/contact/{id}/handled
// Admin only.
func (h *Handler) MarkContactHandled(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid contact inquiry ID", nil)
		return
	}
	if err := h.contact.MarkHandled(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "contact inquiry")
		return
	}
	inquiry, err := h.contact.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "contact inquiry")
		return
	}
	WriteSuccess(w, inquiry, nil)
}
