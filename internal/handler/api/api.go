// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the public REST API for site content.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/middleware"
	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/nav"
	"github.com/olegiv/creative-api/internal/scheduler"
	"github.com/olegiv/creative-api/internal/service"
)

// Deps holds the services the API serves from.
type Deps struct {
	Catalog    *service.Catalog
	Navigation *service.NavigationService
	Contact    *service.ContactService
	Events     *service.EventService
	Content    *service.Content
	Jobs       *scheduler.Registry // optional

	// PageSize is the default per_page. Zero means service.DefaultPerPage.
	PageSize int
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	catalog    *service.Catalog
	navigation *service.NavigationService
	contact    *service.ContactService
	events     *service.EventService
	content    *service.Content
	jobs       *scheduler.Registry
	set        *locale.Set
	pageSize   int

	blogFields        *locale.Projector
	portfolioFields   *locale.Projector
	serviceFields     *locale.Projector
	teamFields        *locale.Projector
	testimonialFields *locale.Projector
	faqFields         *locale.Projector
	tagName           *locale.Projector
	technologyName    *locale.Projector
	categoryName      *locale.Projector
	featureName       *locale.Projector
}

// NewHandler creates the API handler. It validates every response field
// against its entity schema and fails when one is not declared translatable.
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Catalog == nil || deps.Navigation == nil || deps.Contact == nil || deps.Content == nil {
		return nil, errors.New("api: catalog, navigation, contact and content services are required")
	}

	h := &Handler{
		catalog:    deps.Catalog,
		navigation: deps.Navigation,
		contact:    deps.Contact,
		events:     deps.Events,
		content:    deps.Content,
		jobs:       deps.Jobs,
		pageSize:   deps.PageSize,
		set:        deps.Catalog.Set(),
	}

	specs := []struct {
		dst    **locale.Projector
		schema *locale.Schema
		fields []string
	}{
		{&h.blogFields, model.BlogPostSchema, []string{model.FieldTitle, model.FieldExcerpt, model.FieldContent, model.FieldReadTime}},
		{&h.portfolioFields, model.PortfolioItemSchema, []string{model.FieldTitle, model.FieldDescription, model.FieldCategory, model.FieldClient}},
		{&h.serviceFields, model.ServiceSchema, []string{model.FieldTitle, model.FieldDescription, model.FieldDetails}},
		{&h.teamFields, model.TeamMemberSchema, []string{model.FieldName, model.FieldRole, model.FieldBio}},
		{&h.testimonialFields, model.TestimonialSchema, []string{model.FieldName, model.FieldRole, model.FieldThoughts}},
		{&h.faqFields, model.FAQSchema, []string{model.FieldQuestion, model.FieldAnswer}},
		{&h.tagName, model.TagSchema, []string{model.FieldName}},
		{&h.technologyName, model.TechnologySchema, []string{model.FieldName}},
		{&h.categoryName, model.CategorySchema, []string{model.FieldName}},
		{&h.featureName, model.ServiceFeatureSchema, []string{model.FieldName}},
	}
	for _, s := range specs {
		p, err := locale.NewProjector(s.schema, s.fields...)
		if err != nil {
			return nil, fmt.Errorf("api response fields: %w", err)
		}
		*s.dst = p
	}
	if h.pageSize <= 0 {
		h.pageSize = service.DefaultPerPage
	}
	return h, nil
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Pages   int `json:"pages"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message, Details: details},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// WriteDataIntegrityError writes a 500 response for stored data that cannot be
// served, such as a navigation cycle.
func WriteDataIntegrityError(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusInternalServerError, "data_integrity", message, details)
}

// writeServiceError maps service errors to responses. entity names the
// resource in not-found messages.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, entity string) {
	var (
		orderErr *service.OrderingError
		validErr *service.ValidationError
		cycleErr *nav.CycleError
	)
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, capitalizeFirst(entity)+" not found")
	case errors.As(err, &orderErr):
		WriteBadRequest(w, "Invalid ordering", map[string]string{
			"ordering": orderErr.Error(),
		})
	case errors.As(err, &validErr):
		WriteValidationError(w, validErr.Fields)
	case errors.As(err, &cycleErr):
		WriteDataIntegrityError(w, "Navigation data contains a cycle", map[string]string{
			"node_id": strconv.FormatInt(cycleErr.NodeID, 10),
		})
	case errors.Is(err, nav.ErrDuplicateID):
		WriteDataIntegrityError(w, "Navigation data contains duplicate IDs", nil)
	default:
		slog.Error("api request failed", "error", err, "path", r.URL.Path, "entity", entity)
		WriteInternalError(w, "Failed to retrieve "+entity)
	}
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// lang returns the negotiated language, or the default when the Language
// middleware did not run.
func (h *Handler) lang(r *http.Request) string {
	if code := middleware.GetLanguage(r); code != "" {
		return code
	}
	return h.set.Default()
}

// listParams reads the common list query parameters. Malformed page numbers
// fall back to their defaults.
func (h *Handler) listParams(r *http.Request) service.ListParams {
	q := r.URL.Query()
	return service.ListParams{
		Lang:       h.lang(r),
		Search:     strings.TrimSpace(q.Get("search")),
		Status:     strings.TrimSpace(q.Get("status")),
		Category:   strings.TrimSpace(q.Get("category")),
		Tag:        strings.TrimSpace(q.Get("tag")),
		Technology: strings.TrimSpace(q.Get("technology")),
		Client:     strings.TrimSpace(q.Get("client")),
		Ordering:   q.Get("ordering"),
		Page:       parsePositiveInt(q.Get("page"), 1),
		PerPage:    parsePositiveInt(q.Get("per_page"), h.pageSize),
	}
}

func parsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// parseIDParam parses the {id} URL parameter as an int64.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// pageMeta converts a service page to response metadata.
func pageMeta[T any](p service.Page[T]) *Meta {
	return &Meta{Total: p.Total, Page: p.Page, PerPage: p.PerPage, Pages: p.Pages()}
}

// writePage projects each item of p and writes the list with pagination meta.
func writePage[T, R any](w http.ResponseWriter, p service.Page[T], project func(T) R) {
	out := make([]R, len(p.Items))
	for i, it := range p.Items {
		out[i] = project(it)
	}
	WriteSuccess(w, out, pageMeta(p))
}

// requireEntityByID parses the {id} URL parameter and fetches the entity.
// Returns false if a response was written.
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entity string, fetch func(id int64) (T, error)) (T, bool) {
	var zero T

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entity+" ID", nil)
		return zero, false
	}

	v, err := fetch(id)
	if err != nil {
		writeServiceError(w, r, err, entity)
		return zero, false
	}
	return v, true
}
