// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/creative-api/internal/format"
	"github.com/olegiv/creative-api/internal/middleware"
	"github.com/olegiv/creative-api/internal/model"
)

// AuthorResponse is the public view of a post author.
type AuthorResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// CategoryResponse represents a blog category in API responses.
type CategoryResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
	Count *int   `json:"count,omitempty"`
}

// BlogPostResponse represents a blog post in API responses.
type BlogPostResponse struct {
	ID             int64              `json:"id"`
	Title          string             `json:"title"`
	Excerpt        string             `json:"excerpt"`
	Content        string             `json:"content"`
	ContentHTML    string             `json:"content_html"`
	ReadTime       string             `json:"read_time"`
	Date           time.Time          `json:"date"`
	Image          string             `json:"image"`
	Status         string             `json:"status"`
	Author         *AuthorResponse    `json:"author,omitempty"`
	Tags           []TagResponse      `json:"tags"`
	TagsList       string             `json:"tags_list"`
	Categories     []CategoryResponse `json:"categories"`
	CategoriesList string             `json:"categories_list"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func (h *Handler) blogPostResponse(p model.BlogPost, lang string) BlogPostResponse {
	f := h.blogFields.Project(p.Fields, h.set, lang)

	resp := BlogPostResponse{
		ID:          p.ID,
		Title:       f[model.FieldTitle],
		Excerpt:     f[model.FieldExcerpt],
		Content:     f[model.FieldContent],
		ContentHTML: renderMarkdown(f[model.FieldContent], "blog_post", p.ID),
		ReadTime:    f[model.FieldReadTime],
		Date:        p.Date,
		Image:       p.Image,
		Status:      p.Status,
		Tags:        make([]TagResponse, len(p.Tags)),
		Categories:  make([]CategoryResponse, len(p.Categories)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if p.Author != nil {
		resp.Author = &AuthorResponse{
			ID:        p.Author.ID,
			Username:  p.Author.Username,
			FirstName: p.Author.FirstName,
			LastName:  p.Author.LastName,
			FullName:  strings.TrimSpace(p.Author.FirstName + " " + p.Author.LastName),
		}
	}

	tagNames := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		name := h.tagName.Value(t.Fields, h.set, lang, model.FieldName)
		resp.Tags[i] = TagResponse{ID: t.ID, Slug: t.Slug, Name: name}
		tagNames[i] = name
	}
	catNames := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		resp.Categories[i] = h.categoryResponse(c, lang)
		catNames[i] = resp.Categories[i].Name
	}
	resp.TagsList = format.RelatedList(tagNames)
	resp.CategoriesList = format.RelatedList(catNames)

	return resp
}

func (h *Handler) categoryResponse(c model.Category, lang string) CategoryResponse {
	return CategoryResponse{
		ID:    c.ID,
		Name:  h.categoryName.Value(c.Fields, h.set, lang, model.FieldName),
		Order: c.Order,
	}
}

// renderMarkdown converts stored Markdown to sanitized HTML. A render failure
// is logged and yields sanitized source text.
func renderMarkdown(src, entity string, id any) string {
	out, err := format.Markdown(src)
	if err != nil {
		slog.Warn("markdown render failed", "entity", entity, "id", id, "error", err)
		return format.SanitizeHTML(src)
	}
	return out
}

// checkStatusAccess rejects unknown statuses and non-published listings for
// callers without the admin token. Returns false if a response was written.
func checkStatusAccess(w http.ResponseWriter, r *http.Request, status string) bool {
	if status == "" || status == model.StatusPublished {
		return true
	}
	if !slices.Contains(model.ValidPostStatuses, status) {
		WriteBadRequest(w, "Invalid status", map[string]string{
			"status": "Must be one of: " + strings.Join(model.ValidPostStatuses, ", "),
		})
		return false
	}
	if !middleware.IsAdmin(r) {
		WriteForbidden(w, "Listing unpublished posts requires the admin token")
		return false
	}
	return true
}

// ListBlogPosts handles GET /api/v1/blog
func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	params := h.listParams(r)
	if !checkStatusAccess(w, r, params.Status) {
		return
	}

	page, err := h.catalog.BlogPosts(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, "blog posts")
		return
	}
	writePage(w, page, func(p model.BlogPost) BlogPostResponse {
		return h.blogPostResponse(p, params.Lang)
	})
}

// ListBlogPostsByCategory handles GET /api/v1/blog/category/{category}
func (h *Handler) ListBlogPostsByCategory(w http.ResponseWriter, r *http.Request) {
	params := h.listParams(r)
	params.Category = chi.URLParam(r, "category")
	params.Status = ""

	page, err := h.catalog.BlogPosts(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, "blog posts")
		return
	}
	writePage(w, page, func(p model.BlogPost) BlogPostResponse {
		return h.blogPostResponse(p, params.Lang)
	})
}

// GetBlogPost handles GET /api/v1/blog/{id}
// Drafts are visible with the admin token only.
func (h *Handler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, ok := requireEntityByID(w, r, "blog post", func(id int64) (model.BlogPost, error) {
		return h.catalog.BlogPost(r.Context(), id, middleware.IsAdmin(r))
	})
	if !ok {
		return
	}
	WriteSuccess(w, h.blogPostResponse(post, h.lang(r)), nil)
}

// ListBlogCategories handles GET /api/v1/blog/categories
// Each category carries its published post count.
func (h *Handler) ListBlogCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.BlogCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "categories")
		return
	}

	lang := h.lang(r)
	out := make([]CategoryResponse, len(cats))
	for i, c := range cats {
		out[i] = h.categoryResponse(c.Category, lang)
		count := c.Count
		out[i].Count = &count
	}
	WriteSuccess(w, out, nil)
}
