// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/olegiv/creative-api/internal/format"
	"github.com/olegiv/creative-api/internal/model"
)

// SocialLinkResponse represents a team member's profile link.
type SocialLinkResponse struct {
	Platform     string `json:"platform"`
	PlatformName string `json:"platform_name"`
	URL          string `json:"url"`
}

// TeamMemberResponse represents a team member in API responses.
// Social maps platform keys to profile URLs.
type TeamMemberResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Role        string               `json:"role"`
	Bio         string               `json:"bio"`
	Image       string               `json:"image"`
	Order       int                  `json:"order"`
	SocialLinks []SocialLinkResponse `json:"social_links"`
	Social      map[string]string    `json:"social"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// TestimonialResponse represents a testimonial in API responses.
type TestimonialResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Thoughts     string    `json:"thoughts"`
	InstagramURL string    `json:"instagram_url"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (h *Handler) teamMemberResponse(m model.TeamMember, lang string) TeamMemberResponse {
	f := h.teamFields.Project(m.Fields, h.set, lang)

	links := make([]format.Link, len(m.SocialLinks))
	resp := TeamMemberResponse{
		ID:          m.ID,
		Name:        f[model.FieldName],
		Role:        f[model.FieldRole],
		Bio:         f[model.FieldBio],
		Image:       m.Image,
		Order:       m.Order,
		SocialLinks: make([]SocialLinkResponse, len(m.SocialLinks)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for i, l := range m.SocialLinks {
		links[i] = format.Link{Platform: l.Platform, URL: l.URL}
		resp.SocialLinks[i] = SocialLinkResponse{
			Platform:     l.Platform,
			PlatformName: format.PlatformName(l.Platform),
			URL:          l.URL,
		}
	}
	resp.Social = format.SocialMap(links)

	return resp
}

func (h *Handler) testimonialResponse(t model.Testimonial, lang string) TestimonialResponse {
	f := h.testimonialFields.Project(t.Fields, h.set, lang)
	return TestimonialResponse{
		ID:           t.ID,
		Name:         f[model.FieldName],
		Role:         f[model.FieldRole],
		Thoughts:     f[model.FieldThoughts],
		InstagramURL: t.InstagramURL,
		Order:        t.Order,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// ListTeamMembers handles GET /api/v1/team
func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	params := h.listParams(r)
	page, err := h.catalog.TeamMembers(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, "team members")
		return
	}
	writePage(w, page, func(m model.TeamMember) TeamMemberResponse {
		return h.teamMemberResponse(m, params.Lang)
	})
}

// GetTeamMember handles GET /api/v1/team/{id}
func (h *Handler) GetTeamMember(w http.ResponseWriter, r *http.Request) {
	m, ok := requireEntityByID(w, r, "team member", func(id int64) (model.TeamMember, error) {
		return h.catalog.TeamMember(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, h.teamMemberResponse(m, h.lang(r)), nil)
}

// ListTestimonials handles GET /api/v1/testimonials
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	params := h.listParams(r)
	page, err := h.catalog.Testimonials(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, "testimonials")
		return
	}
	writePage(w, page, func(t model.Testimonial) TestimonialResponse {
		return h.testimonialResponse(t, params.Lang)
	})
}

// GetTestimonial handles GET /api/v1/testimonials/{id}
func (h *Handler) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	t, ok := requireEntityByID(w, r, "testimonial", func(id int64) (model.Testimonial, error) {
		return h.catalog.Testimonial(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, h.testimonialResponse(t, h.lang(r)), nil)
}
