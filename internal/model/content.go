// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the content entities served by the API.
// Translatable attributes live in Fields, keyed by the field name constants
// below; everything else is a plain struct field.
package model

import (
	"time"

	"github.com/olegiv/creative-api/internal/locale"
)

// Translatable field names.
const (
	FieldTitle       = "title"
	FieldExcerpt     = "excerpt"
	FieldContent     = "content"
	FieldReadTime    = "read_time"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldClient      = "client"
	FieldDetails     = "details"
	FieldName        = "name"
	FieldRole        = "role"
	FieldBio         = "bio"
	FieldThoughts    = "thoughts"
	FieldQuestion    = "question"
	FieldAnswer      = "answer"
)

// Blog post statuses
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// ValidPostStatuses contains all valid blog post statuses.
var ValidPostStatuses = []string{StatusPublished, StatusDraft}

// Tag labels blog posts.
type Tag struct {
	ID     int64         `json:"id"`
	Slug   string        `json:"slug"`
	Fields locale.Fields `json:"fields"`
}

// Technology labels portfolio items.
type Technology struct {
	ID     int64         `json:"id"`
	Slug   string        `json:"slug"`
	Fields locale.Fields `json:"fields"`
}

// Category groups blog posts.
type Category struct {
	ID     int64         `json:"id"`
	Order  int           `json:"order"`
	Fields locale.Fields `json:"fields"`
}

// Author is the user credited for a blog post.
type Author struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// BlogPost is a blog article.
type BlogPost struct {
	ID         int64         `json:"id"`
	Fields     locale.Fields `json:"fields"`
	Date       time.Time     `json:"date"`
	Image      string        `json:"image"`
	Status     string        `json:"status"`
	Author     *Author       `json:"author,omitempty"`
	Tags       []Tag         `json:"tags"`
	Categories []Category    `json:"categories"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// IsPublished reports whether the post is visible to the public.
func (p *BlogPost) IsPublished() bool {
	return p.Status == StatusPublished
}

// PortfolioItem is a showcased project.
type PortfolioItem struct {
	ID             int64         `json:"id"`
	Fields         locale.Fields `json:"fields"`
	Image          string        `json:"image"`
	URL            string        `json:"url"`
	CompletionDate *time.Time    `json:"completion_date,omitempty"`
	Technologies   []Technology  `json:"technologies"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// CategoryKey is the default-language category, used for grouping and
// filtering regardless of the active locale.
func (p *PortfolioItem) CategoryKey() string {
	return p.Fields[FieldCategory].Default
}

// ServiceFeature is one bullet point of a service.
type ServiceFeature struct {
	ID     int64         `json:"id"`
	Order  int           `json:"order"`
	Fields locale.Fields `json:"fields"`
}

// Service is an offered service. Its ID is a human-chosen string key.
type Service struct {
	ID        string           `json:"id"`
	Fields    locale.Fields    `json:"fields"`
	Image     string           `json:"image"`
	Pricing   string           `json:"pricing"`
	Features  []ServiceFeature `json:"features"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// SocialLink is a team member's profile on an external platform.
type SocialLink struct {
	ID       int64  `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Order    int    `json:"order"`
}

// TeamMember is a person shown on the team page.
type TeamMember struct {
	ID          int64         `json:"id"`
	Fields      locale.Fields `json:"fields"`
	Image       string        `json:"image"`
	Order       int           `json:"order"`
	SocialLinks []SocialLink  `json:"social_links"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Testimonial is a client quote.
type Testimonial struct {
	ID           int64         `json:"id"`
	Fields       locale.Fields `json:"fields"`
	InstagramURL string        `json:"instagram_url"`
	Order        int           `json:"order"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// FAQ is a question and answer pair.
type FAQ struct {
	ID        int64         `json:"id"`
	Fields    locale.Fields `json:"fields"`
	IsActive  bool          `json:"is_active"`
	Order     int           `json:"order"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
