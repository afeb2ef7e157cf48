// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer moves site content and its translations in and out of the
// database as a single JSON document.
package transfer

import (
	"time"

	"github.com/olegiv/creative-api/internal/model"
)

// DocumentVersion is the current version of the document format.
const DocumentVersion = "1"

// Document is the complete content export. Contact inquiries and audit events
// are not part of it.
type Document struct {
	Version         string                `json:"version"`
	ExportedAt      time.Time             `json:"exported_at"`
	DefaultLanguage string                `json:"default_language"`
	Languages       []string              `json:"languages"`
	Tags            []model.Tag           `json:"tags"`
	Technologies    []model.Technology    `json:"technologies"`
	Categories      []model.Category      `json:"categories"`
	BlogPosts       []model.BlogPost      `json:"blog_posts"`
	PortfolioItems  []model.PortfolioItem `json:"portfolio_items"`
	Services        []model.Service       `json:"services"`
	TeamMembers     []model.TeamMember    `json:"team_members"`
	Testimonials    []model.Testimonial   `json:"testimonials"`
	FAQs            []model.FAQ           `json:"faqs"`
	NavLinks        []model.NavLink       `json:"nav_links"`
}

// Entity keys used in ImportResult counts and errors.
const (
	KindDocument = "document"
	KindAuthors  = "authors"
)

// ImportOptions configures an import.
type ImportOptions struct {
	// DryRun validates the document and counts entities without writing.
	DryRun bool `json:"dry_run"`
}

// ImportError describes one problem found in a document.
type ImportError struct {
	Entity  string `json:"entity"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

func (e ImportError) String() string {
	if e.ID == "" {
		return e.Entity + ": " + e.Message
	}
	return e.Entity + " " + e.ID + ": " + e.Message
}

// ImportResult reports what an import wrote, or would write on a dry run.
type ImportResult struct {
	DryRun bool           `json:"dry_run"`
	Counts map[string]int `json:"counts"`
	Errors []ImportError  `json:"errors,omitempty"`
}

// NewImportResult creates an empty result.
func NewImportResult(dryRun bool) *ImportResult {
	return &ImportResult{DryRun: dryRun, Counts: make(map[string]int)}
}

// AddError records a validation problem.
func (r *ImportResult) AddError(entity, id, message string) {
	r.Errors = append(r.Errors, ImportError{Entity: entity, ID: id, Message: message})
}

// HasErrors reports whether any problem was recorded.
func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Total returns the number of entities counted.
func (r *ImportResult) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}
