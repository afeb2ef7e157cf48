// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/store"
)

// Exporter reads all content into a Document.
type Exporter struct {
	queries *store.Queries
	set     *locale.Set
	logger  *slog.Logger
}

// NewExporter creates a new Exporter.
func NewExporter(queries *store.Queries, set *locale.Set, logger *slog.Logger) *Exporter {
	return &Exporter{queries: queries, set: set, logger: logger}
}

// Export reads every entity inside one transaction.
func (e *Exporter) Export(ctx context.Context) (*Document, error) {
	doc := &Document{
		Version:         DocumentVersion,
		ExportedAt:      time.Now().UTC(),
		DefaultLanguage: e.set.Default(),
		Languages:       e.set.Codes(),
	}

	err := e.queries.InTx(ctx, func(q *store.Queries) error {
		var err error
		if doc.Tags, err = q.Tags(ctx); err != nil {
			return err
		}
		if doc.Technologies, err = q.Technologies(ctx); err != nil {
			return err
		}
		if doc.Categories, err = q.Categories(ctx); err != nil {
			return err
		}
		if doc.BlogPosts, err = q.BlogPosts(ctx); err != nil {
			return err
		}
		if doc.PortfolioItems, err = q.PortfolioItems(ctx); err != nil {
			return err
		}
		if doc.Services, err = q.Services(ctx); err != nil {
			return err
		}
		if doc.TeamMembers, err = q.TeamMembers(ctx); err != nil {
			return err
		}
		if doc.Testimonials, err = q.Testimonials(ctx); err != nil {
			return err
		}
		if doc.FAQs, err = q.FAQs(ctx); err != nil {
			return err
		}
		doc.NavLinks, err = q.NavLinks(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("exporting content: %w", err)
	}

	e.logger.Info("content exported",
		"blog_posts", len(doc.BlogPosts),
		"portfolio_items", len(doc.PortfolioItems),
		"services", len(doc.Services),
		"nav_links", len(doc.NavLinks),
	)
	return doc, nil
}

// ExportToWriter writes the export as indented JSON.
func (e *Exporter) ExportToWriter(ctx context.Context, w io.Writer) error {
	doc, err := e.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// ExportToFile writes the export to path, replacing any existing file.
func (e *Exporter) ExportToFile(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := e.ExportToWriter(ctx, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
