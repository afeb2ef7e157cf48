// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/nav"
	"github.com/olegiv/creative-api/internal/store"
	"github.com/olegiv/creative-api/internal/util"
)

// ErrValidation is returned when a document fails validation. The problems
// are listed in the ImportResult.
var ErrValidation = errors.New("transfer: validation failed")

// Invalidator drops cached content after a successful import.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// EventLogger records the import in the audit log.
type EventLogger interface {
	LogInfo(ctx context.Context, category, message string, metadata map[string]any) error
}

// Importer validates a Document and upserts its content.
type Importer struct {
	queries *store.Queries
	set     *locale.Set
	cache   Invalidator
	events  EventLogger
	logger  *slog.Logger
}

// NewImporter creates an Importer. cache and events may be nil.
func NewImporter(queries *store.Queries, set *locale.Set, cache Invalidator, events EventLogger, logger *slog.Logger) *Importer {
	return &Importer{
		queries: queries.WithDefaultLanguage(set.Default()),
		set:     set,
		cache:   cache,
		events:  events,
		logger:  logger,
	}
}

// Import validates doc and, unless opts.DryRun is set, writes it in a single
// transaction. Entities are matched by ID and updated in place; entities
// missing from doc are left untouched.
func (i *Importer) Import(ctx context.Context, doc *Document, opts ImportOptions) (*ImportResult, error) {
	result := NewImportResult(opts.DryRun)

	problems, err := i.Validate(ctx, doc)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		result.Errors = problems
		return result, ErrValidation
	}

	if opts.DryRun {
		count(doc, result)
		return result, nil
	}

	err = i.queries.InTx(ctx, func(q *store.Queries) error {
		return i.write(ctx, q, doc, result)
	})
	if err != nil {
		return nil, fmt.Errorf("importing content: %w", err)
	}

	if i.cache != nil {
		if err := i.cache.Invalidate(ctx); err != nil {
			i.logger.Warn("cache invalidation after import failed", "error", err)
		}
	}

	metadata := make(map[string]any, len(result.Counts))
	for k, v := range result.Counts {
		metadata[k] = v
	}
	if i.events != nil {
		_ = i.events.LogInfo(ctx, model.EventCategoryTransfer, "Content imported", metadata)
	}
	i.logger.Info("content imported", "entities", result.Total())
	return result, nil
}

// ImportFromReader decodes a JSON document from r and imports it. Unknown
// JSON keys are rejected.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return i.Import(ctx, &doc, opts)
}

// ImportFromFile reads a JSON document from path and imports it.
func (i *Importer) ImportFromFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer func() { _ = f.Close() }()
	return i.ImportFromReader(ctx, f, opts)
}

// write upserts doc in dependency order. Authors come from the posts that
// reference them and are matched by username.
func (i *Importer) write(ctx context.Context, q *store.Queries, doc *Document, result *ImportResult) error {
	for _, t := range doc.Tags {
		if _, err := q.SaveTag(ctx, t); err != nil {
			return err
		}
	}
	result.Counts[model.EntityTag] = len(doc.Tags)

	for _, t := range doc.Technologies {
		if _, err := q.SaveTechnology(ctx, t); err != nil {
			return err
		}
	}
	result.Counts[model.EntityTechnology] = len(doc.Technologies)

	for _, c := range doc.Categories {
		if _, err := q.SaveCategory(ctx, c); err != nil {
			return err
		}
	}
	result.Counts[model.EntityCategory] = len(doc.Categories)

	authors := make(map[string]int64)
	for _, p := range doc.BlogPosts {
		if p.Author != nil && p.Author.Username != "" {
			if _, seen := authors[p.Author.Username]; seen {
				continue
			}
			id, err := q.SaveAuthor(ctx, *p.Author)
			if err != nil {
				return err
			}
			authors[p.Author.Username] = id
		}
	}
	result.Counts[KindAuthors] = len(authors)

	for _, p := range doc.BlogPosts {
		if p.Author != nil {
			a := *p.Author
			a.ID = authors[a.Username]
			p.Author = &a
		}
		if _, err := q.SaveBlogPost(ctx, p); err != nil {
			return err
		}
	}
	result.Counts[model.EntityBlogPost] = len(doc.BlogPosts)

	for _, it := range doc.PortfolioItems {
		if _, err := q.SavePortfolioItem(ctx, it); err != nil {
			return err
		}
	}
	result.Counts[model.EntityPortfolioItem] = len(doc.PortfolioItems)

	for _, s := range doc.Services {
		if err := q.SaveService(ctx, s); err != nil {
			return err
		}
	}
	result.Counts[model.EntityService] = len(doc.Services)

	for _, m := range doc.TeamMembers {
		if _, err := q.SaveTeamMember(ctx, m); err != nil {
			return err
		}
	}
	result.Counts[model.EntityTeamMember] = len(doc.TeamMembers)

	for _, t := range doc.Testimonials {
		if _, err := q.SaveTestimonial(ctx, t); err != nil {
			return err
		}
	}
	result.Counts[model.EntityTestimonial] = len(doc.Testimonials)

	for _, f := range doc.FAQs {
		if _, err := q.SaveFAQ(ctx, f); err != nil {
			return err
		}
	}
	result.Counts[model.EntityFAQ] = len(doc.FAQs)

	for _, l := range parentsFirst(doc.NavLinks) {
		if _, err := q.SaveNavLink(ctx, l); err != nil {
			return err
		}
	}
	result.Counts[model.EntityNavLink] = len(doc.NavLinks)
	return nil
}

func count(doc *Document, result *ImportResult) {
	authors := make(map[string]struct{})
	for _, p := range doc.BlogPosts {
		if p.Author != nil && p.Author.Username != "" {
			authors[p.Author.Username] = struct{}{}
		}
	}
	result.Counts[model.EntityTag] = len(doc.Tags)
	result.Counts[model.EntityTechnology] = len(doc.Technologies)
	result.Counts[model.EntityCategory] = len(doc.Categories)
	result.Counts[KindAuthors] = len(authors)
	result.Counts[model.EntityBlogPost] = len(doc.BlogPosts)
	result.Counts[model.EntityPortfolioItem] = len(doc.PortfolioItems)
	result.Counts[model.EntityService] = len(doc.Services)
	result.Counts[model.EntityTeamMember] = len(doc.TeamMembers)
	result.Counts[model.EntityTestimonial] = len(doc.Testimonials)
	result.Counts[model.EntityFAQ] = len(doc.FAQs)
	result.Counts[model.EntityNavLink] = len(doc.NavLinks)
}

// parentsFirst orders links so that every parent is saved before its
// children. Links whose parent is not in the list come first. The parent
// relation must already be known to be acyclic.
func parentsFirst(links []model.NavLink) []model.NavLink {
	inDoc := make(map[int64]bool, len(links))
	for _, l := range links {
		inDoc[l.ID] = true
	}

	children := make(map[int64][]int)
	var queue []int
	for idx, l := range links {
		if l.ParentID == nil || !inDoc[*l.ParentID] {
			queue = append(queue, idx)
			continue
		}
		children[*l.ParentID] = append(children[*l.ParentID], idx)
	}

	out := make([]model.NavLink, 0, len(links))
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		out = append(out, links[idx])
		queue = append(queue, children[links[idx].ID]...)
	}
	return out
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// validator collects problems while walking a document.
type validator struct {
	set      *locale.Set
	problems []ImportError
}

func (v *validator) add(entity, id, format string, args ...any) {
	v.problems = append(v.problems, ImportError{Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)})
}

// fields checks that every field is declared for the entity, that every
// variant language is supported and that required fields have a default.
func (v *validator) fields(entity, id string, fields locale.Fields, required ...string) {
	schema := model.SchemaFor(entity)
	for name, text := range fields {
		if !schema.Declares(name) {
			v.add(entity, id, "field %q is not translatable for %s", name, entity)
			continue
		}
		for code := range text.Variants {
			if !v.set.Supports(code) {
				v.add(entity, id, "field %q has a variant for unsupported language %q", name, code)
			}
		}
	}
	for _, name := range required {
		if fields[name].Default == "" {
			v.add(entity, id, "field %q needs a default-language value", name)
		}
	}
}

// unique reports IDs used more than once. Zero IDs mean "insert" and are skipped.
// slug accepts an empty slug, which the store derives from the name.
func (v *validator) slug(entity, id, slug string) {
	if slug != "" && !util.IsValidSlug(slug) {
		v.add(entity, id, "invalid slug %q", slug)
	}
}

func unique[T any](v *validator, entity string, items []T, id func(T) int64) map[int64]bool {
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		n := id(it)
		if n == 0 {
			continue
		}
		if seen[n] {
			v.add(entity, idString(n), "duplicate id")
		}
		seen[n] = true
	}
	return seen
}

// Validate checks doc against the configured languages, the translatable
// field declarations and the stored navigation. It returns the problems
// found; the error is reserved for failures reading the database.
func (i *Importer) Validate(ctx context.Context, doc *Document) ([]ImportError, error) {
	v := &validator{set: i.set}

	if doc.Version != DocumentVersion {
		v.add(KindDocument, "", "unsupported version %q, want %q", doc.Version, DocumentVersion)
	}
	if doc.DefaultLanguage != "" && doc.DefaultLanguage != i.set.Default() {
		v.add(KindDocument, "", "default language %q does not match the configured default %q",
			doc.DefaultLanguage, i.set.Default())
	}

	tags := unique(v, model.EntityTag, doc.Tags, func(t model.Tag) int64 { return t.ID })
	for _, t := range doc.Tags {
		v.fields(model.EntityTag, idString(t.ID), t.Fields, model.FieldName)
		v.slug(model.EntityTag, idString(t.ID), t.Slug)
	}
	techs := unique(v, model.EntityTechnology, doc.Technologies, func(t model.Technology) int64 { return t.ID })
	for _, t := range doc.Technologies {
		v.fields(model.EntityTechnology, idString(t.ID), t.Fields, model.FieldName)
		v.slug(model.EntityTechnology, idString(t.ID), t.Slug)
	}
	cats := unique(v, model.EntityCategory, doc.Categories, func(c model.Category) int64 { return c.ID })
	for _, c := range doc.Categories {
		v.fields(model.EntityCategory, idString(c.ID), c.Fields, model.FieldName)
	}

	unique(v, model.EntityBlogPost, doc.BlogPosts, func(p model.BlogPost) int64 { return p.ID })
	for _, p := range doc.BlogPosts {
		id := idString(p.ID)
		v.fields(model.EntityBlogPost, id, p.Fields, model.FieldTitle)
		if p.Status != "" && !slices.Contains(model.ValidPostStatuses, p.Status) {
			v.add(model.EntityBlogPost, id, "invalid status %q", p.Status)
		}
		if p.Author != nil && p.Author.Username == "" {
			v.add(model.EntityBlogPost, id, "author needs a username")
		}
		for _, t := range p.Tags {
			if !tags[t.ID] {
				v.add(model.EntityBlogPost, id, "unknown tag %d", t.ID)
			}
		}
		for _, c := range p.Categories {
			if !cats[c.ID] {
				v.add(model.EntityBlogPost, id, "unknown category %d", c.ID)
			}
		}
	}

	unique(v, model.EntityPortfolioItem, doc.PortfolioItems, func(p model.PortfolioItem) int64 { return p.ID })
	for _, p := range doc.PortfolioItems {
		id := idString(p.ID)
		v.fields(model.EntityPortfolioItem, id, p.Fields, model.FieldTitle)
		for _, t := range p.Technologies {
			if !techs[t.ID] {
				v.add(model.EntityPortfolioItem, id, "unknown technology %d", t.ID)
			}
		}
	}

	services := make(map[string]bool, len(doc.Services))
	for _, s := range doc.Services {
		if s.ID == "" {
			v.add(model.EntityService, "", "service needs an id")
		} else if services[s.ID] {
			v.add(model.EntityService, s.ID, "duplicate id")
		}
		services[s.ID] = true
		v.fields(model.EntityService, s.ID, s.Fields, model.FieldTitle)
		for _, f := range s.Features {
			v.fields(model.EntityServiceFeature, s.ID+"/"+idString(f.ID), f.Fields, model.FieldName)
		}
	}

	unique(v, model.EntityTeamMember, doc.TeamMembers, func(m model.TeamMember) int64 { return m.ID })
	for _, m := range doc.TeamMembers {
		v.fields(model.EntityTeamMember, idString(m.ID), m.Fields, model.FieldName)
	}
	unique(v, model.EntityTestimonial, doc.Testimonials, func(t model.Testimonial) int64 { return t.ID })
	for _, t := range doc.Testimonials {
		v.fields(model.EntityTestimonial, idString(t.ID), t.Fields, model.FieldName)
	}
	unique(v, model.EntityFAQ, doc.FAQs, func(f model.FAQ) int64 { return f.ID })
	for _, f := range doc.FAQs {
		v.fields(model.EntityFAQ, idString(f.ID), f.Fields, model.FieldQuestion)
	}

	if err := i.validateNav(ctx, v, doc.NavLinks); err != nil {
		return nil, err
	}
	return v.problems, nil
}

// validateNav checks the navigation links as they would be stored after the
// import: the document's links merged over the existing ones.
func (i *Importer) validateNav(ctx context.Context, v *validator, links []model.NavLink) error {
	if len(links) == 0 {
		return nil
	}

	existing, err := i.queries.NavLinks(ctx)
	if err != nil {
		return fmt.Errorf("loading navigation: %w", err)
	}
	merged := make(map[int64]model.NavLink, len(existing)+len(links))
	for _, l := range existing {
		merged[l.ID] = l
	}

	seen := make(map[int64]bool, len(links))
	for _, l := range links {
		id := idString(l.ID)
		if l.ID == 0 {
			v.add(model.EntityNavLink, "", "navigation links need an explicit id")
			continue
		}
		if seen[l.ID] {
			v.add(model.EntityNavLink, id, "duplicate id")
		}
		seen[l.ID] = true
		v.fields(model.EntityNavLink, id, l.Fields, model.FieldTitle)
		merged[l.ID] = l
	}
	for _, l := range links {
		if l.ParentID == nil || l.ID == 0 {
			continue
		}
		if _, ok := merged[*l.ParentID]; !ok {
			v.add(model.EntityNavLink, idString(l.ID), "unknown parent %d", *l.ParentID)
		}
	}

	all := make([]model.NavLink, 0, len(merged))
	for _, l := range merged {
		all = append(all, l)
	}
	if err := nav.Check(model.NavNodes(all)); err != nil {
		var cycleErr *nav.CycleError
		if errors.As(err, &cycleErr) {
			v.add(model.EntityNavLink, idString(cycleErr.NodeID), "%s", cycleErr.Error())
		} else {
			v.add(model.EntityNavLink, "", "%s", err.Error())
		}
	}
	return nil
}
