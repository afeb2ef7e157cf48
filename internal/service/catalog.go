// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/model"
)

// Catalog answers list and detail queries over cached content snapshots.
// Filters and search operate on values resolved for the request language.
type Catalog struct {
	content *Content
	set     *locale.Set

	blogSearch        *locale.Projector
	portfolioSearch   *locale.Projector
	serviceSearch     *locale.Projector
	teamSearch        *locale.Projector
	testimonialSearch *locale.Projector
	faqSearch         *locale.Projector
	tagName           *locale.Projector
	technologyName    *locale.Projector
	featureName       *locale.Projector
	categoryName      *locale.Projector
}

// NewCatalog validates the searchable fields of every entity type against its
// schema. A misconfigured field is reported here, at startup.
func NewCatalog(content *Content, set *locale.Set) (*Catalog, error) {
	c := &Catalog{content: content, set: set}

	specs := []struct {
		dst    **locale.Projector
		schema *locale.Schema
		fields []string
	}{
		{&c.blogSearch, model.BlogPostSchema, []string{model.FieldTitle, model.FieldExcerpt, model.FieldContent}},
		{&c.portfolioSearch, model.PortfolioItemSchema, []string{model.FieldTitle, model.FieldDescription, model.FieldClient}},
		{&c.serviceSearch, model.ServiceSchema, []string{model.FieldTitle, model.FieldDescription, model.FieldDetails}},
		{&c.teamSearch, model.TeamMemberSchema, []string{model.FieldName, model.FieldRole, model.FieldBio}},
		{&c.testimonialSearch, model.TestimonialSchema, []string{model.FieldName, model.FieldRole, model.FieldThoughts}},
		{&c.faqSearch, model.FAQSchema, []string{model.FieldQuestion, model.FieldAnswer}},
		{&c.tagName, model.TagSchema, []string{model.FieldName}},
		{&c.technologyName, model.TechnologySchema, []string{model.FieldName}},
		{&c.featureName, model.ServiceFeatureSchema, []string{model.FieldName}},
		{&c.categoryName, model.CategorySchema, []string{model.FieldName}},
	}
	for _, s := range specs {
		p, err := locale.NewProjector(s.schema, s.fields...)
		if err != nil {
			return nil, fmt.Errorf("search fields: %w", err)
		}
		*s.dst = p
	}
	return c, nil
}

// Set returns the supported languages.
func (c *Catalog) Set() *locale.Set {
	return c.set
}

// matchesID reports whether filter names the entity by numeric ID or by one of
// the given keys, compared with case folding.
func matchesID(filter string, id int64, keys ...string) bool {
	if n, err := strconv.ParseInt(filter, 10, 64); err == nil {
		return n == id
	}
	f := locale.Fold(filter)
	for _, k := range keys {
		if k != "" && locale.Fold(k) == f {
			return true
		}
	}
	return false
}

func (c *Catalog) nameMatches(p *locale.Projector, fields locale.Fields, lang, term string) bool {
	return p.Matches(fields, c.set, lang, term)
}

// --- blog ---

var blogOrderings = orderings[model.BlogPost]{
	"date":       func(a, b model.BlogPost) int { return a.Date.Compare(b.Date) },
	"created_at": func(a, b model.BlogPost) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"id":         byInt64(func(p model.BlogPost) int64 { return p.ID }),
}

// BlogPosts lists posts. An empty Status means published posts only.
func (c *Catalog) BlogPosts(ctx context.Context, p ListParams) (Page[model.BlogPost], error) {
	all, err := c.content.BlogPosts(ctx)
	if err != nil {
		return Page[model.BlogPost]{}, err
	}

	status := p.Status
	if status == "" {
		status = model.StatusPublished
	}

	items := filter(all, func(post model.BlogPost) bool {
		if post.Status != status {
			return false
		}
		if p.Category != "" && !slices.ContainsFunc(post.Categories, func(cat model.Category) bool {
			return c.categoryMatches(cat, p.Category, p.Lang)
		}) {
			return false
		}
		if p.Tag != "" && !slices.ContainsFunc(post.Tags, func(t model.Tag) bool {
			return matchesID(p.Tag, t.ID, t.Slug, t.Fields[model.FieldName].Default,
				locale.Resolve(c.set, t.Fields[model.FieldName], p.Lang))
		}) {
			return false
		}
		return c.blogMatches(post, p.Lang, p.Search)
	})

	if err := blogOrderings.sort(items, p.Ordering, "-date,-id"); err != nil {
		return Page[model.BlogPost]{}, err
	}
	return paginate(items, p.Page, p.PerPage), nil
}

func (c *Catalog) blogMatches(post model.BlogPost, lang, term string) bool {
	if c.blogSearch.Matches(post.Fields, c.set, lang, term) {
		return true
	}
	if slices.ContainsFunc(post.Tags, func(t model.Tag) bool {
		return c.nameMatches(c.tagName, t.Fields, lang, term)
	}) {
		return true
	}
	return slices.ContainsFunc(post.Categories, func(cat model.Category) bool {
		return c.nameMatches(c.categoryName, cat.Fields, lang, term)
	})
}

func (c *Catalog) categoryMatches(cat model.Category, filter, lang string) bool {
	return matchesID(filter, cat.ID, cat.Fields[model.FieldName].Default,
		locale.Resolve(c.set, cat.Fields[model.FieldName], lang))
}

// BlogPost returns one post. Unpublished posts are visible only when
// includeDrafts is set.
func (c *Catalog) BlogPost(ctx context.Context, id int64, includeDrafts bool) (model.BlogPost, error) {
	all, err := c.content.BlogPosts(ctx)
	if err != nil {
		return model.BlogPost{}, err
	}
	for _, p := range all {
		if p.ID == id && (includeDrafts || p.IsPublished()) {
			return p, nil
		}
	}
	return model.BlogPost{}, ErrNotFound
}

// CategoryCount is a blog category with its number of published posts.
type CategoryCount struct {
	Category model.Category
	Count    int
}

// BlogCategories returns every category by order, then ID, with published
// post counts.
func (c *Catalog) BlogCategories(ctx context.Context) ([]CategoryCount, error) {
	cats, err := c.content.Categories(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := c.content.BlogPosts(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int, len(cats))
	for _, p := range posts {
		if !p.IsPublished() {
			continue
		}
		for _, cat := range p.Categories {
			counts[cat.ID]++
		}
	}

	out := make([]CategoryCount, len(cats))
	for i, cat := range cats {
		out[i] = CategoryCount{Category: cat, Count: counts[cat.ID]}
	}
	slices.SortStableFunc(out, func(a, b CategoryCount) int {
		return cmp.Or(cmp.Compare(a.Category.Order, b.Category.Order), cmp.Compare(a.Category.ID, b.Category.ID))
	})
	return out, nil
}

// --- portfolio ---

func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

var portfolioOrderings = orderings[model.PortfolioItem]{
	"completion_date": func(a, b model.PortfolioItem) int { return compareDates(a.CompletionDate, b.CompletionDate) },
	"created_at":      func(a, b model.PortfolioItem) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"id":              byInt64(func(p model.PortfolioItem) int64 { return p.ID }),
}

// PortfolioItems lists portfolio items. Category and client filters compare
// against default-language values so links stay stable across languages.
func (c *Catalog) PortfolioItems(ctx context.Context, p ListParams) (Page[model.PortfolioItem], error) {
	all, err := c.content.PortfolioItems(ctx)
	if err != nil {
		return Page[model.PortfolioItem]{}, err
	}

	items := filter(all, func(it model.PortfolioItem) bool {
		if p.Category != "" && locale.Fold(it.CategoryKey()) != locale.Fold(p.Category) {
			return false
		}
		if p.Client != "" && locale.Fold(it.Fields[model.FieldClient].Default) != locale.Fold(p.Client) {
			return false
		}
		if p.Technology != "" && !slices.ContainsFunc(it.Technologies, func(t model.Technology) bool {
			return matchesID(p.Technology, t.ID, t.Slug, t.Fields[model.FieldName].Default)
		}) {
			return false
		}
		return c.portfolioSearch.Matches(it.Fields, c.set, p.Lang, p.Search) ||
			slices.ContainsFunc(it.Technologies, func(t model.Technology) bool {
				return c.nameMatches(c.technologyName, t.Fields, p.Lang, p.Search)
			})
	})

	if err := portfolioOrderings.sort(items, p.Ordering, "-completion_date,id"); err != nil {
		return Page[model.PortfolioItem]{}, err
	}
	return paginate(items, p.Page, p.PerPage), nil
}

// PortfolioItem returns one item.
func (c *Catalog) PortfolioItem(ctx context.Context, id int64) (model.PortfolioItem, error) {
	all, err := c.content.PortfolioItems(ctx)
	if err != nil {
		return model.PortfolioItem{}, err
	}
	for _, it := range all {
		if it.ID == id {
			return it, nil
		}
	}
	return model.PortfolioItem{}, ErrNotFound
}

// CategoryGroup is a portfolio category with its item count. Label is the
// category resolved for the request language from the first item in the group
// that translates it.
type CategoryGroup struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

// PortfolioCategories groups items by default-language category, skipping
// items without one, ordered by category.
func (c *Catalog) PortfolioCategories(ctx context.Context, lang string) ([]CategoryGroup, error) {
	all, err := c.content.PortfolioItems(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var out []CategoryGroup
	for _, it := range all {
		key := it.CategoryKey()
		if key == "" {
			continue
		}
		label := locale.Resolve(c.set, it.Fields[model.FieldCategory], lang)
		if i, ok := index[key]; ok {
			out[i].Count++
			if out[i].Label == key {
				out[i].Label = label
			}
			continue
		}
		index[key] = len(out)
		out = append(out, CategoryGroup{Category: key, Label: label, Count: 1})
	}
	slices.SortFunc(out, func(a, b CategoryGroup) int { return strings.Compare(a.Category, b.Category) })
	if out == nil {
		out = []CategoryGroup{}
	}
	return out, nil
}

// --- services ---

var serviceOrderings = orderings[model.Service]{
	"id":         byString(func(s model.Service) string { return s.ID }),
	"created_at": func(a, b model.Service) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

// Services lists services. Search also covers the service ID and feature
// names.
func (c *Catalog) Services(ctx context.Context, p ListParams) (Page[model.Service], error) {
	all, err := c.content.Services(ctx)
	if err != nil {
		return Page[model.Service]{}, err
	}

	needle := locale.Fold(p.Search)
	items := filter(all, func(s model.Service) bool {
		return strings.Contains(locale.Fold(s.ID), needle) ||
			c.serviceSearch.Matches(s.Fields, c.set, p.Lang, p.Search) ||
			slices.ContainsFunc(s.Features, func(f model.ServiceFeature) bool {
				return c.nameMatches(c.featureName, f.Fields, p.Lang, p.Search)
			})
	})

	if err := serviceOrderings.sort(items, p.Ordering, "id"); err != nil {
		return Page[model.Service]{}, err
	}
	return paginate(items, p.Page, p.PerPage), nil
}

// Service returns one service by its string ID.
func (c *Catalog) Service(ctx context.Context, id string) (model.Service, error) {
	all, err := c.content.Services(ctx)
	if err != nil {
		return model.Service{}, err
	}
	for _, s := range all {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Service{}, ErrNotFound
}

// --- team ---

var teamOrderings = orderings[model.TeamMember]{
	"order": byInt(func(m model.TeamMember) int { return m.Order }),
	"id":    byInt64(func(m model.TeamMember) int64 { return m.ID }),
}

// TeamMembers lists team members. Search also covers social platforms.
func (c *Catalog) TeamMembers(ctx context.Context, p ListParams) (Page[model.TeamMember], error) {
	all, err := c.content.TeamMembers(ctx)
	if err != nil {
		return Page[model.TeamMember]{}, err
	}

	needle := locale.Fold(p.Search)
	items := filter(all, func(m model.TeamMember) bool {
		return c.teamSearch.Matches(m.Fields, c.set, p.Lang, p.Search) ||
			slices.ContainsFunc(m.SocialLinks, func(l model.SocialLink) bool {
				return strings.Contains(locale.Fold(l.Platform), needle)
			})
	})

	if err := teamOrderings.sort(items, p.Ordering, "order,id"); err != nil {
		return Page[model.TeamMember]{}, err
	}
	return paginate(items, p.Page, p.PerPage), nil
}

// TeamMember returns one team member.
func (c *Catalog) TeamMember(ctx context.Context, id int64) (model.TeamMember, error) {
	all, err := c.content.TeamMembers(ctx)
	if err != nil {
		return model.TeamMember{}, err
	}
	for _, m := range all {
		if m.ID == id {
			return m, nil
		}
	}
	return model.TeamMember{}, ErrNotFound
}

// --- testimonials ---

var testimonialOrderings = orderings[model.Testimonial]{
	"order": byInt(func(t model.Testimonial) int { return t.Order }),
	"id":    byInt64(func(t model.Testimonial) int64 { return t.ID }),
}

// Testimonials lists testimonials.
func (c *Catalog) Testimonials(ctx context.Context, p ListParams) (Page[model.Testimonial], error) {
	all, err := c.content.Testimonials(ctx)
	if err != nil {
		return Page[model.Testimonial]{}, err
	}

	items := filter(all, func(t model.Testimonial) bool {
		return c.testimonialSearch.Matches(t.Fields, c.set, p.Lang, p.Search)
	})

	if err := testimonialOrderings.sort(items, p.Ordering, "order,id"); err != nil {
		return Page[model.Testimonial]{}, err
	}
	return paginate(items, p.Page, p.PerPage), nil
}

// Testimonial returns one testimonial.
func (c *Catalog) Testimonial(ctx context.Context, id int64) (model.Testimonial, error) {
	all, err := c.content.Testimonials(ctx)
	if err != nil {
		return model.Testimonial{}, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Testimonial{}, ErrNotFound
}

// --- faqs ---

var faqOrderings = orderings[model.FAQ]{
	"order": byInt(func(f model.FAQ) int { return f.Order }),
	"id":    byInt64(func(f model.FAQ) int64 { return f.ID }),
}

// FAQs lists active FAQ entries.
func (c *Catalog) FAQs(ctx context.Context, p ListParams) (Page[model.FAQ], error) {
	all, err := c.content.FAQs(ctx)
	if err != nil {
		return Page[model.FAQ]{}, err
	}

	items := filter(all, func(f model.FAQ) bool {
		return f.IsActive && c.faqSearch.Matches(f.Fields, c.set, p.Lang, p.Search)
	})

	if err := faqOrderings.sort(items, p.Ordering, "order,id"); err != nil {
		return Page[model.FAQ]{}, err
	}
	return paginate(items, p.Page, p.PerPage), nil
}

// FAQ returns one active FAQ entry.
func (c *Catalog) FAQ(ctx context.Context, id int64) (model.FAQ, error) {
	all, err := c.content.FAQs(ctx)
	if err != nil {
		return model.FAQ{}, err
	}
	for _, f := range all {
		if f.ID == id && f.IsActive {
			return f, nil
		}
	}
	return model.FAQ{}, ErrNotFound
}
