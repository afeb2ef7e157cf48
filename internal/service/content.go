// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/olegiv/creative-api/internal/cache"
	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/store"
)

// ErrNotFound is returned when a requested entity does not exist or is not
// visible to the caller.
var ErrNotFound = errors.New("not found")

// Snapshot kinds, used as cache keys under cache.PrefixContent.
const (
	KindBlog         = "blog"
	KindPortfolio    = "portfolio"
	KindServices     = "services"
	KindTeam         = "team"
	KindTestimonials = "testimonials"
	KindFAQs         = "faqs"
	KindNavigation   = "navigation"
	KindCategories   = "categories"
)

// Kinds lists every snapshot kind in warm-up order.
var Kinds = []string{
	KindNavigation, KindBlog, KindPortfolio, KindServices,
	KindTeam, KindTestimonials, KindFAQs, KindCategories,
}

// Content loads unresolved entity snapshots from the store and keeps them in
// the cache. Every snapshot holds all locales, so one entry serves every
// request language.
type Content struct {
	queries *store.Queries
	cache   *cache.Manager

	blog         *cache.TypedCache[[]model.BlogPost]
	portfolio    *cache.TypedCache[[]model.PortfolioItem]
	services     *cache.TypedCache[[]model.Service]
	team         *cache.TypedCache[[]model.TeamMember]
	testimonials *cache.TypedCache[[]model.Testimonial]
	faqs         *cache.TypedCache[[]model.FAQ]
	navigation   *cache.TypedCache[[]model.NavLink]
	categories   *cache.TypedCache[[]model.Category]
}

// NewContent creates a Content loader over manager's backend.
func NewContent(queries *store.Queries, manager *cache.Manager) *Content {
	backend, ttl := manager.Backend(), manager.TTL()
	return &Content{
		queries:      queries,
		cache:        manager,
		blog:         cache.NewTypedCache[[]model.BlogPost](backend, ttl),
		portfolio:    cache.NewTypedCache[[]model.PortfolioItem](backend, ttl),
		services:     cache.NewTypedCache[[]model.Service](backend, ttl),
		team:         cache.NewTypedCache[[]model.TeamMember](backend, ttl),
		testimonials: cache.NewTypedCache[[]model.Testimonial](backend, ttl),
		faqs:         cache.NewTypedCache[[]model.FAQ](backend, ttl),
		navigation:   cache.NewTypedCache[[]model.NavLink](backend, ttl),
		categories:   cache.NewTypedCache[[]model.Category](backend, ttl),
	}
}

func snapshotOf[T any](ctx context.Context, tc *cache.TypedCache[[]T], kind string, load func(context.Context) ([]T, error)) ([]T, error) {
	v, err := tc.GetOrSet(ctx, cache.PrefixContent+kind, func() (*[]T, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return &items, nil
	})
	if err != nil {
		return nil, err
	}
	return *v, nil
}

// BlogPosts returns every post in storage order (-date, -id).
func (c *Content) BlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	return snapshotOf(ctx, c.blog, KindBlog, c.queries.BlogPosts)
}

// PortfolioItems returns every portfolio item.
func (c *Content) PortfolioItems(ctx context.Context) ([]model.PortfolioItem, error) {
	return snapshotOf(ctx, c.portfolio, KindPortfolio, c.queries.PortfolioItems)
}

// Services returns every service with its features.
func (c *Content) Services(ctx context.Context) ([]model.Service, error) {
	return snapshotOf(ctx, c.services, KindServices, c.queries.Services)
}

// TeamMembers returns every team member with social links.
func (c *Content) TeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	return snapshotOf(ctx, c.team, KindTeam, c.queries.TeamMembers)
}

// Testimonials returns every testimonial.
func (c *Content) Testimonials(ctx context.Context) ([]model.Testimonial, error) {
	return snapshotOf(ctx, c.testimonials, KindTestimonials, c.queries.Testimonials)
}

// FAQs returns every FAQ, active or not.
func (c *Content) FAQs(ctx context.Context) ([]model.FAQ, error) {
	return snapshotOf(ctx, c.faqs, KindFAQs, c.queries.FAQs)
}

// NavLinks returns every navigation link, active or not.
func (c *Content) NavLinks(ctx context.Context) ([]model.NavLink, error) {
	return snapshotOf(ctx, c.navigation, KindNavigation, c.queries.NavLinks)
}

// Categories returns the blog categories.
func (c *Content) Categories(ctx context.Context) ([]model.Category, error) {
	return snapshotOf(ctx, c.categories, KindCategories, c.queries.Categories)
}

// Warm loads every snapshot into the cache.
func (c *Content) Warm(ctx context.Context) error {
	loaders := map[string]func(context.Context) error{
		KindBlog:         func(ctx context.Context) error { _, err := c.BlogPosts(ctx); return err },
		KindPortfolio:    func(ctx context.Context) error { _, err := c.PortfolioItems(ctx); return err },
		KindServices:     func(ctx context.Context) error { _, err := c.Services(ctx); return err },
		KindTeam:         func(ctx context.Context) error { _, err := c.TeamMembers(ctx); return err },
		KindTestimonials: func(ctx context.Context) error { _, err := c.Testimonials(ctx); return err },
		KindFAQs:         func(ctx context.Context) error { _, err := c.FAQs(ctx); return err },
		KindNavigation:   func(ctx context.Context) error { _, err := c.NavLinks(ctx); return err },
		KindCategories:   func(ctx context.Context) error { _, err := c.Categories(ctx); return err },
	}
	for _, kind := range Kinds {
		if err := loaders[kind](ctx); err != nil {
			return err
		}
	}
	slog.Debug("content cache warmed", "kinds", len(Kinds))
	return nil
}

// Manager returns the cache manager backing the snapshots.
func (c *Content) Manager() *cache.Manager {
	return c.cache
}

// Invalidate drops all cached snapshots and resolved navigation.
func (c *Content) Invalidate(ctx context.Context) error {
	return c.cache.InvalidateContent(ctx)
}
