// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/olegiv/creative-api/internal/cache"
	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/logging"
	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/nav"
)

// NavigationService serves the header navigation forest per language.
type NavigationService struct {
	content *Content
	set     *locale.Set
	events  *EventService
	trees   *cache.TypedCache[[]nav.Item]
}

// NewNavigationService creates a NavigationService. events may be nil.
func NewNavigationService(content *Content, set *locale.Set, events *EventService) *NavigationService {
	return &NavigationService{
		content: content,
		set:     set,
		events:  events,
		trees:   cache.NewTypedCache[[]nav.Item](content.cache.Backend(), content.cache.TTL()),
	}
}

// Tree returns the resolved forest for lang. A cycle in the stored parent
// relation is logged and returned as *nav.CycleError; no partial tree is
// produced or cached.
func (s *NavigationService) Tree(ctx context.Context, lang string) ([]nav.Item, error) {
	code := s.set.Normalize(lang)

	v, err := s.trees.GetOrSet(ctx, cache.PrefixNav+code, func() (*[]nav.Item, error) {
		links, err := s.content.NavLinks(ctx)
		if err != nil {
			return nil, err
		}
		items, err := nav.Build(model.NavNodes(links), s.set, code)
		if err != nil {
			return nil, err
		}
		slog.Debug("navigation tree built", "lang", code, "links", len(links), "visible", nav.Count(items))
		return &items, nil
	})
	if err != nil {
		s.reportCycle(ctx, err, code)
		return nil, err
	}
	return *v, nil
}

// Audit checks the stored parent relation without resolving titles.
func (s *NavigationService) Audit(ctx context.Context) error {
	links, err := s.content.NavLinks(ctx)
	if err != nil {
		return err
	}
	if err := nav.Check(model.NavNodes(links)); err != nil {
		s.reportCycle(ctx, err, "")
		return err
	}
	return nil
}

func (s *NavigationService) reportCycle(ctx context.Context, err error, lang string) {
	var cycleErr *nav.CycleError
	if !errors.As(err, &cycleErr) {
		return
	}
	args := []any{"node_id", cycleErr.NodeID, "path", cycleErr.Path, "lang", lang}
	if s.events != nil {
		_ = s.events.LogError(ctx, model.EventCategoryNavigation, cycleErr.Error(), map[string]any{
			"node_id": cycleErr.NodeID,
			"path":    cycleErr.Path,
			"lang":    lang,
		})
		args = append(args, logging.Recorded())
	}
	slog.Error("navigation cycle detected", args...)
}
