// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/util"
)

// PortfolioItems returns every portfolio item with technologies attached,
// most recently completed first and undated items last.
func (q *Queries) PortfolioItems(ctx context.Context) ([]model.PortfolioItem, error) {
	var out []model.PortfolioItem
	err := q.snapshot(ctx, func(q *Queries) error {
		var err error
		out, err = q.listPortfolioItems(ctx)
		return err
	})
	return out, err
}

func (q *Queries) listPortfolioItems(ctx context.Context) ([]model.PortfolioItem, error) {
	vars, err := q.loadVariants(ctx, model.EntityPortfolioItem)
	if err != nil {
		return nil, err
	}
	technologies, err := q.technologiesByID(ctx)
	if err != nil {
		return nil, err
	}
	links, err := q.linkIDs(ctx,
		`SELECT l.item_id, l.technology_id FROM portfolio_item_technologies l
		 JOIN technologies t ON t.id = l.technology_id ORDER BY l.item_id, t.name, t.id`)
	if err != nil {
		return nil, fmt.Errorf("querying portfolio technologies: %w", err)
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT id, title, description, category, client, image, url, completion_date, created_at, updated_at
		 FROM portfolio_items
		 ORDER BY completion_date IS NULL, completion_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying portfolio items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.PortfolioItem
	for rows.Next() {
		var (
			it                                    model.PortfolioItem
			title, description, category, client string
			completed                             sql.NullTime
		)
		if err := rows.Scan(&it.ID, &title, &description, &category, &client, &it.Image, &it.URL,
			&completed, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning portfolio item: %w", err)
		}
		it.Fields = vars.fieldsByID(it.ID, map[string]string{
			model.FieldTitle:       title,
			model.FieldDescription: description,
			model.FieldCategory:    category,
			model.FieldClient:      client,
		})
		it.CompletionDate = util.TimePtrFromNull(completed)
		it.Technologies = technologies.pick(links[it.ID])
		out = append(out, it)
	}
	return out, rows.Err()
}

// SavePortfolioItem inserts or updates an item with its technology links and
// translations.
func (q *Queries) SavePortfolioItem(ctx context.Context, it model.PortfolioItem) (int64, error) {
	now := time.Now().UTC()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	if it.UpdatedAt.IsZero() {
		it.UpdatedAt = now
	}
	completed := util.NullTimeFromPtr(it.CompletionDate)

	f := it.Fields
	id, err := q.upsert(ctx, it.ID,
		`INSERT INTO portfolio_items (title, description, category, client, image, url, completion_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		`INSERT INTO portfolio_items (id, title, description, category, client, image, url, completion_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title, description = excluded.description, category = excluded.category,
		   client = excluded.client, image = excluded.image, url = excluded.url,
		   completion_date = excluded.completion_date, updated_at = excluded.updated_at`,
		f[model.FieldTitle].Default, f[model.FieldDescription].Default, f[model.FieldCategory].Default,
		f[model.FieldClient].Default, it.Image, it.URL, completed, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("saving portfolio item: %w", err)
	}

	techIDs := make([]int64, len(it.Technologies))
	for i, t := range it.Technologies {
		techIDs[i] = t.ID
	}
	if err := q.replaceLinks(ctx, "portfolio_item_technologies", "item_id", "technology_id", id, techIDs); err != nil {
		return 0, fmt.Errorf("linking portfolio item %d technologies: %w", id, err)
	}

	return id, q.ReplaceTranslations(ctx, model.EntityPortfolioItem, idKey(id), it.Fields)
}
