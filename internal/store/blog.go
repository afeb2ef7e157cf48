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

// BlogPosts returns every post with author, tags and categories attached,
// newest first.
func (q *Queries) BlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	var out []model.BlogPost
	err := q.snapshot(ctx, func(q *Queries) error {
		var err error
		out, err = q.listBlogPosts(ctx)
		return err
	})
	return out, err
}

func (q *Queries) listBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	vars, err := q.loadVariants(ctx, model.EntityBlogPost)
	if err != nil {
		return nil, err
	}
	tags, err := q.tagsByID(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := q.categoriesByID(ctx)
	if err != nil {
		return nil, err
	}
	authors, err := q.authorsByID(ctx)
	if err != nil {
		return nil, err
	}
	tagLinks, err := q.linkIDs(ctx,
		`SELECT l.post_id, l.tag_id FROM blog_post_tags l
		 JOIN tags t ON t.id = l.tag_id ORDER BY l.post_id, t.name, t.id`)
	if err != nil {
		return nil, fmt.Errorf("querying post tags: %w", err)
	}
	categoryLinks, err := q.linkIDs(ctx,
		`SELECT l.post_id, l.category_id FROM blog_post_categories l
		 JOIN categories c ON c.id = l.category_id ORDER BY l.post_id, c.position, c.id`)
	if err != nil {
		return nil, fmt.Errorf("querying post categories: %w", err)
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT id, title, excerpt, content, read_time, date, image, status, author_id, created_at, updated_at
		 FROM blog_posts ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying blog posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.BlogPost
	for rows.Next() {
		var (
			p                                 model.BlogPost
			title, excerpt, content, readTime string
			authorID                          sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &title, &excerpt, &content, &readTime, &p.Date, &p.Image,
			&p.Status, &authorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning blog post: %w", err)
		}
		p.Fields = vars.fieldsByID(p.ID, map[string]string{
			model.FieldTitle:    title,
			model.FieldExcerpt:  excerpt,
			model.FieldContent:  content,
			model.FieldReadTime: readTime,
		})
		if authorID.Valid {
			if a, ok := authors[authorID.Int64]; ok {
				p.Author = &a
			}
		}
		p.Tags = tags.pick(tagLinks[p.ID])
		p.Categories = categories.pick(categoryLinks[p.ID])
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveBlogPost inserts or updates a post together with its tag and category
// links and its translations. Tags and categories are linked by ID.
func (q *Queries) SaveBlogPost(ctx context.Context, p model.BlogPost) (int64, error) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	if p.Status == "" {
		p.Status = model.StatusDraft
	}
	var authorID *int64
	if p.Author != nil && p.Author.ID != 0 {
		authorID = &p.Author.ID
	}

	f := p.Fields
	id, err := q.upsert(ctx, p.ID,
		`INSERT INTO blog_posts (title, excerpt, content, read_time, date, image, status, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		`INSERT INTO blog_posts (id, title, excerpt, content, read_time, date, image, status, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title, excerpt = excluded.excerpt, content = excluded.content,
		   read_time = excluded.read_time, date = excluded.date, image = excluded.image,
		   status = excluded.status, author_id = excluded.author_id, updated_at = excluded.updated_at`,
		f[model.FieldTitle].Default, f[model.FieldExcerpt].Default, f[model.FieldContent].Default,
		f[model.FieldReadTime].Default, p.Date, p.Image, p.Status, util.NullInt64FromPtr(authorID), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("saving blog post: %w", err)
	}

	tagIDs := make([]int64, len(p.Tags))
	for i, t := range p.Tags {
		tagIDs[i] = t.ID
	}
	if err := q.replaceLinks(ctx, "blog_post_tags", "post_id", "tag_id", id, tagIDs); err != nil {
		return 0, fmt.Errorf("linking post %d tags: %w", id, err)
	}

	categoryIDs := make([]int64, len(p.Categories))
	for i, c := range p.Categories {
		categoryIDs[i] = c.ID
	}
	if err := q.replaceLinks(ctx, "blog_post_categories", "post_id", "category_id", id, categoryIDs); err != nil {
		return 0, fmt.Errorf("linking post %d categories: %w", id, err)
	}

	return id, q.ReplaceTranslations(ctx, model.EntityBlogPost, idKey(id), p.Fields)
}
