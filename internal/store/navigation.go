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

// NavLinks returns every navigation link, active or not, in storage order.
// Hierarchy and filtering are left to the tree builder.
func (q *Queries) NavLinks(ctx context.Context) ([]model.NavLink, error) {
	var out []model.NavLink
	err := q.snapshot(ctx, func(q *Queries) error {
		vars, err := q.loadVariants(ctx, model.EntityNavLink)
		if err != nil {
			return err
		}
		rows, err := q.db.QueryContext(ctx,
			`SELECT id, parent_id, title, url, is_external, is_active, position, created_at, updated_at
			 FROM nav_links ORDER BY id`)
		if err != nil {
			return fmt.Errorf("querying nav links: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				l        model.NavLink
				parentID sql.NullInt64
				title    string
			)
			if err := rows.Scan(&l.ID, &parentID, &title, &l.URL, &l.IsExternal, &l.IsActive, &l.Order,
				&l.CreatedAt, &l.UpdatedAt); err != nil {
				return fmt.Errorf("scanning nav link: %w", err)
			}
			l.ParentID = util.Int64PtrFromNull(parentID)
			l.Fields = vars.fieldsByID(l.ID, map[string]string{model.FieldTitle: title})
			out = append(out, l)
		}
		return rows.Err()
	})
	return out, err
}

// SaveNavLink inserts or updates a navigation link. The parent must already
// exist; callers are expected to check the parent relation for cycles first.
func (q *Queries) SaveNavLink(ctx context.Context, l model.NavLink) (int64, error) {
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = now
	}

	id, err := q.upsert(ctx, l.ID,
		`INSERT INTO nav_links (parent_id, title, url, is_external, is_active, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		`INSERT INTO nav_links (id, parent_id, title, url, is_external, is_active, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id = excluded.parent_id, title = excluded.title, url = excluded.url,
		   is_external = excluded.is_external, is_active = excluded.is_active,
		   position = excluded.position, updated_at = excluded.updated_at`,
		util.NullInt64FromPtr(l.ParentID), l.Fields[model.FieldTitle].Default, l.URL, l.IsExternal, l.IsActive,
		l.Order, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("saving nav link: %w", err)
	}
	return id, q.ReplaceTranslations(ctx, model.EntityNavLink, idKey(id), l.Fields)
}

// FAQs returns every FAQ entry by position, then ID.
func (q *Queries) FAQs(ctx context.Context) ([]model.FAQ, error) {
	var out []model.FAQ
	err := q.snapshot(ctx, func(q *Queries) error {
		vars, err := q.loadVariants(ctx, model.EntityFAQ)
		if err != nil {
			return err
		}
		rows, err := q.db.QueryContext(ctx,
			`SELECT id, question, answer, is_active, position, created_at, updated_at
			 FROM faqs ORDER BY position, id`)
		if err != nil {
			return fmt.Errorf("querying faqs: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				f                model.FAQ
				question, answer string
			)
			if err := rows.Scan(&f.ID, &question, &answer, &f.IsActive, &f.Order, &f.CreatedAt, &f.UpdatedAt); err != nil {
				return fmt.Errorf("scanning faq: %w", err)
			}
			f.Fields = vars.fieldsByID(f.ID, map[string]string{
				model.FieldQuestion: question,
				model.FieldAnswer:   answer,
			})
			out = append(out, f)
		}
		return rows.Err()
	})
	return out, err
}

// SaveFAQ inserts or updates a FAQ entry.
func (q *Queries) SaveFAQ(ctx context.Context, f model.FAQ) (int64, error) {
	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = now
	}

	id, err := q.upsert(ctx, f.ID,
		`INSERT INTO faqs (question, answer, is_active, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		`INSERT INTO faqs (id, question, answer, is_active, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   question = excluded.question, answer = excluded.answer, is_active = excluded.is_active,
		   position = excluded.position, updated_at = excluded.updated_at`,
		f.Fields[model.FieldQuestion].Default, f.Fields[model.FieldAnswer].Default, f.IsActive,
		f.Order, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("saving faq: %w", err)
	}
	return id, q.ReplaceTranslations(ctx, model.EntityFAQ, idKey(id), f.Fields)
}
