// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/util"
)

// Tags returns all tags ordered by name.
func (q *Queries) Tags(ctx context.Context) ([]model.Tag, error) {
	var out []model.Tag
	err := q.snapshot(ctx, func(q *Queries) error {
		byID, err := q.tagsByID(ctx)
		if err != nil {
			return err
		}
		out = byID.ordered
		return nil
	})
	return out, err
}

// Technologies returns all technologies ordered by name.
func (q *Queries) Technologies(ctx context.Context) ([]model.Technology, error) {
	var out []model.Technology
	err := q.snapshot(ctx, func(q *Queries) error {
		byID, err := q.technologiesByID(ctx)
		if err != nil {
			return err
		}
		out = byID.ordered
		return nil
	})
	return out, err
}

// Categories returns all blog categories by position, then ID.
func (q *Queries) Categories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := q.snapshot(ctx, func(q *Queries) error {
		byID, err := q.categoriesByID(ctx)
		if err != nil {
			return err
		}
		out = byID.ordered
		return nil
	})
	return out, err
}

// indexed keeps rows in query order alongside an ID lookup.
type indexed[T any] struct {
	ordered []T
	byID    map[int64]T
}

func (ix indexed[T]) pick(ids []int64) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := ix.byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (q *Queries) tagsByID(ctx context.Context) (indexed[model.Tag], error) {
	ix := indexed[model.Tag]{byID: make(map[int64]model.Tag)}
	vars, err := q.loadVariants(ctx, model.EntityTag)
	if err != nil {
		return ix, err
	}
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, slug FROM tags ORDER BY name, id`)
	if err != nil {
		return ix, fmt.Errorf("querying tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var t model.Tag
		var name string
		if err := rows.Scan(&t.ID, &name, &t.Slug); err != nil {
			return ix, fmt.Errorf("scanning tag: %w", err)
		}
		t.Fields = vars.fieldsByID(t.ID, map[string]string{model.FieldName: name})
		ix.ordered = append(ix.ordered, t)
		ix.byID[t.ID] = t
	}
	return ix, rows.Err()
}

func (q *Queries) technologiesByID(ctx context.Context) (indexed[model.Technology], error) {
	ix := indexed[model.Technology]{byID: make(map[int64]model.Technology)}
	vars, err := q.loadVariants(ctx, model.EntityTechnology)
	if err != nil {
		return ix, err
	}
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, slug FROM technologies ORDER BY name, id`)
	if err != nil {
		return ix, fmt.Errorf("querying technologies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var t model.Technology
		var name string
		if err := rows.Scan(&t.ID, &name, &t.Slug); err != nil {
			return ix, fmt.Errorf("scanning technology: %w", err)
		}
		t.Fields = vars.fieldsByID(t.ID, map[string]string{model.FieldName: name})
		ix.ordered = append(ix.ordered, t)
		ix.byID[t.ID] = t
	}
	return ix, rows.Err()
}

func (q *Queries) categoriesByID(ctx context.Context) (indexed[model.Category], error) {
	ix := indexed[model.Category]{byID: make(map[int64]model.Category)}
	vars, err := q.loadVariants(ctx, model.EntityCategory)
	if err != nil {
		return ix, err
	}
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, position FROM categories ORDER BY position, id`)
	if err != nil {
		return ix, fmt.Errorf("querying categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c model.Category
		var name string
		if err := rows.Scan(&c.ID, &name, &c.Order); err != nil {
			return ix, fmt.Errorf("scanning category: %w", err)
		}
		c.Fields = vars.fieldsByID(c.ID, map[string]string{model.FieldName: name})
		ix.ordered = append(ix.ordered, c)
		ix.byID[c.ID] = c
	}
	return ix, rows.Err()
}

// slugOr returns slug, or one derived from name when slug is empty.
func slugOr(slug, name string) string {
	if slug != "" {
		return slug
	}
	return util.Slugify(name)
}

// SaveTag inserts or updates a tag by ID. A zero ID inserts a new row and the
// assigned ID is returned. An empty slug is derived from the default name.
func (q *Queries) SaveTag(ctx context.Context, t model.Tag) (int64, error) {
	t.Slug = slugOr(t.Slug, t.Fields[model.FieldName].Default)
	id, err := q.upsert(ctx, t.ID,
		`INSERT INTO tags (name, slug) VALUES (?, ?)`,
		`INSERT INTO tags (id, name, slug) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug`,
		t.Fields[model.FieldName].Default, t.Slug)
	if err != nil {
		return 0, fmt.Errorf("saving tag %q: %w", t.Slug, err)
	}
	return id, q.ReplaceTranslations(ctx, model.EntityTag, idKey(id), t.Fields)
}

// SaveTechnology inserts or updates a technology by ID.
func (q *Queries) SaveTechnology(ctx context.Context, t model.Technology) (int64, error) {
	t.Slug = slugOr(t.Slug, t.Fields[model.FieldName].Default)
	id, err := q.upsert(ctx, t.ID,
		`INSERT INTO technologies (name, slug) VALUES (?, ?)`,
		`INSERT INTO technologies (id, name, slug) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug`,
		t.Fields[model.FieldName].Default, t.Slug)
	if err != nil {
		return 0, fmt.Errorf("saving technology %q: %w", t.Slug, err)
	}
	return id, q.ReplaceTranslations(ctx, model.EntityTechnology, idKey(id), t.Fields)
}

// SaveCategory inserts or updates a blog category by ID.
func (q *Queries) SaveCategory(ctx context.Context, c model.Category) (int64, error) {
	id, err := q.upsert(ctx, c.ID,
		`INSERT INTO categories (name, position) VALUES (?, ?)`,
		`INSERT INTO categories (id, name, position) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, position = excluded.position`,
		c.Fields[model.FieldName].Default, c.Order)
	if err != nil {
		return 0, fmt.Errorf("saving category: %w", err)
	}
	return id, q.ReplaceTranslations(ctx, model.EntityCategory, idKey(id), c.Fields)
}

// SaveAuthor inserts or updates an author by username and returns its ID.
func (q *Queries) SaveAuthor(ctx context.Context, a model.Author) (int64, error) {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO authors (username, first_name, last_name, email) VALUES (?, ?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET
		   first_name = excluded.first_name, last_name = excluded.last_name, email = excluded.email`,
		a.Username, a.FirstName, a.LastName, a.Email)
	if err != nil {
		return 0, fmt.Errorf("saving author %q: %w", a.Username, err)
	}
	var id int64
	if err := q.db.QueryRowContext(ctx, `SELECT id FROM authors WHERE username = ?`, a.Username).Scan(&id); err != nil {
		return 0, fmt.Errorf("reading author %q: %w", a.Username, err)
	}
	return id, nil
}

func (q *Queries) authorsByID(ctx context.Context) (map[int64]model.Author, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, username, first_name, last_name, email FROM authors`)
	if err != nil {
		return nil, fmt.Errorf("querying authors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64]model.Author)
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.Username, &a.FirstName, &a.LastName, &a.Email); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}

// upsert inserts with an auto-assigned ID when id is zero and inserts or
// updates the given ID otherwise. insertSQL takes args; upsertSQL takes id
// followed by args.
func (q *Queries) upsert(ctx context.Context, id int64, insertSQL, upsertSQL string, args ...any) (int64, error) {
	if id == 0 {
		res, err := q.db.ExecContext(ctx, insertSQL, args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	if _, err := q.db.ExecContext(ctx, upsertSQL, append([]any{id}, args...)...); err != nil {
		return 0, err
	}
	return id, nil
}

// linkIDs reads a two-column join table into owner -> linked IDs, preserving
// the ORDER BY of query.
func (q *Queries) linkIDs(ctx context.Context, query string) (map[int64][]int64, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64][]int64)
	for rows.Next() {
		var owner, linked int64
		if err := rows.Scan(&owner, &linked); err != nil {
			return nil, err
		}
		out[owner] = append(out[owner], linked)
	}
	return out, rows.Err()
}

// replaceLinks rewrites the join rows of one owner.
func (q *Queries) replaceLinks(ctx context.Context, table, ownerCol, linkCol string, owner int64, linked []int64) error {
	if _, err := q.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table, ownerCol), owner); err != nil {
		return err
	}
	for _, id := range linked {
		if _, err := q.db.ExecContext(ctx,
			fmt.Sprintf(`INSERT OR IGNORE INTO %s (%s, %s) VALUES (?, ?)`, table, ownerCol, linkCol),
			owner, id); err != nil {
			return err
		}
	}
	return nil
}
