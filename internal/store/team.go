// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/creative-api/internal/model"
)

// TeamMembers returns every team member with social links, by position then ID.
func (q *Queries) TeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	var out []model.TeamMember
	err := q.snapshot(ctx, func(q *Queries) error {
		var err error
		out, err = q.listTeamMembers(ctx)
		return err
	})
	return out, err
}

func (q *Queries) listTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	vars, err := q.loadVariants(ctx, model.EntityTeamMember)
	if err != nil {
		return nil, err
	}
	links, err := q.socialLinks(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, role, bio, image, position, created_at, updated_at
		 FROM team_members ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("querying team members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.TeamMember
	for rows.Next() {
		var (
			m              model.TeamMember
			name, role, bio string
		)
		if err := rows.Scan(&m.ID, &name, &role, &bio, &m.Image, &m.Order, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning team member: %w", err)
		}
		m.Fields = vars.fieldsByID(m.ID, map[string]string{
			model.FieldName: name,
			model.FieldRole: role,
			model.FieldBio:  bio,
		})
		m.SocialLinks = links[m.ID]
		out = append(out, m)
	}
	return out, rows.Err()
}

func (q *Queries) socialLinks(ctx context.Context) (map[int64][]model.SocialLink, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, team_member_id, platform, url, position FROM social_links
		 ORDER BY team_member_id, position, id`)
	if err != nil {
		return nil, fmt.Errorf("querying social links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64][]model.SocialLink)
	for rows.Next() {
		var (
			l        model.SocialLink
			memberID int64
		)
		if err := rows.Scan(&l.ID, &memberID, &l.Platform, &l.URL, &l.Order); err != nil {
			return nil, fmt.Errorf("scanning social link: %w", err)
		}
		out[memberID] = append(out[memberID], l)
	}
	return out, rows.Err()
}

// SaveTeamMember inserts or updates a team member and replaces its social links.
func (q *Queries) SaveTeamMember(ctx context.Context, m model.TeamMember) (int64, error) {
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}

	f := m.Fields
	id, err := q.upsert(ctx, m.ID,
		`INSERT INTO team_members (name, role, bio, image, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		`INSERT INTO team_members (id, name, role, bio, image, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, role = excluded.role, bio = excluded.bio, image = excluded.image,
		   position = excluded.position, updated_at = excluded.updated_at`,
		f[model.FieldName].Default, f[model.FieldRole].Default, f[model.FieldBio].Default,
		m.Image, m.Order, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("saving team member: %w", err)
	}

	if _, err := q.db.ExecContext(ctx, `DELETE FROM social_links WHERE team_member_id = ?`, id); err != nil {
		return 0, fmt.Errorf("clearing team member %d social links: %w", id, err)
	}
	for _, l := range m.SocialLinks {
		if _, err := q.db.ExecContext(ctx,
			`INSERT INTO social_links (team_member_id, platform, url, position) VALUES (?, ?, ?, ?)`,
			id, l.Platform, l.URL, l.Order); err != nil {
			return 0, fmt.Errorf("saving team member %d %s link: %w", id, l.Platform, err)
		}
	}

	return id, q.ReplaceTranslations(ctx, model.EntityTeamMember, idKey(id), m.Fields)
}

// Testimonials returns every testimonial by position, then ID.
func (q *Queries) Testimonials(ctx context.Context) ([]model.Testimonial, error) {
	var out []model.Testimonial
	err := q.snapshot(ctx, func(q *Queries) error {
		vars, err := q.loadVariants(ctx, model.EntityTestimonial)
		if err != nil {
			return err
		}
		rows, err := q.db.QueryContext(ctx,
			`SELECT id, name, thoughts, role, instagram_url, position, created_at, updated_at
			 FROM testimonials ORDER BY position, id`)
		if err != nil {
			return fmt.Errorf("querying testimonials: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				t                    model.Testimonial
				name, thoughts, role string
			)
			if err := rows.Scan(&t.ID, &name, &thoughts, &role, &t.InstagramURL, &t.Order,
				&t.CreatedAt, &t.UpdatedAt); err != nil {
				return fmt.Errorf("scanning testimonial: %w", err)
			}
			t.Fields = vars.fieldsByID(t.ID, map[string]string{
				model.FieldName:     name,
				model.FieldThoughts: thoughts,
				model.FieldRole:     role,
			})
			out = append(out, t)
		}
		return rows.Err()
	})
	return out, err
}

// SaveTestimonial inserts or updates a testimonial.
func (q *Queries) SaveTestimonial(ctx context.Context, t model.Testimonial) (int64, error) {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	f := t.Fields
	id, err := q.upsert(ctx, t.ID,
		`INSERT INTO testimonials (name, thoughts, role, instagram_url, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		`INSERT INTO testimonials (id, name, thoughts, role, instagram_url, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, thoughts = excluded.thoughts, role = excluded.role,
		   instagram_url = excluded.instagram_url, position = excluded.position, updated_at = excluded.updated_at`,
		f[model.FieldName].Default, f[model.FieldThoughts].Default, f[model.FieldRole].Default,
		t.InstagramURL, t.Order, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("saving testimonial: %w", err)
	}
	return id, q.ReplaceTranslations(ctx, model.EntityTestimonial, idKey(id), t.Fields)
}
