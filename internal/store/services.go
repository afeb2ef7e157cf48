// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/creative-api/internal/model"
)

// Services returns every service with its features, ordered by ID.
func (q *Queries) Services(ctx context.Context) ([]model.Service, error) {
	var out []model.Service
	err := q.snapshot(ctx, func(q *Queries) error {
		var err error
		out, err = q.listServices(ctx)
		return err
	})
	return out, err
}

func (q *Queries) listServices(ctx context.Context) ([]model.Service, error) {
	vars, err := q.loadVariants(ctx, model.EntityService)
	if err != nil {
		return nil, err
	}
	features, err := q.serviceFeatures(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT id, title, description, details, image, pricing, created_at, updated_at
		 FROM services ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying services: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Service
	for rows.Next() {
		var (
			s                           model.Service
			title, description, details string
		)
		if err := rows.Scan(&s.ID, &title, &description, &details, &s.Image, &s.Pricing,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning service: %w", err)
		}
		s.Fields = vars.fields(s.ID, map[string]string{
			model.FieldTitle:       title,
			model.FieldDescription: description,
			model.FieldDetails:     details,
		})
		s.Features = features[s.ID]
		out = append(out, s)
	}
	return out, rows.Err()
}

func (q *Queries) serviceFeatures(ctx context.Context) (map[string][]model.ServiceFeature, error) {
	vars, err := q.loadVariants(ctx, model.EntityServiceFeature)
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, service_id, name, position FROM service_features ORDER BY service_id, position, id`)
	if err != nil {
		return nil, fmt.Errorf("querying service features: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]model.ServiceFeature)
	for rows.Next() {
		var (
			f               model.ServiceFeature
			serviceID, name string
		)
		if err := rows.Scan(&f.ID, &serviceID, &name, &f.Order); err != nil {
			return nil, fmt.Errorf("scanning service feature: %w", err)
		}
		f.Fields = vars.fieldsByID(f.ID, map[string]string{model.FieldName: name})
		out[serviceID] = append(out[serviceID], f)
	}
	return out, rows.Err()
}

// SaveService inserts or updates a service and replaces its features.
func (q *Queries) SaveService(ctx context.Context, s model.Service) error {
	if s.ID == "" {
		return fmt.Errorf("saving service: empty id")
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	f := s.Fields
	if _, err := q.db.ExecContext(ctx,
		`INSERT INTO services (id, title, description, details, image, pricing, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title, description = excluded.description, details = excluded.details,
		   image = excluded.image, pricing = excluded.pricing, updated_at = excluded.updated_at`,
		s.ID, f[model.FieldTitle].Default, f[model.FieldDescription].Default, f[model.FieldDetails].Default,
		s.Image, s.Pricing, s.CreatedAt, s.UpdatedAt); err != nil {
		return fmt.Errorf("saving service %q: %w", s.ID, err)
	}
	if err := q.ReplaceTranslations(ctx, model.EntityService, s.ID, s.Fields); err != nil {
		return err
	}

	if err := q.deleteChildTranslations(ctx, model.EntityServiceFeature,
		`SELECT id FROM service_features WHERE service_id = ?`, s.ID); err != nil {
		return err
	}
	if _, err := q.db.ExecContext(ctx, `DELETE FROM service_features WHERE service_id = ?`, s.ID); err != nil {
		return fmt.Errorf("clearing service %q features: %w", s.ID, err)
	}
	for _, feat := range s.Features {
		id, err := q.upsert(ctx, feat.ID,
			`INSERT INTO service_features (service_id, name, position) VALUES (?, ?, ?)`,
			`INSERT INTO service_features (id, service_id, name, position) VALUES (?, ?, ?, ?)`,
			s.ID, feat.Fields[model.FieldName].Default, feat.Order)
		if err != nil {
			return fmt.Errorf("saving service %q feature: %w", s.ID, err)
		}
		if err := q.ReplaceTranslations(ctx, model.EntityServiceFeature, idKey(id), feat.Fields); err != nil {
			return err
		}
	}
	return nil
}

// deleteChildTranslations removes the translations of the rows selected by
// query before those rows are replaced.
func (q *Queries) deleteChildTranslations(ctx context.Context, entity, query string, args ...any) error {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying %s rows: %w", entity, err)
	}
	var keys []string
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scanning %s id: %w", entity, err)
		}
		keys = append(keys, idKey(id))
	}
	if err := rows.Close(); err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := q.db.ExecContext(ctx,
			`DELETE FROM field_translations WHERE entity_type = ? AND entity_key = ?`, entity, key); err != nil {
			return fmt.Errorf("clearing %s %s translations: %w", entity, key, err)
		}
	}
	return nil
}
