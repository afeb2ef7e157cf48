// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/model"
)

// variants indexes stored translations as entity key -> field -> language -> value.
type variants map[string]map[string]map[string]string

// fields builds the translatable fields of one entity from its default-language
// column values and any stored variants.
func (v variants) fields(key string, defaults map[string]string) locale.Fields {
	out := make(locale.Fields, len(defaults))
	stored := v[key]
	for name, def := range defaults {
		out[name] = locale.Text{Default: def, Variants: stored[name]}
	}
	return out
}

func (v variants) fieldsByID(id int64, defaults map[string]string) locale.Fields {
	return v.fields(strconv.FormatInt(id, 10), defaults)
}

// loadVariants reads all stored variants of one entity type.
func (q *Queries) loadVariants(ctx context.Context, entity string) (variants, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT entity_key, field, language_code, value
		 FROM field_translations
		 WHERE entity_type = ? AND value <> ''`, entity)
	if err != nil {
		return nil, fmt.Errorf("querying %s translations: %w", entity, err)
	}
	defer func() { _ = rows.Close() }()

	out := make(variants)
	for rows.Next() {
		var key, field, code, value string
		if err := rows.Scan(&key, &field, &code, &value); err != nil {
			return nil, fmt.Errorf("scanning %s translation: %w", entity, err)
		}
		byField, ok := out[key]
		if !ok {
			byField = make(map[string]map[string]string)
			out[key] = byField
		}
		byCode, ok := byField[field]
		if !ok {
			byCode = make(map[string]string)
			byField[field] = byCode
		}
		byCode[code] = value
	}
	return out, rows.Err()
}

// ReplaceTranslations rewrites every stored variant of one entity. Fields
// not declared translatable for the entity type are rejected.
func (q *Queries) ReplaceTranslations(ctx context.Context, entity, key string, fields locale.Fields) error {
	schema := model.SchemaFor(entity)
	if schema == nil {
		return fmt.Errorf("unknown entity type %q", entity)
	}
	for name := range fields {
		if err := schema.Check(name); err != nil {
			return err
		}
	}

	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM field_translations WHERE entity_type = ? AND entity_key = ?`,
		entity, key); err != nil {
		return fmt.Errorf("clearing %s %s translations: %w", entity, key, err)
	}

	for _, t := range model.Translations(entity, key, fields, q.defaultLang) {
		if t.Value == "" {
			continue
		}
		if _, err := q.db.ExecContext(ctx,
			`INSERT INTO field_translations (entity_type, entity_key, field, language_code, value)
			 VALUES (?, ?, ?, ?, ?)`,
			t.EntityType, t.EntityKey, t.Field, t.LanguageCode, t.Value); err != nil {
			return fmt.Errorf("inserting %s %s translation: %w", entity, key, err)
		}
	}
	return nil
}

// ListTranslations returns every stored variant, ordered for stable export.
func (q *Queries) ListTranslations(ctx context.Context) ([]model.FieldTranslation, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT entity_type, entity_key, field, language_code, value
		 FROM field_translations
		 ORDER BY entity_type, entity_key, field, language_code`)
	if err != nil {
		return nil, fmt.Errorf("querying translations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.FieldTranslation
	for rows.Next() {
		var t model.FieldTranslation
		if err := rows.Scan(&t.EntityType, &t.EntityKey, &t.Field, &t.LanguageCode, &t.Value); err != nil {
			return nil, fmt.Errorf("scanning translation: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func idKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
