// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/olegiv/creative-api/internal/locale"

// FieldTranslation is one stored locale variant of a translatable field.
// EntityKey is the entity's primary key as text, so string-keyed services
// share the table with integer-keyed entities.
type FieldTranslation struct {
	EntityType   string `json:"entity_type"`
	EntityKey    string `json:"entity_key"`
	Field        string `json:"field"`
	LanguageCode string `json:"language_code"`
	Value        string `json:"value"`
}

// Translations flattens the variants of fields into rows for one entity.
// Variants for skipCode are left out; callers pass the default language, whose
// value is stored on the entity row itself.
func Translations(entity, key string, fields locale.Fields, skipCode string) []FieldTranslation {
	var out []FieldTranslation
	for name, text := range fields {
		for code, value := range text.Variants {
			if code == skipCode {
				continue
			}
			out = append(out, FieldTranslation{
				EntityType:   entity,
				EntityKey:    key,
				Field:        name,
				LanguageCode: code,
				Value:        value,
			})
		}
	}
	return out
}
