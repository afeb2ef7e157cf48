// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

// Text is one translatable field: the default-language baseline plus optional
// per-language variants keyed by language code. An absent or empty variant is a
// normal state and resolves to Default.
type Text struct {
	Default  string            `json:"default"`
	Variants map[string]string `json:"variants,omitempty"`
}

// NewText returns a Text with only the default value set.
func NewText(def string) Text {
	return Text{Default: def}
}

// With returns a copy of t with the variant for code set to value.
func (t Text) With(code, value string) Text {
	variants := make(map[string]string, len(t.Variants)+1)
	for k, v := range t.Variants {
		variants[k] = v
	}
	variants[normalizeCode(code)] = value
	return Text{Default: t.Default, Variants: variants}
}

// Variant returns the stored variant for code, if any.
func (t Text) Variant(code string) (string, bool) {
	v, ok := t.Variants[normalizeCode(code)]
	return v, ok
}

// Fields maps field names of one entity to their translatable values.
type Fields map[string]Text

// Resolve returns the effective value of text for the requested language.
//
// The default language always yields Default, even when a variant exists for it.
// Any other supported language yields its variant when non-empty and Default
// otherwise. Unsupported codes are treated as a request for the default.
// There is no chaining through intermediate languages.
func Resolve(set *Set, text Text, requested string) string {
	code := set.Normalize(requested)
	if code == set.Default() {
		return text.Default
	}
	if v := text.Variants[code]; v != "" {
		return v
	}
	return text.Default
}
