// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ErrNotTranslatable marks a reference to a field that the entity type does not
// declare as translatable.
var ErrNotTranslatable = errors.New("locale: field is not declared translatable")

// ConfigError reports a misconfigured field reference. It is produced while
// building projectors at startup and is never a per-request condition.
type ConfigError struct {
	Entity string
	Field  string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("locale: %s.%s: %v", e.Entity, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Schema lists the translatable fields of one entity type.
type Schema struct {
	entity   string
	fields   []string
	declared map[string]struct{}
}

// NewSchema declares the translatable fields of an entity type.
func NewSchema(entity string, fields ...string) *Schema {
	s := &Schema{
		entity:   entity,
		declared: make(map[string]struct{}, len(fields)),
	}
	for _, f := range fields {
		if _, dup := s.declared[f]; dup {
			continue
		}
		s.declared[f] = struct{}{}
		s.fields = append(s.fields, f)
	}
	return s
}

// Entity returns the entity type name.
func (s *Schema) Entity() string {
	return s.entity
}

// Fields returns the declared field names in declaration order.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Declares reports whether field is translatable for this entity type.
func (s *Schema) Declares(field string) bool {
	_, ok := s.declared[field]
	return ok
}

// Check returns a *ConfigError for the first field that is not declared.
func (s *Schema) Check(fields ...string) error {
	for _, f := range fields {
		if !s.Declares(f) {
			return &ConfigError{Entity: s.entity, Field: f, Err: ErrNotTranslatable}
		}
	}
	return nil
}

// Projector resolves a fixed, schema-validated list of fields. Because the list
// is checked when the projector is built, resolution itself cannot fail.
type Projector struct {
	schema *Schema
	fields []string
}

// NewProjector validates fields against schema. With no fields, every declared
// field is projected.
func NewProjector(schema *Schema, fields ...string) (*Projector, error) {
	if len(fields) == 0 {
		fields = schema.Fields()
	}
	if err := schema.Check(fields...); err != nil {
		return nil, err
	}
	return &Projector{schema: schema, fields: append([]string(nil), fields...)}, nil
}

// MustProjector is like NewProjector but panics on a configuration error.
// Used for package-level declarations so a bad field name stops the process at
// startup.
func MustProjector(schema *Schema, fields ...string) *Projector {
	p, err := NewProjector(schema, fields...)
	if err != nil {
		panic(err)
	}
	return p
}

// Schema returns the schema the projector was validated against.
func (p *Projector) Schema() *Schema {
	return p.schema
}

// Project resolves every projected field of one entity. Each field falls back
// independently, so one may be translated while a sibling uses the default.
func (p *Projector) Project(fields Fields, set *Set, code string) map[string]string {
	out := make(map[string]string, len(p.fields))
	for _, name := range p.fields {
		out[name] = Resolve(set, fields[name], code)
	}
	return out
}

// Value resolves a single field. It panics if name was not part of the
// projector's validated list, which is a programming error.
func (p *Projector) Value(fields Fields, set *Set, code, name string) string {
	if !p.has(name) {
		panic(&ConfigError{Entity: p.schema.entity, Field: name, Err: ErrNotTranslatable})
	}
	return Resolve(set, fields[name], code)
}

// Matches reports whether term occurs in any projected field's effective value
// for code. Comparison uses Unicode case folding. An empty term matches.
func (p *Projector) Matches(fields Fields, set *Set, code, term string) bool {
	needle := Fold(term)
	if needle == "" {
		return true
	}
	for _, name := range p.fields {
		if strings.Contains(Fold(Resolve(set, fields[name], code)), needle) {
			return true
		}
	}
	return false
}

func (p *Projector) has(name string) bool {
	for _, f := range p.fields {
		if f == name {
			return true
		}
	}
	return false
}

// Fold case-folds s for comparisons and trims surrounding space. The result is
// NFC, so composed and decomposed spellings of the same text compare equal.
func Fold(s string) string {
	return norm.NFC.String(cases.Fold().String(strings.TrimSpace(s)))
}
