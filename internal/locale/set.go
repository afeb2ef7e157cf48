// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package locale resolves translatable content fields against a fixed set of
// supported languages. A field always has a default-language value and may carry
// per-language variants; the effective value for a request is the variant when it
// is non-empty and the default otherwise.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrNoLanguages is returned when a Set is created without any language codes.
var ErrNoLanguages = errors.New("locale: at least one language is required")

// Set is the closed set of supported language codes with exactly one default.
// A Set is immutable after construction and safe for concurrent use.
type Set struct {
	def     string
	codes   []string
	index   map[string]struct{}
	tags    []language.Tag
	matcher language.Matcher
}

// NewSet creates a Set. The default code is always included, first in order,
// even if it is not repeated in codes. Codes are lower-cased and de-duplicated.
func NewSet(defaultCode string, codes ...string) (*Set, error) {
	def := normalizeCode(defaultCode)
	if def == "" {
		return nil, ErrNoLanguages
	}

	s := &Set{
		def:   def,
		index: make(map[string]struct{}, len(codes)+1),
	}

	for _, c := range append([]string{def}, codes...) {
		code := normalizeCode(c)
		if code == "" {
			continue
		}
		if _, dup := s.index[code]; dup {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("locale: invalid language code %q: %w", c, err)
		}
		s.index[code] = struct{}{}
		s.codes = append(s.codes, code)
		s.tags = append(s.tags, tag)
	}

	s.matcher = language.NewMatcher(s.tags)
	return s, nil
}

// MustSet is like NewSet but panics on error. Intended for tests and fixed tables.
func MustSet(defaultCode string, codes ...string) *Set {
	s, err := NewSet(defaultCode, codes...)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the default (baseline) language code.
func (s *Set) Default() string {
	return s.def
}

// Codes returns the supported codes, default first.
func (s *Set) Codes() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

// Supports reports whether code is one of the supported languages.
func (s *Set) Supports(code string) bool {
	_, ok := s.index[normalizeCode(code)]
	return ok
}

// IsDefault reports whether code normalizes to the default language.
func (s *Set) IsDefault(code string) bool {
	return s.Normalize(code) == s.def
}

// Normalize maps any requested code to a supported one. Matching is
// case-insensitive and a regional code ("es-MX", "pt_BR") reduces to its base
// language when only the base is supported. Anything else yields the default.
func (s *Set) Normalize(code string) string {
	c := normalizeCode(code)
	if c == "" {
		return s.def
	}
	if _, ok := s.index[c]; ok {
		return c
	}
	if i := strings.IndexByte(c, '-'); i > 0 {
		if _, ok := s.index[c[:i]]; ok {
			return c[:i]
		}
	}
	return s.def
}

// Match picks the best supported language for an Accept-Language header value.
// An empty or unparsable header, or one with no acceptable match, yields the default.
func (s *Set) Match(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return s.def
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return s.def
	}
	_, idx, conf := s.matcher.Match(tags...)
	if conf == language.No {
		return s.def
	}
	return s.codes[idx]
}

func normalizeCode(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	return strings.ReplaceAll(c, "_", "-")
}
