// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Pagination defaults.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ListParams carries the query options of a list request. Lang must already be
// normalized; search runs against values resolved for it.
type ListParams struct {
	Lang       string
	Search     string
	Status     string
	Category   string
	Tag        string
	Technology string
	Client     string
	Ordering   string
	Page       int
	PerPage    int
}

// Page is one page of a filtered and ordered list.
type Page[T any] struct {
	Items   []T
	Total   int
	Page    int
	PerPage int
}

// Pages returns the number of pages, at least 1.
func (p Page[T]) Pages() int {
	if p.Total == 0 || p.PerPage <= 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// OrderingError reports an ordering key that the list does not support.
type OrderingError struct {
	Key     string
	Allowed []string
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("unsupported ordering %q (allowed: %s)", e.Key, strings.Join(e.Allowed, ", "))
}

// orderings maps an ordering key to its ascending comparison.
type orderings[T any] map[string]func(a, b T) int

func (o orderings[T]) keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// sort orders items by a comma-separated list of keys, each optionally
// prefixed with "-" for descending. An empty spec uses def. The sort is stable
// so ties keep the storage order.
func (o orderings[T]) sort(items []T, spec, def string) error {
	if strings.TrimSpace(spec) == "" {
		spec = def
	}

	var cmps []func(a, b T) int
	for _, part := range strings.Split(spec, ",") {
		key := strings.TrimSpace(part)
		if key == "" {
			continue
		}
		desc := strings.HasPrefix(key, "-")
		key = strings.TrimPrefix(key, "-")
		fn, ok := o[key]
		if !ok {
			return &OrderingError{Key: key, Allowed: o.keys()}
		}
		if desc {
			cmps = append(cmps, func(a, b T) int { return fn(b, a) })
		} else {
			cmps = append(cmps, fn)
		}
	}

	slices.SortStableFunc(items, func(a, b T) int {
		for _, c := range cmps {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	})
	return nil
}

// pageOffset returns the index of the first item on page, or total when the
// page lies past the end. Huge page numbers never overflow.
func pageOffset(page, perPage, total int) int {
	if page <= 1 {
		return 0
	}
	if page-1 > total/perPage {
		return total
	}
	return min((page-1)*perPage, total)
}

// paginate clamps page and perPage and slices items.
func paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	perPage = min(perPage, MaxPerPage)
	page = max(page, 1)

	start := pageOffset(page, perPage, len(items))
	end := min(start+perPage, len(items))

	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{Items: out, Total: len(items), Page: page, PerPage: perPage}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func byInt64[T any](get func(T) int64) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(get(a), get(b)) }
}

func byInt[T any](get func(T) int) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(get(a), get(b)) }
}

func byString[T any](get func(T) string) func(a, b T) int {
	return func(a, b T) int { return strings.Compare(get(a), get(b)) }
}
