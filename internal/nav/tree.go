// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package nav assembles header navigation links into an ordered, locale-resolved
// forest. Only active nodes are emitted; an inactive node hides its entire subtree.
package nav

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/olegiv/creative-api/internal/locale"
)

// Data integrity errors.
var (
	ErrCycle       = errors.New("nav: parent relation contains a cycle")
	ErrDuplicateID = errors.New("nav: duplicate node id")
)

// CycleError identifies the node at which a parent cycle was detected and the
// chain of IDs that leads back to it.
type CycleError struct {
	NodeID int64
	Path   []int64
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("nav: cycle at node %d (%s)", e.NodeID, strings.Join(parts, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// Node is one stored navigation link.
type Node struct {
	ID         int64
	ParentID   *int64
	Title      locale.Text
	URL        string
	IsExternal bool
	IsActive   bool
	Order      int
}

// Item is a resolved navigation node ready for serialization.
type Item struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	IsExternal bool   `json:"is_external"`
	IsActive   bool   `json:"is_active"`
	Order      int    `json:"order"`
	Children   []Item `json:"children"`
}

// forest is the arena form of the input: nodes live in a slice and every
// relation is expressed through slice indices.
type forest struct {
	nodes    []Node
	index    map[int64]int
	parent   []int // -1 for roots and dangling parents
	children [][]int
	roots    []int
}

func newForest(nodes []Node) (*forest, error) {
	f := &forest{
		nodes:    nodes,
		index:    make(map[int64]int, len(nodes)),
		parent:   make([]int, len(nodes)),
		children: make([][]int, len(nodes)),
	}
	for i, n := range nodes {
		if _, dup := f.index[n.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, n.ID)
		}
		f.index[n.ID] = i
	}

	for i, n := range nodes {
		f.parent[i] = -1
		if n.ParentID == nil {
			f.roots = append(f.roots, i)
			continue
		}
		p, ok := f.index[*n.ParentID]
		if !ok {
			// Parent not in the working set, treat as root.
			f.roots = append(f.roots, i)
			continue
		}
		f.parent[i] = p
		f.children[p] = append(f.children[p], i)
	}

	f.sort(f.roots)
	for _, c := range f.children {
		f.sort(c)
	}
	return f, nil
}

func (f *forest) sort(idx []int) {
	slices.SortFunc(idx, func(a, b int) int {
		na, nb := f.nodes[a], f.nodes[b]
		if c := cmp.Compare(na.Order, nb.Order); c != 0 {
			return c
		}
		return cmp.Compare(na.ID, nb.ID)
	})
}

// checkCycles walks every parent chain once. Nodes are visited in ID order so
// the reported node is the same for repeated calls on the same input.
func (f *forest) checkCycles() error {
	const (
		unvisited = iota
		inProgress
		done
	)

	order := make([]int, len(f.nodes))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(f.nodes[a].ID, f.nodes[b].ID)
	})

	state := make([]int, len(f.nodes))
	var chain []int
	for _, start := range order {
		if state[start] != unvisited {
			continue
		}
		chain = chain[:0]
		cur := start
		for cur >= 0 && state[cur] == unvisited {
			state[cur] = inProgress
			chain = append(chain, cur)
			cur = f.parent[cur]
		}
		if cur >= 0 && state[cur] == inProgress {
			return f.cycleError(chain, cur)
		}
		for _, i := range chain {
			state[i] = done
		}
	}
	return nil
}

func (f *forest) cycleError(chain []int, at int) *CycleError {
	start := slices.Index(chain, at)
	path := make([]int64, 0, len(chain)-start+1)
	for _, i := range chain[start:] {
		path = append(path, f.nodes[i].ID)
	}
	path = append(path, f.nodes[at].ID)
	return &CycleError{NodeID: f.nodes[at].ID, Path: path}
}

// Check validates the parent relation of nodes without building a tree. Inactive
// nodes are included, so a cycle hidden behind an inactive ancestor is still
// reported.
func Check(nodes []Node) error {
	f, err := newForest(nodes)
	if err != nil {
		return err
	}
	return f.checkCycles()
}

// Build returns the ordered forest of active nodes with titles resolved for code.
// Siblings are ordered by Order, then by ID. A node whose parent is not part of
// nodes becomes a root. A cycle anywhere in the parent relation aborts the build
// with a *CycleError; no partial tree is returned. An empty result is not an error.
func Build(nodes []Node, set *locale.Set, code string) ([]Item, error) {
	f, err := newForest(nodes)
	if err != nil {
		return nil, err
	}
	if err := f.checkCycles(); err != nil {
		return nil, err
	}

	code = set.Normalize(code)
	visited := make([]bool, len(f.nodes))

	var expand func(idx []int, path []int64) ([]Item, error)
	expand = func(idx []int, path []int64) ([]Item, error) {
		out := make([]Item, 0, len(idx))
		for _, i := range idx {
			n := f.nodes[i]
			if !n.IsActive {
				continue
			}
			if visited[i] {
				return nil, &CycleError{NodeID: n.ID, Path: append(slices.Clone(path), n.ID)}
			}
			visited[i] = true

			children, err := expand(f.children[i], append(path, n.ID))
			if err != nil {
				return nil, err
			}
			out = append(out, Item{
				ID:         n.ID,
				Title:      locale.Resolve(set, n.Title, code),
				URL:        n.URL,
				IsExternal: n.IsExternal,
				IsActive:   n.IsActive,
				Order:      n.Order,
				Children:   children,
			})
		}
		return out, nil
	}

	return expand(f.roots, nil)
}

// Count returns the number of items in the forest, at any depth.
func Count(items []Item) int {
	n := len(items)
	for _, it := range items {
		n += Count(it.Children)
	}
	return n
}
