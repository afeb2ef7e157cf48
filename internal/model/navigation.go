// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/nav"
)

// NavLink is a header navigation link. ParentID is nil for top-level links.
type NavLink struct {
	ID         int64         `json:"id"`
	ParentID   *int64        `json:"parent_id,omitempty"`
	Fields     locale.Fields `json:"fields"`
	URL        string        `json:"url"`
	IsExternal bool          `json:"is_external"`
	IsActive   bool          `json:"is_active"`
	Order      int           `json:"order"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// NavNodes converts links to tree builder input.
func NavNodes(links []NavLink) []nav.Node {
	nodes := make([]nav.Node, len(links))
	for i, l := range links {
		nodes[i] = nav.Node{
			ID:         l.ID,
			ParentID:   l.ParentID,
			Title:      l.Fields[FieldTitle],
			URL:        l.URL,
			IsExternal: l.IsExternal,
			IsActive:   l.IsActive,
			Order:      l.Order,
		}
	}
	return nodes
}
