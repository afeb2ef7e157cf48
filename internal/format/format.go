// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package format turns resolved content into display strings: rendered
// Markdown, sanitized HTML and the compact related-list summaries shown in
// admin listings.
package format

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Empty is shown in place of an empty related list.
const Empty = "-"

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	// ugcPolicy keeps formatting tags and links but drops scripts, styles and
	// event handlers.
	ugcPolicy = bluemonday.UGCPolicy()

	strictPolicy = bluemonday.StrictPolicy()

	titleCaser = cases.Title(language.English)
)

// Markdown renders src to sanitized HTML. Content is authored by editors but
// still passes through the UGC policy before it reaches a browser.
func Markdown(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return ugcPolicy.Sanitize(buf.String()), nil
}

// SanitizeHTML applies the UGC policy to rich text.
func SanitizeHTML(s string) string {
	return ugcPolicy.Sanitize(s)
}

// PlainText strips all markup and trims surrounding space. Used for contact
// form input.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// RelatedList joins resolved names with ", ", or returns Empty.
func RelatedList(names []string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return Empty
	}
	return strings.Join(out, ", ")
}

// Link is a platform/URL pair, such as a team member's social profile.
type Link struct {
	Platform string
	URL      string
}

// SocialMap indexes links by platform. A later link for the same platform
// replaces an earlier one.
func SocialMap(links []Link) map[string]string {
	out := make(map[string]string, len(links))
	for _, l := range links {
		out[l.Platform] = l.URL
	}
	return out
}

// SocialSummary renders links one per line as "Platform: url", or Empty.
func SocialSummary(links []Link) string {
	if len(links) == 0 {
		return Empty
	}
	lines := make([]string, len(links))
	for i, l := range links {
		lines[i] = PlatformName(l.Platform) + ": " + l.URL
	}
	return strings.Join(lines, "\n")
}

// PlatformName turns a stored platform key ("linkedin", "x_twitter") into a
// display label.
func PlatformName(platform string) string {
	switch strings.ToLower(platform) {
	case "linkedin":
		return "LinkedIn"
	case "github":
		return "GitHub"
	case "youtube":
		return "YouTube"
	case "tiktok":
		return "TikTok"
	}
	return titleCaser.String(strings.ReplaceAll(platform, "_", " "))
}
