// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	html, err := Markdown("# Heading\n\nSome **bold** text and a [link](https://example.com).")
	require.NoError(t, err)

	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, `href="https://example.com"`)
}

func TestMarkdown_StripsScripts(t *testing.T) {
	html, err := Markdown("hello <script>alert(1)</script> <a href=\"javascript:alert(1)\">x</a>")
	require.NoError(t, err)

	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "javascript:")
}

func TestMarkdown_Empty(t *testing.T) {
	html, err := Markdown("   ")
	require.NoError(t, err)
	assert.Empty(t, html)
}

func TestSanitizeHTML(t *testing.T) {
	out := SanitizeHTML(`<p onclick="x()">Hi <em>there</em></p><iframe src="x"></iframe>`)
	assert.Equal(t, "<p>Hi <em>there</em></p>", out)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Jane Doe", PlainText("  <b>Jane</b> Doe "))
	assert.Equal(t, "", PlainText("<script>alert(1)</script>"))
	assert.Equal(t, "Tom & Jerry", PlainText("Tom & Jerry"))
}

func TestRelatedList(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
	}{
		{"nil", nil, Empty},
		{"blank entries", []string{"", "  "}, Empty},
		{"one", []string{"Go"}, "Go"},
		{"several", []string{"Go", " Django ", "", "React"}, "Go, Django, React"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelatedList(tt.names))
		})
	}
}

func TestSocialMap(t *testing.T) {
	m := SocialMap([]Link{
		{Platform: "instagram", URL: "https://instagram.com/a"},
		{Platform: "linkedin", URL: "https://linkedin.com/in/a"},
		{Platform: "instagram", URL: "https://instagram.com/b"},
	})
	assert.Equal(t, map[string]string{
		"instagram": "https://instagram.com/b",
		"linkedin":  "https://linkedin.com/in/a",
	}, m)
	assert.Empty(t, SocialMap(nil))
}

func TestSocialSummary(t *testing.T) {
	assert.Equal(t, Empty, SocialSummary(nil))

	out := SocialSummary([]Link{
		{Platform: "linkedin", URL: "https://linkedin.com/in/a"},
		{Platform: "behance", URL: "https://behance.net/a"},
	})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "LinkedIn: https://linkedin.com/in/a", lines[0])
	assert.Equal(t, "Behance: https://behance.net/a", lines[1])
}

func TestPlatformName(t *testing.T) {
	assert.Equal(t, "GitHub", PlatformName("github"))
	assert.Equal(t, "Instagram", PlatformName("instagram"))
	assert.Equal(t, "Personal Site", PlatformName("personal_site"))
}
