// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/model"
)

// Languages describes the supported languages, default first.
func Languages(set *locale.Set) []model.Language {
	codes := set.Codes()
	out := make([]model.Language, len(codes))
	for i, code := range codes {
		out[i] = model.LanguageFor(code, code == set.Default())
	}
	return out
}
