// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Language text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Language describes a supported content language.
type Language struct {
	Code       string `json:"code"`        // ISO 639-1: en, az, ru
	Name       string `json:"name"`        // English, Azerbaijani, Russian
	NativeName string `json:"native_name"` // English, Azərbaycan, Русский
	Direction  string `json:"direction"`   // ltr, rtl
	IsDefault  bool   `json:"is_default"`
}

// IsRTL returns true if the language is right-to-left.
func (l *Language) IsRTL() bool {
	return l.Direction == DirectionRTL
}

// commonLanguages holds display names for codes the site is likely to enable.
var commonLanguages = map[string]Language{
	"en": {Code: "en", Name: "English", NativeName: "English", Direction: DirectionLTR},
	"az": {Code: "az", Name: "Azerbaijani", NativeName: "Azərbaycan", Direction: DirectionLTR},
	"ru": {Code: "ru", Name: "Russian", NativeName: "Русский", Direction: DirectionLTR},
	"tr": {Code: "tr", Name: "Turkish", NativeName: "Türkçe", Direction: DirectionLTR},
	"de": {Code: "de", Name: "German", NativeName: "Deutsch", Direction: DirectionLTR},
	"fr": {Code: "fr", Name: "French", NativeName: "Français", Direction: DirectionLTR},
	"es": {Code: "es", Name: "Spanish", NativeName: "Español", Direction: DirectionLTR},
	"it": {Code: "it", Name: "Italian", NativeName: "Italiano", Direction: DirectionLTR},
	"uk": {Code: "uk", Name: "Ukrainian", NativeName: "Українська", Direction: DirectionLTR},
	"ar": {Code: "ar", Name: "Arabic", NativeName: "العربية", Direction: DirectionRTL},
	"fa": {Code: "fa", Name: "Persian", NativeName: "فارسی", Direction: DirectionRTL},
	"he": {Code: "he", Name: "Hebrew", NativeName: "עברית", Direction: DirectionRTL},
}

// LanguageFor returns display information for code. Unknown codes get the code
// itself as their name.
func LanguageFor(code string, isDefault bool) Language {
	l, ok := commonLanguages[code]
	if !ok {
		l = Language{Code: code, Name: code, NativeName: code, Direction: DirectionLTR}
	}
	l.IsDefault = isDefault
	return l
}
