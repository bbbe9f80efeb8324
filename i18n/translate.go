package i18n

import (
	"maps"
	"slices"
	"storefront_server/structs/tables"
)

// PickTranslation returns the translation for lang, else the default language, else the first one.
func PickTranslation(translations []tables.ProductTranslation, lang string) *tables.ProductTranslation {
	if len(translations) == 0 {
		return nil
	}
	def := Lang(Default())
	var fallback *tables.ProductTranslation
	for i := range translations {
		switch translations[i].Lang {
		case lang:
			return &translations[i]
		case def:
			fallback = &translations[i]
		}
	}
	if fallback != nil {
		return fallback
	}
	return &translations[0]
}

// PickText resolves a language map the same way as PickTranslation.
func PickText(texts map[string]string, lang string) string {
	if t, ok := texts[lang]; ok && t != "" {
		return t
	}
	if t, ok := texts[Lang(Default())]; ok && t != "" {
		return t
	}
	for _, k := range slices.Sorted(maps.Keys(texts)) {
		if t := texts[k]; t != "" {
			return t
		}
	}
	return ""
}
