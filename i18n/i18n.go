package i18n

import (
	"context"
	"net/http"
	"storefront_server/config"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "lang"
)

type ctxKey struct{}

var (
	setupOnce sync.Once
	supported []language.Tag
	matcher   language.Matcher
)

func setup() {
	setupOnce.Do(func() {
		cfg := config.GetConfig().I18n

		def := language.English
		if tag, err := language.Parse(cfg.DefaultLanguage); err == nil {
			def = baseTag(tag)
		}
		// the default language goes first so the matcher falls back to it
		supported = []language.Tag{def}
		for _, l := range cfg.SupportedLanguages {
			tag, err := language.Parse(strings.TrimSpace(l))
			if err != nil {
				continue
			}
			tag = baseTag(tag)
			if !containsTag(supported, tag) {
				supported = append(supported, tag)
			}
		}
		matcher = language.NewMatcher(supported)
	})
}

// Supported returns the supported language tags, default first.
func Supported() []language.Tag {
	setup()
	return supported
}

// Default returns the default language tag.
func Default() language.Tag {
	setup()
	return supported[0]
}

// ParseTag parses value and returns it only when it is a supported language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	tag = baseTag(tag)
	if !containsTag(Supported(), tag) {
		return language.Und, false
	}
	return tag, true
}

// Match picks the best supported tag for the given preferences.
func Match(tags ...language.Tag) language.Tag {
	setup()
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	return supported[idx]
}

// ResolveTag determines the best language tag for the request.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}

	if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return Match(tags...), false
		}
	}

	return Default(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// WithTag stores tag in ctx.
func WithTag(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// FromContext returns the request language, or the default when none was resolved.
func FromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(ctxKey{}).(language.Tag); ok {
		return tag
	}
	return Default()
}

// Lang returns the language code stored on translations and orders, e.g. "en".
func Lang(tag language.Tag) string {
	return baseTag(tag).String()
}

// IsRTL reports whether the language is written right to left.
func IsRTL(tag language.Tag) bool {
	switch Lang(tag) {
	case "ar", "he", "fa", "ur":
		return true
	}
	return false
}

func baseTag(tag language.Tag) language.Tag {
	base, _ := tag.Base()
	return language.Make(base.String())
}

func containsTag(tags []language.Tag, tag language.Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
