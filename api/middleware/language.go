package middleware

import (
	"net/http"
	"storefront_server/i18n"
)

// LanguageMiddleware resolves the request language and stores it in the context.
// An explicit ?lang= choice is remembered in a cookie.
func (mw *Middleware) LanguageMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag, persist := i18n.ResolveTag(r)
		if persist {
			i18n.SetLanguageCookie(w, tag)
		}
		w.Header().Set("Content-Language", i18n.Lang(tag))
		w.Header().Add("Vary", "Accept-Language")

		next.ServeHTTP(w, r.WithContext(i18n.WithTag(r.Context(), tag)))
	})
}
