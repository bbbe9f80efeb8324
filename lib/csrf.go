package lib

import (
	"crypto/subtle"
	"net/http"
)

// GenerateCSRFToken generates a token for the double-submit cookie pattern
func GenerateCSRFToken() (string, error) {
	return GenerateRandomToken()
}

// ValidCSRF reports whether the request header matches the CSRF cookie
func ValidCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	token := r.Header.Get(CSRFHeaderName)
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(cookie.Value)) == 1
}
