package lib

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	ProviderWhatsApp = "whatsapp"
	ProviderTelegram = "telegram"

	// MaxMessageRunes caps prefilled text so links stay within URL limits of messaging apps
	MaxMessageRunes = 2000
)

// BuildMessagingLink returns a deep link that opens a chat with recipient and prefilled text
func BuildMessagingLink(provider, recipient, text string) (string, error) {
	text = TruncateText(text, MaxMessageRunes)

	switch strings.ToLower(provider) {
	case ProviderWhatsApp, "":
		phone := NormalizePhone(recipient)
		if phone == "" {
			return "", ErrMessagingNotSetUp
		}
		link := "https://wa.me/" + phone
		if text != "" {
			link += "?text=" + url.QueryEscape(text)
		}
		return link, nil

	case ProviderTelegram:
		var link string
		if isPhone(recipient) {
			phone := NormalizePhone(recipient)
			if phone == "" {
				return "", ErrMessagingNotSetUp
			}
			link = "https://t.me/+" + phone
		} else {
			handle := strings.TrimPrefix(strings.TrimSpace(recipient), "@")
			if handle == "" {
				return "", ErrMessagingNotSetUp
			}
			link = "https://t.me/" + url.PathEscape(handle)
		}
		if text != "" {
			link += "?text=" + url.QueryEscape(text)
		}
		return link, nil
	}

	return "", fmt.Errorf("unknown messaging provider %q", provider)
}

// isPhone reports whether recipient is a phone number rather than a username:
// a leading "+" or only digits and the usual separators.
func isPhone(recipient string) bool {
	recipient = strings.TrimSpace(recipient)
	if strings.HasPrefix(recipient, "+") {
		return true
	}
	digits := 0
	for _, r := range recipient {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return digits > 0
}

// NormalizePhone keeps digits only and drops an international "00" prefix
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if !strings.HasPrefix(strings.TrimSpace(phone), "+") {
		digits = strings.TrimPrefix(digits, "00")
	}
	return digits
}

// TruncateText cuts s to at most max runes, ending with an ellipsis when cut
func TruncateText(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
