package lib

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

// GenerateRandomToken generates a cryptographically secure random token
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// GenerateSKU builds a SKU from a category prefix, the product name and a random suffix.
// Names without latin letters or digits (e.g. Arabic) fall back to "PRD".
func GenerateSKU(category, productName string, suffixLength int) (string, error) {
	namePart := strings.Map(func(r rune) rune {
		r = unicode.ToUpper(r)
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, productName)
	if len(namePart) > 3 {
		namePart = namePart[:3]
	}
	if namePart == "" {
		namePart = "PRD"
	}

	catPart := strings.ToUpper(category)
	if len(catPart) > 3 {
		catPart = catPart[:3]
	}

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, suffixLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = letters[int(b[i])%len(letters)]
	}

	if catPart == "" {
		return fmt.Sprintf("%s-%s", namePart, b), nil
	}
	return fmt.Sprintf("%s-%s-%s", catPart, namePart, b), nil
}
