package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFormatPrice(t *testing.T) {
	usd := FormatPrice(language.English, 2500, "USD")
	assert.Contains(t, usd, "25.00")
	assert.Contains(t, usd, "$")
	assert.NotContains(t, usd, "USD")

	assert.Contains(t, FormatPrice(language.English, 5, "EGP"), "0.05")

	yen := FormatPrice(language.English, 1200, "JPY")
	assert.Contains(t, yen, "1200")
	assert.NotContains(t, yen, ".")
}

func TestFormatPriceArabic(t *testing.T) {
	assert.Contains(t, FormatPrice(language.Arabic, 2500, "USD"), "25.00")
	assert.Contains(t, FormatPrice(language.Arabic, 1200, "JPY"), "1200")
}

func TestFormatPriceUnknownCode(t *testing.T) {
	assert.Equal(t, "12.34", FormatPrice(language.English, 1234, ""))
	assert.Equal(t, "12.34 PTS", FormatPrice(language.English, 1234, "PTS"))
}
