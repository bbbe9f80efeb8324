package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"storefront_server/structs/tables"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestSupportedDefaults(t *testing.T) {
	tags := Supported()
	require.Len(t, tags, 2)
	assert.Equal(t, language.English, Default())
	assert.Equal(t, language.Arabic, tags[1])
}

func TestResolveTag(t *testing.T) {
	t.Run("query param wins and is persisted", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/products?lang=ar", nil)
		r.AddCookie(&http.Cookie{Name: LangCookieName, Value: "en"})
		tag, persist := ResolveTag(r)
		assert.Equal(t, language.Arabic, tag)
		assert.True(t, persist)
	})

	t.Run("cookie before accept-language", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/products", nil)
		r.AddCookie(&http.Cookie{Name: LangCookieName, Value: "ar"})
		r.Header.Set("Accept-Language", "en-US,en;q=0.9")
		tag, persist := ResolveTag(r)
		assert.Equal(t, language.Arabic, tag)
		assert.False(t, persist)
	})

	t.Run("accept-language regional variant", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/products", nil)
		r.Header.Set("Accept-Language", "ar-EG,ar;q=0.9")
		tag, _ := ResolveTag(r)
		assert.Equal(t, "ar", Lang(tag))
	})

	t.Run("unsupported falls back to default", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/products?lang=xx", nil)
		r.Header.Set("Accept-Language", "ja")
		tag, persist := ResolveTag(r)
		assert.Equal(t, language.English, tag)
		assert.False(t, persist)
	})

	t.Run("nil request", func(t *testing.T) {
		tag, _ := ResolveTag(nil)
		assert.Equal(t, Default(), tag)
	})
}

func TestContextRoundTrip(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
	ctx := WithTag(context.Background(), language.Arabic)
	assert.Equal(t, language.Arabic, FromContext(ctx))
}

func TestIsRTL(t *testing.T) {
	assert.True(t, IsRTL(language.Arabic))
	assert.False(t, IsRTL(language.English))
}

func TestSprintfLocalizes(t *testing.T) {
	en := Sprintf(language.English, MsgSingleOrder, "FIFA Points", "DG-ABC234", "Sam", "10.00 USD")
	assert.True(t, strings.HasPrefix(en, "Hello!"))
	assert.Contains(t, en, "DG-ABC234")

	ar := Sprintf(language.Arabic, MsgSingleOrder, "FIFA Points", "DG-ABC234", "Sam", "10.00 USD")
	assert.Contains(t, ar, "رقم الطلب")
	assert.Contains(t, ar, "DG-ABC234")
}

func TestSprintfFallsBackToEnglish(t *testing.T) {
	out := Sprintf(language.French, MsgNote, "fast please")
	assert.Equal(t, "Note: fast please", out)
}

func TestPickTranslation(t *testing.T) {
	translations := []tables.ProductTranslation{
		{Lang: "ar", Name: "لعبة"},
		{Lang: "en", Name: "Game"},
	}

	assert.Equal(t, "لعبة", PickTranslation(translations, "ar").Name)
	assert.Equal(t, "Game", PickTranslation(translations, "fr").Name)
	assert.Equal(t, "لعبة", PickTranslation(translations[:1], "fr").Name)
	assert.Nil(t, PickTranslation(nil, "en"))
}

func TestPickText(t *testing.T) {
	texts := map[string]string{"en": "Pick any 3", "ar": "اختر 3"}
	assert.Equal(t, "اختر 3", PickText(texts, "ar"))
	assert.Equal(t, "Pick any 3", PickText(texts, "de"))
	assert.Equal(t, "x", PickText(map[string]string{"de": "x"}, "fr"))
	assert.Empty(t, PickText(nil, "en"))
}
