package services

import (
	"testing"

	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func uint64Ptr(v uint64) *uint64 { return &v }
func boolPtr(v bool) *bool       { return &v }

func TestApplyDefaultOptions(t *testing.T) {
	opts := &ProductListOptions{SortDirection: "desc", SearchTerm: "  fifa\x00 "}
	applyDefaultOptions(opts)

	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 20, opts.PageSize)
	assert.Equal(t, "sort_order", opts.SortBy)
	assert.Equal(t, "DESC", opts.SortDirection)
	assert.Equal(t, "fifa", opts.SearchTerm)
	assert.Equal(t, language.English, opts.Lang)
	assert.NotZero(t, opts.Timeout)
}

func TestValidateOptions(t *testing.T) {
	valid := func() *ProductListOptions {
		opts := &ProductListOptions{}
		applyDefaultOptions(opts)
		return opts
	}

	require.NoError(t, validateOptions(valid()))

	cases := []struct {
		name   string
		mutate func(*ProductListOptions)
	}{
		{"sort field", func(o *ProductListOptions) { o.SortBy = "password_hash" }},
		{"sort direction", func(o *ProductListOptions) { o.SortDirection = "SIDEWAYS" }},
		{"price range", func(o *ProductListOptions) { o.MinPrice, o.MaxPrice = uint64Ptr(500), uint64Ptr(100) }},
		{"category", func(o *ProductListOptions) { o.Categories = []structs.Category{"books"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := valid()
			tc.mutate(opts)
			assert.ErrorIs(t, validateOptions(opts), lib.ErrInvalidInput)
		})
	}
}

func TestCacheKeyDistinguishesFilters(t *testing.T) {
	base := ProductListOptions{Page: 1, PageSize: 20, Lang: language.English, SortBy: "sort_order", SortDirection: "ASC"}

	arabic := base
	arabic.Lang = language.Arabic

	eligible := base
	eligible.BundleEligible = boolPtr(true)

	games := base
	games.Categories = []structs.Category{structs.CategoryGames}

	search := base
	search.SearchTerm = "FIFA"
	searchLower := base
	searchLower.SearchTerm = "fifa"

	keys := map[string]bool{}
	for _, o := range []ProductListOptions{base, arabic, eligible, games, search} {
		keys[o.CacheKey()] = true
	}
	assert.Len(t, keys, 5)
	assert.Equal(t, search.CacheKey(), searchLower.CacheKey())
}

func TestLocalize(t *testing.T) {
	id := uuid.New()
	products := []tables.Product{{
		ID: id,
		Translations: []tables.ProductTranslation{
			{ProductID: id, Lang: "en", Name: "Gift card", Description: "Digital code"},
			{ProductID: id, Lang: "ar", Name: "بطاقة هدية", Description: "رمز رقمي"},
		},
	}}

	localize(products, "ar", true)
	assert.Equal(t, "بطاقة هدية", products[0].Name)
	assert.Equal(t, "رمز رقمي", products[0].Description)
	assert.Len(t, products[0].Translations, 2)

	localize(products, "de", false)
	assert.Equal(t, "Gift card", products[0].Name)
	assert.Nil(t, products[0].Translations)
}

func TestNormalizeTranslations(t *testing.T) {
	out, err := normalizeTranslations([]structs.TranslationInput{
		{Lang: "EN", Name: "  Gift card ", Description: "Code\x07"},
		{Lang: "ar-SA", Name: "بطاقة هدية"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, structs.TranslationInput{Lang: "en", Name: "Gift card", Description: "Code"}, out[0])
	assert.Equal(t, "ar", out[1].Lang)
	assert.Equal(t, "Gift card", defaultName(out))
}

func TestNormalizeTranslationsRejects(t *testing.T) {
	cases := []struct {
		name   string
		inputs []structs.TranslationInput
	}{
		{"unsupported", []structs.TranslationInput{{Lang: "en", Name: "A"}, {Lang: "fr", Name: "B"}}},
		{"duplicate", []structs.TranslationInput{{Lang: "en", Name: "A"}, {Lang: "en-GB", Name: "B"}}},
		{"missing default", []structs.TranslationInput{{Lang: "ar", Name: "A"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := normalizeTranslations(tc.inputs)
			assert.ErrorIs(t, err, lib.ErrInvalidInput)
		})
	}
}

func TestBuildTranslations(t *testing.T) {
	productID := uuid.New()
	rows := buildTranslations(productID, []structs.TranslationInput{{Lang: "en", Name: "A"}, {Lang: "ar", Name: "B"}})

	require.Len(t, rows, 2)
	assert.NotEqual(t, rows[0].ID, rows[1].ID)
	for _, row := range rows {
		assert.Equal(t, productID, row.ProductID)
	}
}
