package services

import (
	"errors"
	"testing"

	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOffer() *tables.Offer {
	return &tables.Offer{
		ID:                tables.DefaultOfferID,
		Title:             map[string]string{"en": "Pick 3"},
		Price:             2500,
		Currency:          "USD",
		SlotCount:         structs.BundleSlotCount,
		AllowedCategories: []structs.Category{structs.CategoryGames, structs.CategoryEntertainment},
		IsActive:          true,
	}
}

func testProduct(category structs.Category, price uint64, name string) tables.Product {
	id := uuid.New()
	return tables.Product{
		ID:             id,
		SKU:            "SKU-" + name,
		Category:       category,
		Price:          price,
		Currency:       "USD",
		IsActive:       true,
		BundleEligible: true,
		Translations: []tables.ProductTranslation{
			{ProductID: id, Lang: "en", Name: name},
			{ProductID: id, Lang: "ar", Name: name + " (ar)"},
		},
	}
}

func productMap(products ...tables.Product) (map[uuid.UUID]tables.Product, []uuid.UUID) {
	m := make(map[uuid.UUID]tables.Product, len(products))
	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		m[p.ID] = p
		ids[i] = p.ID
	}
	return m, ids
}

func TestValidateBundleSelection(t *testing.T) {
	a := testProduct(structs.CategoryGames, 1000, "Points")
	b := testProduct(structs.CategoryEntertainment, 1200, "Stream")
	c := testProduct(structs.CategoryGames, 900, "Pass")
	products, ids := productMap(a, b, c)

	summary, err := validateBundleSelection(testOffer(), ids, products, "ar")
	require.NoError(t, err)

	require.Len(t, summary.Items, 3)
	for i, item := range summary.Items {
		assert.Equal(t, i+1, item.Slot)
		assert.Equal(t, ids[i], item.ProductID)
	}
	assert.Equal(t, "Points (ar)", summary.Items[0].Name)
	assert.Equal(t, uint64(2500), summary.BundlePrice)
	assert.Equal(t, uint64(3100), summary.ItemsTotal)
	assert.Equal(t, uint64(600), summary.Savings)
	assert.Equal(t, "USD", summary.Currency)
}

func TestValidateBundleSelectionNoNegativeSavings(t *testing.T) {
	products, ids := productMap(
		testProduct(structs.CategoryGames, 500, "A"),
		testProduct(structs.CategoryGames, 500, "B"),
		testProduct(structs.CategoryGames, 500, "C"),
	)

	summary, err := validateBundleSelection(testOffer(), ids, products, "en")
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), summary.ItemsTotal)
	assert.Zero(t, summary.Savings)
}

func TestValidateBundleSelectionRejects(t *testing.T) {
	a := testProduct(structs.CategoryGames, 1000, "A")
	b := testProduct(structs.CategoryGames, 1000, "B")
	c := testProduct(structs.CategoryGames, 1000, "C")

	inactive := testProduct(structs.CategoryGames, 1000, "Inactive")
	inactive.IsActive = false
	ineligible := testProduct(structs.CategoryGames, 1000, "Ineligible")
	ineligible.BundleEligible = false
	misc := testProduct(structs.CategoryMisc, 1000, "Misc")

	products, _ := productMap(a, b, c, inactive, ineligible, misc)

	cases := []struct {
		name   string
		ids    []uuid.UUID
		reason string
	}{
		{"too few", []uuid.UUID{a.ID, b.ID}, "exactly 3 products are required"},
		{"too many", []uuid.UUID{a.ID, b.ID, c.ID, a.ID}, "exactly 3 products are required"},
		{"duplicate", []uuid.UUID{a.ID, b.ID, a.ID}, "slot 3: product already selected"},
		{"unknown", []uuid.UUID{a.ID, uuid.New(), c.ID}, "slot 2: product not available"},
		{"inactive", []uuid.UUID{inactive.ID, b.ID, c.ID}, "slot 1: product not available"},
		{"ineligible", []uuid.UUID{a.ID, ineligible.ID, c.ID}, "slot 2: product is not part of the offer"},
		{"category", []uuid.UUID{a.ID, b.ID, misc.ID}, "slot 3: category misc is not part of the offer"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validateBundleSelection(testOffer(), tc.ids, products, "en")
			require.Error(t, err)
			assert.ErrorIs(t, err, lib.ErrInvalidBundle)
			assert.Equal(t, tc.reason, lib.ReasonOf(err))
		})
	}
}

func TestValidateBundleSelectionInactiveOffer(t *testing.T) {
	products, ids := productMap(
		testProduct(structs.CategoryGames, 500, "A"),
		testProduct(structs.CategoryGames, 500, "B"),
		testProduct(structs.CategoryGames, 500, "C"),
	)
	offer := testOffer()
	offer.IsActive = false

	_, err := validateBundleSelection(offer, ids, products, "en")
	assert.ErrorIs(t, err, lib.ErrOfferInactive)
}

func TestParseProductIDs(t *testing.T) {
	id := uuid.New()
	ids, err := ParseProductIDs([]string{" " + id.String() + " "})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, ids)

	_, err = ParseProductIDs([]string{id.String(), "nope"})
	assert.ErrorIs(t, err, lib.ErrInvalidBundle)
	assert.Equal(t, "slot 2: invalid product id", lib.ReasonOf(err))
}

func TestOfferAllows(t *testing.T) {
	offer := testOffer()
	assert.True(t, offer.Allows(structs.CategoryGames))
	assert.False(t, offer.Allows(structs.CategoryMisc))
}

func TestCleanTexts(t *testing.T) {
	out := cleanTexts(map[string]string{
		"en":    "  Pick 3 ",
		"ar-EG": "اختر 3",
		"xx":    "dropped",
		"fr":    "dropped too",
		"ar":    "",
	})
	assert.Equal(t, "Pick 3", out["en"])
	assert.Equal(t, "اختر 3", out["ar"])
	assert.Len(t, out, 2)
}

func TestDedupeCategories(t *testing.T) {
	out := dedupeCategories([]structs.Category{"games", "bogus", "games", "misc"})
	assert.Equal(t, []structs.Category{structs.CategoryGames, structs.CategoryMisc}, out)
}

func TestAllPagesCollectsEveryPage(t *testing.T) {
	const total = 250
	var requested []int

	products, err := allPages(func(page int) (*ProductListResult, error) {
		requested = append(requested, page)
		start := (page - 1) * database.MaxPageSize
		end := min(start+database.MaxPageSize, total)

		result := &ProductListResult{Pagination: database.Pagination{
			Page:       page,
			PageSize:   database.MaxPageSize,
			Total:      total,
			TotalPages: 3,
		}}
		for i := start; i < end; i++ {
			result.Products = append(result.Products, tables.Product{ID: uuid.New()})
		}
		return result, nil
	})

	require.NoError(t, err)
	assert.Len(t, products, total)
	assert.Equal(t, []int{1, 2, 3}, requested)
}

func TestAllPagesEmptyCatalog(t *testing.T) {
	calls := 0
	products, err := allPages(func(page int) (*ProductListResult, error) {
		calls++
		return &ProductListResult{}, nil
	})

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.Equal(t, 1, calls)
}

func TestAllPagesStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	_, err := allPages(func(page int) (*ProductListResult, error) {
		if page == 2 {
			return nil, boom
		}
		return &ProductListResult{
			Products:   []tables.Product{{ID: uuid.New()}},
			Pagination: database.Pagination{Page: page, TotalPages: 5},
		}, nil
	})
	assert.ErrorIs(t, err, boom)
}
