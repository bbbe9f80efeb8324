package marketplace

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"storefront_server/lib"
	"storefront_server/structs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingInputFromForm(t *testing.T) {
	input, err := listingInputFromForm(map[string][]string{
		"title":          {"  PS Plus 12 months "},
		"description":    {"Unused code"},
		"category":       {"Games"},
		"price":          {"1999"},
		"currency":       {"usd"},
		"seller_contact": {"+20 100 000 0000"},
	})
	require.NoError(t, err)
	assert.Equal(t, "PS Plus 12 months", input.Title)
	assert.Equal(t, structs.Category("games"), input.Category)
	assert.Equal(t, uint64(1999), input.Price)
	assert.Equal(t, "USD", input.Currency)
}

func TestListingInputFromFormRejects(t *testing.T) {
	valid := func() map[string][]string {
		return map[string][]string{
			"title":          {"Netflix gift card"},
			"category":       {"entertainment"},
			"price":          {"500"},
			"seller_contact": {"@seller"},
		}
	}

	t.Run("price with decimals", func(t *testing.T) {
		values := valid()
		values["price"] = []string{"5.00"}
		_, err := listingInputFromForm(values)
		assert.ErrorIs(t, err, lib.ErrInvalidInput)
	})

	t.Run("missing price", func(t *testing.T) {
		values := valid()
		delete(values, "price")
		_, err := listingInputFromForm(values)
		var ve *lib.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "price", ve.Errors[0].Field)
	})

	t.Run("unknown category", func(t *testing.T) {
		values := valid()
		values["category"] = []string{"cars"}
		_, err := listingInputFromForm(values)
		var ve *lib.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "category", ve.Errors[0].Field)
	})
}

func TestFormImagesAcceptsBothNames(t *testing.T) {
	var buf bytes.Buffer
	mpw := multipart.NewWriter(&buf)
	for _, field := range []string{"images", "images[]", "images[]"} {
		part, err := mpw.CreateFormFile(field, "a.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, mpw.Close())

	r := httptest.NewRequest(http.MethodPost, "/marketplace/listings", &buf)
	r.Header.Set("Content-Type", mpw.FormDataContentType())
	require.NoError(t, r.ParseMultipartForm(1<<20))

	assert.Len(t, formImages(r.MultipartForm), 3)
}
