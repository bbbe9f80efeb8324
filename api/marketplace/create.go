package marketplace

import (
	"mime/multipart"
	"net/http"
	"storefront_server/api/health"
	"storefront_server/api/middleware"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/services"
	"storefront_server/structs"
	"strconv"
	"strings"

	"github.com/MonkyMars/gecho"
)

// multipartMemory is how much of a form is kept in memory before spilling to temp files
const multipartMemory = 8 << 20

// listingInputFromForm reads and validates the text fields of the listing form
func listingInputFromForm(values map[string][]string) (*structs.ListingInput, error) {
	get := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	input := &structs.ListingInput{
		Title:         get("title"),
		Description:   get("description"),
		Category:      structs.Category(strings.ToLower(get("category"))),
		Currency:      strings.ToUpper(get("currency")),
		SellerContact: get("seller_contact"),
	}
	if raw := get("price"); raw != "" {
		price, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, lib.Detail(lib.ErrInvalidInput, "price must be a whole number of cents")
		}
		input.Price = price
	}

	if err := lib.ValidateStruct(input); err != nil {
		return nil, err
	}
	return input, nil
}

// formImages returns the uploaded image parts, accepting both "images" and "images[]"
func formImages(form *multipart.Form) []*multipart.FileHeader {
	files := form.File["images"]
	return append(files, form.File["images[]"]...)
}

// CreateListing handles POST /marketplace/listings (multipart form)
func (mrm *MarketplaceRoutesManager) CreateListing(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		handling.HandleBodyError(err, mrm.logger, w)
		return
	}
	defer r.MultipartForm.RemoveAll()

	input, err := listingInputFromForm(r.MultipartForm.Value)
	if err != nil {
		handling.HandleError(err, "Invalid listing form", mrm.logger, w)
		return
	}

	headers := formImages(r.MultipartForm)
	uploads := make([]services.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			handling.HandleError(err, "Failed to open uploaded image", mrm.logger, w)
			return
		}
		defer f.Close()
		uploads = append(uploads, services.ImageUpload{Filename: fh.Filename, Content: f})
	}

	listing, err := mrm.listingService.CreateListing(r.Context(), claims.Sub, input, uploads)
	if err != nil {
		handling.HandleError(err, "Failed to create listing", mrm.logger, w)
		return
	}
	health.ListingsCreated.Inc()

	gecho.Success(w,
		gecho.WithMessage("success.marketplace.listingCreated"),
		gecho.WithData(map[string]any{
			"listing": listing,
		}),
		gecho.Send(),
	)
}
