package marketplace

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/handling"
	"storefront_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func listingID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, lib.Detail(lib.ErrInvalidInput, "invalid listing id")
	}
	return id, nil
}

// ListListings handles GET /marketplace/listings
func (mrm *MarketplaceRoutesManager) ListListings(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseListingListOptions(r)
	if err != nil {
		handling.HandleError(err, "Invalid listing query parameters", mrm.logger, w)
		return
	}

	result, err := mrm.listingService.ListPublic(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to list marketplace listings", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"listings":   result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

// GetListing handles GET /marketplace/listings/{id}
func (mrm *MarketplaceRoutesManager) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := listingID(r)
	if err != nil {
		handling.HandleError(err, "Invalid listing id", mrm.logger, w)
		return
	}

	viewer := middleware.UserIDFromContext(r.Context())
	listing, err := mrm.listingService.GetListing(r.Context(), id, viewer, middleware.IsAdmin(r.Context()))
	if err != nil {
		handling.HandleError(err, "Failed to fetch listing", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"listing": listing,
		}),
		gecho.Send(),
	)
}

// MyListings handles GET /marketplace/me
func (mrm *MarketplaceRoutesManager) MyListings(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		handling.HandleError(err, "Invalid pagination", mrm.logger, w)
		return
	}

	result, err := mrm.listingService.ListBySeller(r.Context(), claims.Sub, page, pageSize)
	if err != nil {
		handling.HandleError(err, "Failed to list own listings", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"listings":   result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}
