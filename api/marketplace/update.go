package marketplace

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// UpdateListing handles PUT /marketplace/listings/{id}; only the seller may edit
func (mrm *MarketplaceRoutesManager) UpdateListing(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())
	id, err := listingID(r)
	if err != nil {
		handling.HandleError(err, "Invalid listing id", mrm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ListingUpdateRequest](r)
	if err != nil {
		handling.HandleBodyError(err, mrm.logger, w)
		return
	}

	listing, err := mrm.listingService.UpdateListing(r.Context(), id, claims.Sub, body)
	if err != nil {
		handling.HandleError(err, "Failed to update listing", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.marketplace.listingUpdated"),
		gecho.WithData(map[string]any{
			"listing": listing,
		}),
		gecho.Send(),
	)
}

// DeleteListing handles DELETE /marketplace/listings/{id} for the seller or an admin
func (mrm *MarketplaceRoutesManager) DeleteListing(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())
	id, err := listingID(r)
	if err != nil {
		handling.HandleError(err, "Invalid listing id", mrm.logger, w)
		return
	}

	if err := mrm.listingService.DeleteListing(r.Context(), id, claims.Sub, middleware.IsAdmin(r.Context())); err != nil {
		handling.HandleError(err, "Failed to delete listing", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.marketplace.listingDeleted"),
		gecho.Send(),
	)
}
