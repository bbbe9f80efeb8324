package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListListings shows listings in any status, filtered by ?status=a,b
func (ar *AdminRoutesManager) ListListings(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseListingListOptions(r)
	if err != nil {
		handling.HandleError(err, "Invalid listing query parameters", ar.logger, w)
		return
	}
	opts.Statuses, err = handling.ParseListingStatuses(r)
	if err != nil {
		handling.HandleError(err, "Invalid listing status filter", ar.logger, w)
		return
	}

	result, err := ar.listingService.ListListings(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to list listings", ar.logger, w)
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

func (ar *AdminRoutesManager) UpdateListingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "listing")
	if err != nil {
		handling.HandleError(err, "Invalid listing id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ListingStatusRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	listing, err := ar.listingService.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		handling.HandleError(err, "Failed to moderate listing", ar.logger, w)
		return
	}

	ar.logger.Info("Listing moderated", gecho.Field("listing_id", id), gecho.Field("status", body.Status))
	gecho.Success(w,
		gecho.WithMessage("success.listings.statusUpdated"),
		gecho.WithData(map[string]any{"listing": listing}),
		gecho.Send(),
	)
}
