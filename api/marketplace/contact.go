package marketplace

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/handling"
	"storefront_server/i18n"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// ContactSeller handles POST /marketplace/listings/{id}/contact and returns the prefilled chat link
func (mrm *MarketplaceRoutesManager) ContactSeller(w http.ResponseWriter, r *http.Request) {
	id, err := listingID(r)
	if err != nil {
		handling.HandleError(err, "Invalid listing id", mrm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ContactRequest](r)
	if err != nil {
		handling.HandleBodyError(err, mrm.logger, w)
		return
	}

	buyer := middleware.UserIDFromContext(r.Context())
	link, err := mrm.listingService.ContactLink(r.Context(), id, buyer, body, i18n.FromContext(r.Context()))
	if err != nil {
		handling.HandleError(err, "Failed to build contact link", mrm.logger, w)
		return
	}

	mrm.logger.Debug("Marketplace contact link issued", gecho.Field("listing_id", id), gecho.Field("mode", body.Mode))
	gecho.Success(w,
		gecho.WithData(map[string]any{
			"messaging_link": link,
			"mode":           body.Mode,
		}),
		gecho.Send(),
	)
}
