package offer

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/i18n"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// GetOffer handles GET /offer
func (orm *OfferRoutesManager) GetOffer(w http.ResponseWriter, r *http.Request) {
	tag := i18n.FromContext(r.Context())
	view, err := orm.offerService.GetOfferView(r.Context(), tag)
	if err != nil {
		handling.HandleError(err, "Failed to fetch offer", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"offer": view,
			"rtl":   i18n.IsRTL(tag),
		}),
		gecho.Send(),
	)
}

// Quote handles POST /offer/quote. Nothing is stored.
func (orm *OfferRoutesManager) Quote(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.QuoteRequest](r)
	if err != nil {
		handling.HandleBodyError(err, orm.logger, w)
		return
	}

	summary, err := orm.offerService.Quote(r.Context(), body.ProductIDs, i18n.FromContext(r.Context()))
	if err != nil {
		handling.HandleError(err, "Failed to quote bundle", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"bundle": summary,
		}),
		gecho.Send(),
	)
}
