package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// GetOffer returns the raw offer with every language's texts
func (ar *AdminRoutesManager) GetOffer(w http.ResponseWriter, r *http.Request) {
	offer, err := ar.offerService.GetOffer(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to load offer", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"offer": offer}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.OfferUpdateRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	offer, err := ar.offerService.UpdateOffer(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Failed to update offer", ar.logger, w)
		return
	}

	ar.logger.Info("Offer updated", gecho.Field("price", offer.Price), gecho.Field("active", offer.IsActive))
	gecho.Success(w,
		gecho.WithMessage("success.offer.updated"),
		gecho.WithData(map[string]any{"offer": offer}),
		gecho.Send(),
	)
}
