package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	ar.logger.Debug("CreateProduct request received",
		gecho.Field("category", body.Category),
		gecho.Field("translations", len(body.Translations)),
	)

	newProduct, err := ar.productService.CreateProduct(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Failed to create product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(newProduct),
		gecho.WithMessage("success.products.created"),
		gecho.Send(),
	)
}
