package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// UpdateProduct replaces a product's fields and translations
func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "product")
	if err != nil {
		handling.HandleError(err, "Invalid product id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	product, err := ar.productService.UpdateProduct(r.Context(), id, body)
	if err != nil {
		handling.HandleError(err, "Failed to update product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.WithMessage("success.products.updated"),
		gecho.Send(),
	)
}
