package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/i18n"

	"github.com/MonkyMars/gecho"
)

// ListAllProducts includes inactive products and every translation
func (ar *AdminRoutesManager) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		handling.HandleError(err, "Failed to parse product list options", ar.logger, w)
		return
	}
	opts.IncludeTranslations = true

	result, err := ar.productService.GetAllProducts(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to list products", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(result),
		gecho.WithMessage("success.products.retrieved"),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "product")
	if err != nil {
		handling.HandleError(err, "Invalid product id", ar.logger, w)
		return
	}

	product, err := ar.productService.GetProductByID(r.Context(), id, i18n.FromContext(r.Context()), true, true)
	if err != nil {
		handling.HandleError(err, "Failed to fetch product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"product": product}),
		gecho.Send(),
	)
}
