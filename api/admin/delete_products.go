package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// DeleteProducts deactivates the given products, or removes them when ?hard=true
func (ar *AdminRoutesManager) DeleteProducts(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.DeleteProductsRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	ids := make([]uuid.UUID, 0, len(body.IDs))
	for _, raw := range body.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			handling.HandleError(lib.Detail(lib.ErrInvalidInput, "invalid product id"), "Invalid product id", ar.logger, w)
			return
		}
		ids = append(ids, id)
	}

	hard := r.URL.Query().Get("hard") == "true"
	total, err := ar.productService.DeleteProducts(r.Context(), ids, hard)
	if err != nil {
		handling.HandleError(err, "Failed to delete products", ar.logger, w)
		return
	}
	if total == 0 {
		gecho.NotFound(w, gecho.WithMessage("error.products.notFound"), gecho.Send())
		return
	}

	ar.logger.Info("Products deleted", gecho.Field("count", total), gecho.Field("hard", hard))
	gecho.Success(w,
		gecho.WithMessage("success.products.deleted"),
		gecho.WithData(map[string]any{"deleted_count": total, "hard": hard}),
		gecho.Send(),
	)
}
