package products

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/i18n"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// FetchAllProducts handles GET /products with filtering, pagination, and sorting
func (p *ProductRoutesManager) FetchAllProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		handling.HandleError(err, "Invalid product query parameters", p.logger, w)
		return
	}

	p.logger.Debug("Fetching products",
		gecho.Field("page", opts.Page),
		gecho.Field("page_size", opts.PageSize),
		gecho.Field("lang", i18n.Lang(opts.Lang)),
	)

	result, err := p.productService.GetCatalog(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch products", p.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   result.Products,
			"pagination": result.Pagination,
			"filters":    result.Filters,
			"meta": map[string]any{
				"query_time_ms": result.QueryTime.Milliseconds(),
				"count":         len(result.Products),
				"rtl":           i18n.IsRTL(opts.Lang),
			},
		}),
		gecho.Send(),
	)
}

// FetchProductByID handles GET /products/{id}
func (p *ProductRoutesManager) FetchProductByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		p.logger.Debug("Invalid product ID format", gecho.Field("id", idStr))
		gecho.BadRequest(w,
			gecho.WithMessage("error.products.invalidProductId"),
			gecho.Send(),
		)
		return
	}

	includeTranslations := r.URL.Query().Get("include_translations") == "true"

	product, err := p.productService.GetProductByID(r.Context(), id, i18n.FromContext(r.Context()), false, includeTranslations)
	if err != nil {
		handling.HandleError(err, "Failed to fetch product by ID", p.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"product": product,
		}),
		gecho.Send(),
	)
}

// FetchCategories handles GET /categories
func (p *ProductRoutesManager) FetchCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := p.productService.GetCategories(r.Context(), i18n.FromContext(r.Context()))
	if err != nil {
		handling.HandleError(err, "Failed to fetch categories", p.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"categories": categories,
		}),
		gecho.Send(),
	)
}
