package orders

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// GetMyOrders returns all orders for the authenticated user
func (orm *OrderRoutesManager) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	orders, err := orm.orderService.GetOrdersByUserID(r.Context(), claims.Sub)
	if err != nil {
		handling.HandleError(err, "Failed to fetch user orders", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.ordersFetched"),
		gecho.WithData(map[string]any{
			"orders": orders,
			"count":  len(orders),
		}),
		gecho.Send(),
	)
}

// GetOrderByNumber backs the hand-off page; the response carries no customer data
func (orm *OrderRoutesManager) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	order, err := orm.orderService.GetOrderByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		handling.HandleError(err, "Failed to look up order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"order": order,
		}),
		gecho.Send(),
	)
}
