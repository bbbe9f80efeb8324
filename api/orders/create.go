package orders

import (
	"net/http"
	"storefront_server/api/health"
	"storefront_server/api/middleware"
	"storefront_server/handling"
	"storefront_server/i18n"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

func orderCreated(w http.ResponseWriter, order *tables.Order) {
	health.OrdersCreated.WithLabelValues(string(order.Kind), order.Lang).Inc()

	gecho.Success(w,
		gecho.WithMessage("success.order.created"),
		gecho.WithData(map[string]any{
			"order_number":   order.OrderNumber,
			"order_id":       order.Id,
			"status":         order.Status,
			"total":          order.Total,
			"currency":       order.Currency,
			"lines":          order.Lines,
			"messaging_link": order.MessagingLink,
		}),
		gecho.Send(),
	)
}

// CreateBundleOrder handles POST /orders/bundle
func (orm *OrderRoutesManager) CreateBundleOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.BundleOrderRequest](r)
	if err != nil {
		handling.HandleBodyError(err, orm.logger, w)
		return
	}

	userId := middleware.UserIDFromContext(r.Context())
	order, err := orm.orderService.CreateBundleOrder(r.Context(), body, userId, i18n.FromContext(r.Context()))
	if err != nil {
		handling.HandleError(err, "Failed to create bundle order", orm.logger, w)
		return
	}

	orm.logger.Info("Bundle order created", gecho.Field("order_number", order.OrderNumber))
	orderCreated(w, order)
}

// CreateOrder handles POST /orders for a single catalog product
func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.OrderRequest](r)
	if err != nil {
		handling.HandleBodyError(err, orm.logger, w)
		return
	}

	userId := middleware.UserIDFromContext(r.Context())
	order, err := orm.orderService.CreateSingleOrder(r.Context(), body, userId, i18n.FromContext(r.Context()))
	if err != nil {
		handling.HandleError(err, "Failed to create order", orm.logger, w)
		return
	}

	orm.logger.Info("Order created", gecho.Field("order_number", order.OrderNumber))
	orderCreated(w, order)
}
