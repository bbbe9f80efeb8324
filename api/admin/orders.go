package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// ListOrders returns a paginated list of orders with optional status filter
func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		handling.HandleError(err, "Invalid pagination", ar.logger, w)
		return
	}
	status, err := handling.ParseOrderStatus(r)
	if err != nil {
		handling.HandleError(err, "Invalid order status filter", ar.logger, w)
		return
	}

	result, err := ar.orderService.ListOrders(r.Context(), status, page, pageSize)
	if err != nil {
		handling.HandleError(err, "Failed to get orders", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.ordersFetched"),
		gecho.WithData(map[string]any{
			"orders":     result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

// GetOrderDetails returns one order with its lines and decrypted customer data
func (ar *AdminRoutesManager) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "order")
	if err != nil {
		handling.HandleError(err, "Invalid order id", ar.logger, w)
		return
	}

	order, err := ar.orderService.GetOrderByID(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to get order", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.orderDetailsFetched"),
		gecho.WithData(map[string]any{"order": order}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "order")
	if err != nil {
		handling.HandleError(err, "Invalid order id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.OrderStatusRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	order, err := ar.orderService.UpdateOrderStatus(r.Context(), id, tables.OrderStatus(body.Status))
	if err != nil {
		handling.HandleError(err, "Failed to update order status", ar.logger, w)
		return
	}

	ar.logger.Info("Order status updated", gecho.Field("order_id", id), gecho.Field("status", body.Status))
	gecho.Success(w,
		gecho.WithMessage("success.order.statusUpdated"),
		gecho.WithData(map[string]any{"order": order}),
		gecho.Send(),
	)
}
