package orders

import (
	"storefront_server/api/middleware"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger       *gecho.Logger
	orderService *services.OrderService
	mw           *middleware.Middleware
}

func NewOrderRoutesManager(logger *gecho.Logger, orderService *services.OrderService, mw *middleware.Middleware) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:       logger,
		orderService: orderService,
		mw:           mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		// Guests can order; a session links the order to the account
		r.Group(func(r chi.Router) {
			r.Use(orm.mw.CSRFMiddleware())
			r.Use(orm.mw.OptionalAuthMiddleware)
			r.Post("/", orm.CreateOrder)
			r.Post("/bundle", orm.CreateBundleOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(orm.mw.UserAuthMiddleware)
			r.Get("/me", orm.GetMyOrders)
		})

		r.Get("/{number}", orm.GetOrderByNumber)
	})
}
