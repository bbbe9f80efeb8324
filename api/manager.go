package api

import (
	"storefront_server/api/admin"
	"storefront_server/api/auth"
	"storefront_server/api/health"
	"storefront_server/api/marketplace"
	"storefront_server/api/middleware"
	"storefront_server/api/offer"
	"storefront_server/api/orders"
	"storefront_server/api/products"
	"storefront_server/services"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type routerManager struct {
	routes []routeRegistrar
}

func NewRouterManager(logger *gecho.Logger, cfg *structs.Config, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		routes: []routeRegistrar{
			products.NewProductRoutesManager(logger, sm.ProductService),
			offer.NewOfferRoutesManager(logger, sm.OfferService),
			orders.NewOrderRoutesManager(logger, sm.OrderService, mw),
			marketplace.NewMarketplaceRoutesManager(logger, sm.ListingService, mw),
			health.NewHealthRoutesManager(sm.HealthService),
			auth.NewAuthRoutesManager(logger, sm.AuthService, sm.EmailService, cfg, mw),
			admin.NewAdminRoutesManager(logger, sm, mw),
		},
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	for _, routes := range rm.routes {
		routes.RegisterRoutes(r)
	}
}
