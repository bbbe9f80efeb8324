package admin

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/lib"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AdminRoutesManager struct {
	logger         *gecho.Logger
	productService *services.ProductService
	orderService   *services.OrderService
	offerService   *services.OfferService
	userService    *services.UserService
	listingService *services.ListingService
	cacheService   *services.CacheService
	mw             *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	sm *services.ServiceManager,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:         logger,
		productService: sm.ProductService,
		orderService:   sm.OrderService,
		offerService:   sm.OfferService,
		userService:    sm.UserService,
		listingService: sm.ListingService,
		cacheService:   sm.CacheService,
		mw:             mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.UserAuthMiddleware)
		r.Use(ar.mw.AdminAuthMiddleware)

		r.Get("/products", ar.ListAllProducts)
		r.Get("/products/{id}", ar.GetProduct)
		r.Get("/users", ar.ListUsers)
		r.Get("/offer", ar.GetOffer)
		r.Get("/orders", ar.ListOrders)
		r.Get("/orders/{id}", ar.GetOrderDetails)
		r.Get("/listings", ar.ListListings)

		// Protected routes behind CSRF
		r.Group(func(r chi.Router) {
			r.Use(ar.mw.CSRFMiddleware())
			r.Post("/products", ar.CreateProduct)
			r.Put("/products/{id}", ar.UpdateProduct)
			r.Delete("/products", ar.DeleteProducts)

			r.Post("/users/{id}/ban", ar.BanUser)
			r.Post("/users/{id}/unban", ar.UnbanUser)

			r.Put("/offer", ar.UpdateOffer)

			r.Put("/orders/{id}/status", ar.UpdateOrderStatus)

			r.Put("/listings/{id}/status", ar.UpdateListingStatus)

			r.Delete("/cache", ar.PurgeCache)
		})
	})
}

// pathID reads the {id} URL parameter
func pathID(r *http.Request, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, lib.Detail(lib.ErrInvalidInput, "invalid "+what+" id")
	}
	return id, nil
}
