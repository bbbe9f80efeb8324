package marketplace

import (
	"storefront_server/api/middleware"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type MarketplaceRoutesManager struct {
	logger         *gecho.Logger
	listingService *services.ListingService
	mw             *middleware.Middleware
}

func NewMarketplaceRoutesManager(logger *gecho.Logger, listingService *services.ListingService, mw *middleware.Middleware) *MarketplaceRoutesManager {
	return &MarketplaceRoutesManager{
		logger:         logger,
		listingService: listingService,
		mw:             mw,
	}
}

func (mrm *MarketplaceRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/marketplace", func(r chi.Router) {
		r.Get("/listings", mrm.ListListings)

		// Anonymous buyers are fine; a session lets sellers see their own hidden listings
		r.Group(func(r chi.Router) {
			r.Use(mrm.mw.OptionalAuthMiddleware)
			r.Get("/listings/{id}", mrm.GetListing)
			r.Post("/listings/{id}/contact", mrm.ContactSeller)
		})

		r.Group(func(r chi.Router) {
			r.Use(mrm.mw.UserAuthMiddleware)
			r.Use(mrm.mw.CSRFMiddleware())
			r.Get("/me", mrm.MyListings)
			r.Post("/listings", mrm.CreateListing)
			r.Put("/listings/{id}", mrm.UpdateListing)
			r.Delete("/listings/{id}", mrm.DeleteListing)
		})
	})
}
