package offer

import (
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OfferRoutesManager struct {
	logger       *gecho.Logger
	offerService *services.OfferService
}

func NewOfferRoutesManager(logger *gecho.Logger, offerService *services.OfferService) *OfferRoutesManager {
	return &OfferRoutesManager{
		logger:       logger,
		offerService: offerService,
	}
}

func (orm *OfferRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/offer", func(r chi.Router) {
		r.Get("/", orm.GetOffer)
		r.Post("/quote", orm.Quote)
	})
}
