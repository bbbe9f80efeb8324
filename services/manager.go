package services

import (
	"storefront_server/database"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService      *AuthService
	EmailService     *EmailService
	CacheService     *CacheService
	HealthService    *HealthService
	ProductService   *ProductService
	OfferService     *OfferService
	OrderService     *OrderService
	MessagingService *MessagingService
	StorageService   *StorageService
	ListingService   *ListingService
	UserService      *UserService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	cacheService := NewCacheService(logger, cfg)
	authService := NewAuthService(cfg, logger, db, cacheService)
	emailService := NewEmailService(logger, cfg, db)
	healthService := NewHealthService(logger, db, cacheService)
	messagingService := NewMessagingService(logger, cfg)
	storageService := NewStorageService(logger, cfg)
	productService := NewProductService(logger, db, cacheService)
	offerService := NewOfferService(logger, cfg, db, cacheService, productService, messagingService)
	orderService := NewOrderService(logger, cfg, db, productService, offerService, messagingService, emailService)
	listingService := NewListingService(logger, cfg, db, storageService, messagingService)
	userService := NewUserService(logger, db, cacheService)

	return &ServiceManager{
		AuthService:      authService,
		EmailService:     emailService,
		CacheService:     cacheService,
		HealthService:    healthService,
		ProductService:   productService,
		OfferService:     offerService,
		OrderService:     orderService,
		MessagingService: messagingService,
		StorageService:   storageService,
		ListingService:   listingService,
		UserService:      userService,
	}
}
