package middleware

import (
	"context"
	"storefront_server/services"
	"storefront_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// tokenGuard is the part of the auth service the auth middleware depends on
type tokenGuard interface {
	GetAccessTokenSecret() string
	IsTokenRevoked(ctx context.Context, jti uuid.UUID) bool
	IsUserBanned(ctx context.Context, userId uuid.UUID) (bool, error)
}

type rateCounter interface {
	IncrementRateLimit(ctx context.Context, bucket, ip string, window time.Duration) (int, time.Duration, error)
}

type Middleware struct {
	cfg     *structs.Config
	logger  *gecho.Logger
	auth    tokenGuard
	limiter rateCounter
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, authService *services.AuthService, cacheService *services.CacheService) *Middleware {
	return &Middleware{
		cfg:     cfg,
		logger:  logger,
		auth:    authService,
		limiter: cacheService,
	}
}
