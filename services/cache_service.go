package services

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"storefront_server/config"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// Cache key prefixes
const (
	keyBlacklist    = "blacklist:"
	keyUser         = "user:"
	keyBanned       = "banned:"
	keyRateLimit    = "ratelimit:"
	keyProductList  = "products:list:"
	keyProduct      = "product:"
	keyCategories   = "products:categories:"
	keyOffer        = "offer:current"
	cacheMaxRetries = 3
)

// CacheService provides Redis caching functionality with connection pooling and retry logic
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(),
	}
}

// getRedisClient returns a singleton Redis client with proper connection pooling
func getRedisClient() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.GetConfig()
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Address,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,

			PoolSize:        cfg.Cache.PoolSize,
			MinIdleConns:    cfg.Cache.MinIdleConns,
			MaxIdleConns:    cfg.Cache.MaxIdleConns,
			PoolTimeout:     cfg.Cache.PoolTimeout,
			ConnMaxIdleTime: cfg.Cache.IdleTimeout,

			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,

			MaxRetries:      cfg.Cache.MaxRetries,
			MinRetryBackoff: cfg.Cache.MinRetryBackoff,
			MaxRetryBackoff: cfg.Cache.MaxRetryBackoff,
		})
	})
	return redisClient
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}

// withRetry executes a Redis operation with jittered exponential backoff
func (cs *CacheService) withRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= cacheMaxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == cacheMaxRetries || !isRetryableCacheError(err) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cacheBackoff(attempt)):
		}
	}

	return fmt.Errorf("redis operation failed: %w", lastErr)
}

// cacheBackoff returns 100ms * 2^attempt capped at 2s, with the upper half randomized
func cacheBackoff(attempt int) time.Duration {
	backoff := min(100*(1<<attempt), 2000)

	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return time.Duration(backoff) * time.Millisecond
	}
	jitter := int(binary.BigEndian.Uint32(buf[:]) % uint32(backoff/2+1))
	return time.Duration(backoff/2+jitter) * time.Millisecond
}

// isRetryableCacheError determines if a Redis error is worth retrying
func isRetryableCacheError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errStr := err.Error()
	for _, retryable := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	} {
		if strings.Contains(errStr, retryable) {
			return true
		}
	}
	return false
}

// Set sets a key with TTL
func (cs *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, value, ttl).Err()
	})
}

// Get retrieves a key, returning "" without error when it does not exist
func (cs *CacheService) Get(ctx context.Context, key string) (string, error) {
	var result string
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = ""
			return nil
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	})
	return result, err
}

// Delete removes one or more keys
func (cs *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Del(ctx, keys...).Err()
	})
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	return cs.withRetry(ctx, func() error {
		var cursor uint64
		for {
			keys, next, err := cs.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			if len(keys) > 0 {
				if err := cs.client.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
			}
			cursor = next
			if cursor == 0 {
				return nil
			}
		}
	})
}

// Ping tests the Redis connection
func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Ping(ctx).Err()
	})
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()
	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// ============================================================================
// Auth
// ============================================================================

// BlacklistToken stores a token's jti until the token would have expired anyway
func (cs *CacheService) BlacklistToken(ctx context.Context, jti uuid.UUID, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return cs.Set(ctx, keyBlacklist+jti.String(), "true", ttl)
}

func (cs *CacheService) IsTokenBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error) {
	val, err := cs.Get(ctx, keyBlacklist+jti.String())
	if err != nil {
		return false, err
	}
	return val == "true", nil
}

func (cs *CacheService) GetUser(ctx context.Context, userID uuid.UUID) (*tables.User, error) {
	return getJSON[tables.User](ctx, cs, keyUser+userID.String())
}

func (cs *CacheService) SetUser(ctx context.Context, user *tables.User) error {
	if user == nil {
		return nil
	}
	return setJSON(ctx, cs, keyUser+user.Id.String(), user, cs.config.Cache.UserTTL)
}

func (cs *CacheService) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	return cs.Delete(ctx, keyUser+userID.String())
}

// SetBanFlag records the ban state of a user; "1" banned, "0" not banned
func (cs *CacheService) SetBanFlag(ctx context.Context, userID uuid.UUID, banned bool) error {
	val := "0"
	if banned {
		val = "1"
	}
	return cs.Set(ctx, keyBanned+userID.String(), val, cs.config.Cache.UserTTL)
}

// GetBanFlag returns the cached ban state; known is false on a cache miss
func (cs *CacheService) GetBanFlag(ctx context.Context, userID uuid.UUID) (banned, known bool, err error) {
	val, err := cs.Get(ctx, keyBanned+userID.String())
	if err != nil || val == "" {
		return false, false, err
	}
	return val == "1", true, nil
}

// ============================================================================
// Rate limiting
// ============================================================================

// IncrementRateLimit atomically increments the counter of a bucket for a client
// and returns the new count and the time left in the window
func (cs *CacheService) IncrementRateLimit(ctx context.Context, bucket, ip string, window time.Duration) (int, time.Duration, error) {
	key := keyRateLimit + bucket + ":" + ip

	var count int64
	var ttl time.Duration
	err := cs.withRetry(ctx, func() error {
		pipe := cs.client.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttlCmd := pipe.TTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		count = incr.Val()
		ttl = ttlCmd.Val()
		return nil
	})
	return int(count), ttl, err
}

// ============================================================================
// Catalog and offer
// ============================================================================

func (cs *CacheService) GetProductList(ctx context.Context, optionsKey string) (*ProductListResult, error) {
	return getJSON[ProductListResult](ctx, cs, keyProductList+optionsKey)
}

func (cs *CacheService) SetProductList(ctx context.Context, optionsKey string, result *ProductListResult) error {
	return setJSON(ctx, cs, keyProductList+optionsKey, result, cs.config.Cache.ProductListTTL)
}

func (cs *CacheService) GetProduct(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	return getJSON[tables.Product](ctx, cs, keyProduct+id.String())
}

func (cs *CacheService) SetProduct(ctx context.Context, product *tables.Product) error {
	return setJSON(ctx, cs, keyProduct+product.ID.String(), product, cs.config.Cache.ProductTTL)
}

func (cs *CacheService) GetCategories(ctx context.Context, lang string) ([]CategorySummary, error) {
	cats, err := getJSON[[]CategorySummary](ctx, cs, keyCategories+lang)
	if err != nil || cats == nil {
		return nil, err
	}
	return *cats, nil
}

func (cs *CacheService) SetCategories(ctx context.Context, lang string, cats []CategorySummary) error {
	return setJSON(ctx, cs, keyCategories+lang, cats, cs.config.Cache.ProductListTTL)
}

func (cs *CacheService) GetOffer(ctx context.Context) (*tables.Offer, error) {
	return getJSON[tables.Offer](ctx, cs, keyOffer)
}

func (cs *CacheService) SetOffer(ctx context.Context, offer *tables.Offer) error {
	return setJSON(ctx, cs, keyOffer, offer, cs.config.Cache.OfferTTL)
}

// InvalidateCatalog removes every cached product, product list, category summary and the offer
func (cs *CacheService) InvalidateCatalog(ctx context.Context) error {
	for _, pattern := range []string{keyProduct + "*", "products:*"} {
		if err := cs.DeletePattern(ctx, pattern); err != nil {
			cs.logger.Error("Failed to delete cache pattern", gecho.Field("pattern", pattern), gecho.Field("error", err))
			return err
		}
	}
	return cs.Delete(ctx, keyOffer)
}

func setJSON[T any](ctx context.Context, cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(ctx, key, data, ttl)
}

// getJSON returns nil without error on a cache miss
func getJSON[T any](ctx context.Context, cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(ctx, key)
	if err != nil || val == "" {
		return nil, err
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
