package config

import (
	"storefront_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load builds a fresh config from the environment without touching the shared instance
func Load() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:        getEnvAsString("APP_NAME", "Storefront_no_env"),
			Environment:    getEnvAsString("APP_ENV", "development"),
			Port:           getEnvAsString("APP_PORT", ":8082"),
			FrontendURL:    getEnvAsString("FRONTEND_URL", "http://localhost:3000"),
			CookieDomain:   getEnvAsString("COOKIE_DOMAIN", ""),
			ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
			IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
		},
		Cors: &structs.CorsConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token", "Accept-Language"}),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 600),
		},
		Database: &structs.DatabaseConfig{
			Driver:       getEnvAsString("DB_DRIVER", "pgx"),
			Host:         getEnvAsString("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnvAsString("DB_USER", "postgres"),
			Password:     getEnvAsString("DB_PASSWORD", "password"),
			Name:         getEnvAsString("DB_NAME", "storefront_db"),
			SSLMode:      getEnvAsString("DB_SSL_MODE", "disable"),
			MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
			SlowQuery:    getEnvAsTimeDuration("DB_SLOW_QUERY", time.Second),
		},
		Auth: &structs.AuthConfig{
			AccessTokenSecret:    getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", "default_access_secret"),
			AccessTokenExpiry:    getEnvAsTimeDuration("AUTH_ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			RefreshTokenSecret:   getEnvAsString("AUTH_REFRESH_TOKEN_SECRET", "default_refresh_secret"),
			RefreshTokenExpiry:   getEnvAsTimeDuration("AUTH_REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
			RequireVerifiedEmail: getEnvAsBool("AUTH_REQUIRE_VERIFIED_EMAIL", false),
		},
		Cache: &structs.CacheConfig{
			Address:         getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
			Username:        getEnvAsString("REDIS_USERNAME", ""),
			Password:        getEnvAsString("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
			PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
			DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			ProductListTTL:  getEnvAsTimeDuration("CACHE_PRODUCT_LIST_TTL", 5*time.Minute),
			ProductTTL:      getEnvAsTimeDuration("CACHE_PRODUCT_TTL", 10*time.Minute),
			UserTTL:         getEnvAsTimeDuration("CACHE_USER_TTL", 15*time.Minute),
			OfferTTL:        getEnvAsTimeDuration("CACHE_OFFER_TTL", 10*time.Minute),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled:         getEnvAsBool("RATE_LIMIT_ENABLED", true),
			GeneralLimit:    getEnvAsInt("RATE_LIMIT_GENERAL", 120),
			GeneralWindow:   getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
			AuthLimit:       getEnvAsInt("RATE_LIMIT_AUTH", 10),
			AuthWindow:      getEnvAsTimeDuration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
			AdminLimit:      getEnvAsInt("RATE_LIMIT_ADMIN", 300),
			AdminWindow:     getEnvAsTimeDuration("RATE_LIMIT_ADMIN_WINDOW", time.Minute),
			ExpensiveLimit:  getEnvAsInt("RATE_LIMIT_EXPENSIVE", 60),
			ExpensiveWindow: getEnvAsTimeDuration("RATE_LIMIT_EXPENSIVE_WINDOW", time.Minute),
			ContactLimit:    getEnvAsInt("RATE_LIMIT_CONTACT", 5),
			ContactWindow:   getEnvAsTimeDuration("RATE_LIMIT_CONTACT_WINDOW", 10*time.Minute),
		},
		Email: &structs.EmailConfig{
			ApiKey:                  getEnvAsString("RESEND_API_KEY", ""),
			From:                    getEnvAsString("EMAIL_FROM", "Storefront <no-reply@example.com>"),
			OperatorInbox:           getEnvAsString("EMAIL_OPERATOR_INBOX", ""),
			VerificationTokenExpiry: getEnvAsTimeDuration("EMAIL_VERIFICATION_EXPIRY", 24*time.Hour),
		},
		Encryption: &structs.EncryptionConfig{
			Key: getEnvAsString("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef"),
		},
		Offer: &structs.OfferConfig{
			Title:             getEnvAsString("OFFER_TITLE", "Pick any 3"),
			Description:       getEnvAsString("OFFER_DESCRIPTION", "Choose three products for one fixed price"),
			Price:             uint64(getEnvAsInt("OFFER_PRICE", 2500)),
			Currency:          getEnvAsString("OFFER_CURRENCY", "USD"),
			AllowedCategories: getEnvAsSlice("OFFER_ALLOWED_CATEGORIES", []string{"games", "entertainment", "misc"}),
		},
		Messaging: &structs.MessagingConfig{
			Provider:       getEnvAsString("MESSAGING_PROVIDER", "whatsapp"),
			StorePhone:     getEnvAsString("MESSAGING_STORE_PHONE", ""),
			MediatorPhone:  getEnvAsString("MESSAGING_MEDIATOR_PHONE", ""),
			TelegramHandle: getEnvAsString("MESSAGING_TELEGRAM_HANDLE", ""),
		},
		Storage: &structs.StorageConfig{
			UploadDir:        getEnvAsString("STORAGE_UPLOAD_DIR", "./uploads"),
			PublicPrefix:     getEnvAsString("STORAGE_PUBLIC_PREFIX", "/uploads"),
			MaxImageBytes:    int64(getEnvAsInt("STORAGE_MAX_IMAGE_BYTES", 5<<20)), // 5 MB
			MaxImagesPerItem: getEnvAsInt("STORAGE_MAX_IMAGES", 6),
		},
		I18n: &structs.I18nConfig{
			DefaultLanguage:    getEnvAsString("I18N_DEFAULT_LANGUAGE", "en"),
			SupportedLanguages: getEnvAsSlice("I18N_SUPPORTED_LANGUAGES", []string{"en", "ar"}),
		},
		Worker: &structs.WorkerConfig{
			Enabled:         getEnvAsBool("WORKER_ENABLED", true),
			Interval:        getEnvAsTimeDuration("WORKER_INTERVAL", 10*time.Minute),
			PendingOrderTTL: getEnvAsTimeDuration("WORKER_PENDING_MAX_AGE", 72*time.Hour),
		},
	}
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
