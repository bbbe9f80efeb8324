package structs

import "time"

type Config struct {
	Server     *ServerConfig
	Cors       *CorsConfig
	Database   *DatabaseConfig
	Auth       *AuthConfig
	Cache      *CacheConfig
	RateLimit  *RateLimitConfig
	Email      *EmailConfig
	Encryption *EncryptionConfig
	Offer      *OfferConfig
	Messaging  *MessagingConfig
	Storage    *StorageConfig
	I18n       *I18nConfig
	Worker     *WorkerConfig
}

type ServerConfig struct {
	AppName        string        // Storefront
	Environment    string        // development, production
	Port           string        // :8082
	FrontendURL    string        // used for email verification redirects
	CookieDomain   string        // only applied in production
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Driver       string // pgx or pgdriver
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SlowQuery    time.Duration
}

type AuthConfig struct {
	AccessTokenSecret    string
	AccessTokenExpiry    time.Duration
	RefreshTokenSecret   string
	RefreshTokenExpiry   time.Duration
	RequireVerifiedEmail bool
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	ProductListTTL  time.Duration
	ProductTTL      time.Duration
	UserTTL         time.Duration
	OfferTTL        time.Duration
}

type RateLimitConfig struct {
	Enabled         bool
	GeneralLimit    int
	GeneralWindow   time.Duration
	AuthLimit       int
	AuthWindow      time.Duration
	AdminLimit      int
	AdminWindow     time.Duration
	ExpensiveLimit  int
	ExpensiveWindow time.Duration
	ContactLimit    int
	ContactWindow   time.Duration
}

type EmailConfig struct {
	ApiKey                  string
	From                    string
	OperatorInbox           string // order notifications, empty disables them
	VerificationTokenExpiry time.Duration
}

type EncryptionConfig struct {
	Key string // 32 bytes, AES-256
}

// OfferConfig seeds the bundle offer row when none exists yet
type OfferConfig struct {
	Title             string
	Description       string
	Price             uint64 // in cents
	Currency          string
	AllowedCategories []string
}

type MessagingConfig struct {
	Provider       string // whatsapp or telegram
	StorePhone     string // receives bundle and catalog orders
	MediatorPhone  string // receives mediator requests for marketplace listings
	TelegramHandle string
}

type StorageConfig struct {
	UploadDir        string
	PublicPrefix     string // URL prefix the upload dir is served under
	MaxImageBytes    int64
	MaxImagesPerItem int
}

type I18nConfig struct {
	DefaultLanguage    string
	SupportedLanguages []string
}

type WorkerConfig struct {
	Enabled         bool
	Interval        time.Duration
	PendingOrderTTL time.Duration
}
