package api

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/config"
	"storefront_server/services"
	"storefront_server/structs"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// requestOverhead leaves room for multipart framing and text fields around the images
const requestOverhead = 1 << 20

func App(cfg *structs.Config, logger *gecho.Logger, sm *services.ServiceManager) chi.Router {
	r := chi.NewRouter()

	// the request logger does not need caller info
	mwLogger := config.NewLogger(false)

	// Initialize middleware
	mw := middleware.NewMiddleware(cfg, mwLogger, sm.AuthService, sm.CacheService)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	maxBody := int64(cfg.Storage.MaxImagesPerItem)*cfg.Storage.MaxImageBytes + requestOverhead
	r.Use(mw.BodyLimit(maxBody))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.SetupLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before auth / csrf)
	r.Use(mw.SetupCORS().Handler)

	r.Use(mw.RateLimitMiddleware())
	r.Use(mw.LanguageMiddleware)

	// Register all routes
	NewRouterManager(logger, cfg, sm, mw).RegisterRoutes(r)

	// Listing images
	prefix := "/" + strings.Trim(cfg.Storage.PublicPrefix, "/")
	uploads := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.Storage.UploadDir)))
	r.Get(prefix+"/*", func(w http.ResponseWriter, r *http.Request) {
		// no directory listings
		if strings.HasSuffix(r.URL.Path, "/") {
			gecho.NotFound(w, gecho.Send())
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		uploads.ServeHTTP(w, r)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the "+cfg.Server.AppName+" API"),
			gecho.Send(),
		)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.WithMessage("error.notFound"),
			gecho.Send(),
		)
	})

	return r
}
