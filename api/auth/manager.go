package auth

import (
	"storefront_server/api/middleware"
	"storefront_server/services"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger       *gecho.Logger
	authService  *services.AuthService
	emailService *services.EmailService
	cfg          *structs.Config
	mw           *middleware.Middleware
}

func NewAuthRoutesManager(
	logger *gecho.Logger,
	authService *services.AuthService,
	emailService *services.EmailService,
	cfg *structs.Config,
	mw *middleware.Middleware,
) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:       logger,
		authService:  authService,
		emailService: emailService,
		cfg:          cfg,
		mw:           mw,
	}
}

func (ar *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		// CSRF token endpoint (must be called before protected routes)
		r.Get("/csrf", ar.HandleCSRF)
		r.Get("/verify-email", ar.HandleVerifyEmail)

		r.Group(func(r chi.Router) {
			r.Use(ar.mw.CSRFMiddleware())
			r.Post("/register", ar.HandleRegister)
			r.Post("/login", ar.HandleLogin)
			r.Post("/logout", ar.HandleLogout)
			r.Post("/refresh", ar.HandleRefresh)
			r.Post("/resend-verification", ar.HandleResendVerification)
		})

		r.Group(func(r chi.Router) {
			r.Use(ar.mw.UserAuthMiddleware)
			r.Get("/me", ar.HandleMe)
		})
	})
}
