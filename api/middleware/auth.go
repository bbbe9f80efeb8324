package middleware

import (
	"context"
	"errors"
	"net/http"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// Context keys for storing user data in request context
type contextKey string

const (
	ClaimsContextKey contextKey = "claims"
)

// authenticate validates the access token cookie, its revocation and the user's ban status
func (mw *Middleware) authenticate(r *http.Request) (*structs.AuthClaims, error) {
	claims, err := lib.ExtractClaims(r, mw.auth.GetAccessTokenSecret())
	if err != nil {
		return nil, lib.ErrInvalidToken
	}
	if mw.auth.IsTokenRevoked(r.Context(), claims.Jti) {
		return nil, lib.ErrInvalidToken
	}
	banned, err := mw.auth.IsUserBanned(r.Context(), claims.Sub)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, lib.ErrUserBanned
	}
	return claims, nil
}

// UserAuthMiddleware protects routes to only logged-in users that are not banned
func (mw *Middleware) UserAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := mw.authenticate(r)
		switch {
		case err == nil:
		case lib.IsNotFound(err):
			// user was deleted after the token was issued
			gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
			return
		case errors.Is(err, lib.ErrInvalidToken):
			mw.logger.Debug("Rejected access token", gecho.Field("path", r.URL.Path))
			gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
			return
		case errors.Is(err, lib.ErrUserBanned):
			mw.logger.Warn("Banned user attempted access", gecho.Field("path", r.URL.Path))
			gecho.Forbidden(w, gecho.WithMessage("error.auth.banned"), gecho.Send())
			return
		default:
			mw.logger.Error("Failed to authenticate request", gecho.Field("error", err))
			gecho.InternalServerError(w, gecho.WithMessage("error.internal"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthMiddleware attaches the claims of a valid session but lets anonymous requests through
func (mw *Middleware) OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(lib.AccessCookieName); err != nil {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := mw.authenticate(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminAuthMiddleware protects routes to only admin users
// Must be used after UserAuthMiddleware
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaimsFromContext(r.Context())
		if !ok {
			gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
			return
		}

		if claims.Role != structs.RoleAdmin {
			mw.logger.Warn("Non-admin user attempted to access admin route", gecho.Field("user_id", claims.Sub), gecho.Field("role", claims.Role))
			gecho.Forbidden(w, gecho.WithMessage("error.forbidden"), gecho.Send())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user id, or nil for anonymous requests
func UserIDFromContext(ctx context.Context) *uuid.UUID {
	claims, ok := GetClaimsFromContext(ctx)
	if !ok {
		return nil
	}
	id := claims.Sub
	return &id
}

// IsAdmin reports whether the request was made by an admin
func IsAdmin(ctx context.Context) bool {
	claims, ok := GetClaimsFromContext(ctx)
	return ok && claims.Role == structs.RoleAdmin
}
