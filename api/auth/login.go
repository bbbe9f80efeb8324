package auth

import (
	"context"
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
)

// setSessionCookies writes both tokens as HttpOnly cookies
func (ar *AuthRoutesManager) setSessionCookies(w http.ResponseWriter, tokens *tables.AuthResponse) {
	lib.SetCookie(lib.RefreshCookieName, tokens.RefreshToken, ar.authService.GetRefreshTokenExpiration(), w)
	lib.SetCookie(lib.AccessCookieName, tokens.AccessToken, ar.authService.GetAccessTokenExpiration(), w)
}

func (ar *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	user, err := ar.authService.Login(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Login failed", ar.logger, w)
		return
	}

	tokens, err := ar.authService.IssueTokens(user)
	if err != nil {
		handling.HandleError(err, "Failed to issue tokens", ar.logger, w)
		return
	}
	ar.setSessionCookies(w, tokens)

	// Send last login to db asynchronously
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ar.authService.UpdateLastLogin(ctx, user.Id); err != nil {
			ar.logger.Error("Failed to update last login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		}
	}()

	gecho.Success(w,
		gecho.WithMessage("success.auth.loggedIn"),
		gecho.WithData(user),
		gecho.Send(),
	)
}

// HandleRefresh rotates the session using the refresh token cookie
func (ar *AuthRoutesManager) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := lib.GetCookieValue(lib.RefreshCookieName, r)
	if err != nil {
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
		return
	}

	tokens, err := ar.authService.RefreshAccessToken(r.Context(), refreshToken)
	if err != nil {
		lib.ClearCookie(lib.AccessCookieName, w)
		lib.ClearCookie(lib.RefreshCookieName, w)
		handling.HandleError(err, "Token refresh failed", ar.logger, w)
		return
	}
	ar.setSessionCookies(w, tokens)

	gecho.Success(w,
		gecho.WithMessage("success.auth.refreshed"),
		gecho.WithData(tokens.User),
		gecho.Send(),
	)
}
