package auth

import (
	"net/http"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var presented []*structs.AuthClaims
	if claims, err := lib.ExtractClaims(r, ar.authService.GetAccessTokenSecret()); err == nil {
		presented = append(presented, claims)
	}
	if refreshToken, err := lib.GetCookieValue(lib.RefreshCookieName, r); err == nil {
		if claims, err := lib.ParseToken(refreshToken, ar.authService.GetRefreshTokenSecret()); err == nil {
			presented = append(presented, claims)
		}
	}

	ar.authService.Logout(r.Context(), presented...)

	lib.ClearCookie(lib.AccessCookieName, w)
	lib.ClearCookie(lib.RefreshCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("success.auth.loggedOut"),
		gecho.Send(),
	)
}
