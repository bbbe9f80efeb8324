package auth

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/handling"

	"github.com/MonkyMars/gecho"
)

// HandleMe returns the logged-in user
func (ar *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	user, err := ar.authService.GetUserByID(r.Context(), claims.Sub)
	if err != nil {
		handling.HandleError(err, "Failed to load current user", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(user),
		gecho.Send(),
	)
}
