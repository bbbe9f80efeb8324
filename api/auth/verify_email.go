package auth

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MonkyMars/gecho"
)

// HandleVerifyEmail handles email verification requests and redirects to the frontend.
func (ar *AuthRoutesManager) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		gecho.BadRequest(w, gecho.WithMessage("error.auth.missingToken"), gecho.Send())
		return
	}

	if err := ar.authService.VerifyEmail(r.Context(), token); err != nil {
		ar.logger.Warn("Email verification failed", gecho.Field("error", err))
		http.Redirect(w, r, getRedirectURL(ar.cfg.Server.FrontendURL, "err"), http.StatusSeeOther)
		return
	}

	// Redirect to frontend with success (user needs to log in manually)
	http.Redirect(w, r, getRedirectURL(ar.cfg.Server.FrontendURL, "ok"), http.StatusSeeOther)
}

func getRedirectURL(cfgURL, status string) string {
	return fmt.Sprintf("%s/email-verified?status=%s", strings.TrimRight(cfgURL, "/"), url.QueryEscape(status))
}
