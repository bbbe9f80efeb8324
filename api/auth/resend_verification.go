package auth

import (
	"net/http"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// HandleResendVerification handles requests to resend verification emails.
// The response never reveals whether the address belongs to an account.
func (ar *AuthRoutesManager) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ResendVerificationRequest](r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("error.invalidRequest"), gecho.Send())
		return
	}

	user, err := ar.authService.GetUserByEmail(r.Context(), body.Email)
	if err != nil {
		ar.logger.Error("Failed to find user", gecho.Field("error", err))
		gecho.Success(w, gecho.WithMessage("success.auth.verificationEmailSent"), gecho.Send())
		return
	}
	if user == nil || user.EmailVerified {
		gecho.Success(w, gecho.WithMessage("success.auth.verificationEmailSent"), gecho.Send())
		return
	}

	retryAfter, err := ar.emailService.ResendVerificationEmail(r.Context(), user)
	if err != nil {
		ar.logger.Error("Failed to resend verification email", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		gecho.InternalServerError(w, gecho.WithMessage("error.failedToSendEmail"), gecho.Send())
		return
	}
	if retryAfter > 0 {
		gecho.TooManyRequests(w,
			gecho.WithMessage("error.rateLimitExceeded"),
			gecho.WithData(map[string]any{
				"retry_after_seconds": int(retryAfter.Seconds()) + 1,
			}),
			gecho.Send())
		return
	}

	ar.logger.Info("Verification email resent", gecho.Field("user_id", user.Id))
	gecho.Success(w, gecho.WithMessage("success.auth.verificationEmailSent"), gecho.Send())
}
