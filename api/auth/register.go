package auth

import (
	"context"
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

func (ar *AuthRoutesManager) HandleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.RegisterRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	user, err := ar.authService.Register(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Registration failed", ar.logger, w)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := ar.emailService.SendVerificationEmail(ctx, user); err != nil {
			ar.logger.Error("Failed to send verification email", gecho.Field("error", err), gecho.Field("user_id", user.Id))
			return
		}
		ar.logger.Debug("Verification email sent", gecho.Field("user_id", user.Id))
	}()

	gecho.Success(w,
		gecho.WithMessage("success.auth.userRegistered"),
		gecho.WithData(user),
		gecho.Send(),
	)
}
