package admin

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListUsers(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseUserListOptions(r)
	if err != nil {
		handling.HandleError(err, "Invalid user query parameters", ar.logger, w)
		return
	}

	result, err := ar.userService.ListUsers(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to list users", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"users":      result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

// BanUser blocks a user from logging in and revokes their cached session state
func (ar *AdminRoutesManager) BanUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		handling.HandleError(err, "Invalid user id", ar.logger, w)
		return
	}

	body := &structs.BanRequest{}
	if r.ContentLength != 0 {
		body, err = lib.ExtractAndValidateBody[structs.BanRequest](r)
		if err != nil {
			handling.HandleBodyError(err, ar.logger, w)
			return
		}
	}

	claims, _ := middleware.GetClaimsFromContext(r.Context())
	user, err := ar.userService.BanUser(r.Context(), claims.Sub, id, body.Reason)
	if err != nil {
		handling.HandleError(err, "Failed to ban user", ar.logger, w)
		return
	}

	ar.logger.Info("User banned", gecho.Field("user_id", id), gecho.Field("by", claims.Sub))
	gecho.Success(w,
		gecho.WithMessage("success.users.banned"),
		gecho.WithData(user),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UnbanUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		handling.HandleError(err, "Invalid user id", ar.logger, w)
		return
	}

	user, err := ar.userService.UnbanUser(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to unban user", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.users.unbanned"),
		gecho.WithData(user),
		gecho.Send(),
	)
}
