package handling

import (
	"encoding/json"
	"errors"
	"net/http"
	"storefront_server/lib"

	"github.com/MonkyMars/gecho"
)

// StatusFor maps a service error to the HTTP status it is reported with
func StatusFor(err error) int {
	var ve *lib.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case lib.IsUniqueViolation(err), errors.Is(err, lib.ErrConflict):
		return http.StatusConflict
	case lib.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, lib.ErrInvalidCredentials),
		errors.Is(err, lib.ErrInvalidToken),
		errors.Is(err, lib.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, lib.ErrForbidden),
		errors.Is(err, lib.ErrUserBanned),
		errors.Is(err, lib.ErrEmailNotVerified),
		errors.Is(err, lib.ErrCannotModerateAdmin):
		return http.StatusForbidden
	case errors.Is(err, lib.ErrInvalidInput),
		errors.Is(err, lib.ErrInvalidBundle),
		errors.Is(err, lib.ErrOfferInactive),
		errors.Is(err, lib.ErrProductUnavailable),
		errors.Is(err, lib.ErrListingUnavailable),
		errors.Is(err, lib.ErrCannotContactOwn),
		errors.Is(err, lib.ErrUnsupportedImage),
		errors.Is(err, lib.ErrImageTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, lib.ErrMessagingNotSetUp):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// HandleError writes the error response for err. Server errors are logged with msg,
// client errors only at debug level.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	status := StatusFor(err)
	message := lib.GetUserMessage(err)

	if status >= http.StatusInternalServerError {
		logger.Error(msg, gecho.Field("error", lib.GetDetailForLogging(err)), gecho.WithCallerSkip(3))
	} else {
		logger.Debug(msg, gecho.Field("error", err), gecho.Field("status", status))
	}

	respond := gecho.InternalServerError
	switch status {
	case http.StatusBadRequest:
		respond = gecho.BadRequest
	case http.StatusUnauthorized:
		respond = gecho.Unauthorized
	case http.StatusForbidden:
		respond = gecho.Forbidden
	case http.StatusNotFound:
		respond = gecho.NotFound
	case http.StatusConflict:
		respond = gecho.Conflict
	case http.StatusServiceUnavailable:
		respond = gecho.ServiceUnavailable
	}

	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		respond(w, gecho.WithMessage(message), gecho.WithData(ve.Errors), gecho.Send())
		return
	}
	if reason := lib.ReasonOf(err); reason != "" {
		respond(w, gecho.WithMessage(message), gecho.WithData(map[string]string{"reason": reason}), gecho.Send())
		return
	}
	respond(w, gecho.WithMessage(message), gecho.Send())
}

// HandleBodyError reports a request body that could not be decoded or failed validation
func HandleBodyError(err error, logger *gecho.Logger, w http.ResponseWriter) {
	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		logger.Debug("Request body failed validation", gecho.Field("errors", ve.Errors))
		gecho.BadRequest(w,
			gecho.WithMessage("error.validation"),
			gecho.WithData(ve.Errors),
			gecho.Send(),
		)
		return
	}

	logger.Debug("Malformed request body", gecho.Field("error", err))
	message := "error.invalidRequest"
	var maxErr *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &maxErr):
		message = "error.requestTooLarge"
	case errors.As(err, &syntaxErr):
		message = "error.invalidJSON"
	}
	gecho.BadRequest(w, gecho.WithMessage(message), gecho.Send())
}
