package lib

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrUserBanned         = errors.New("user is banned")
	ErrEmailNotVerified   = errors.New("email not verified")
)

// Domain errors
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidBundle       = errors.New("invalid bundle selection")
	ErrOfferInactive       = errors.New("offer is not active")
	ErrProductUnavailable  = errors.New("product is not available")
	ErrListingUnavailable  = errors.New("listing is not available")
	ErrUnsupportedImage    = errors.New("unsupported image type")
	ErrImageTooLarge       = errors.New("image too large")
	ErrMessagingNotSetUp   = errors.New("messaging recipient not configured")
	ErrCannotContactOwn    = errors.New("cannot contact own listing")
	ErrCannotModerateAdmin = errors.New("cannot ban an admin")
)

// SQLState returns the SQLSTATE code of a Postgres error from either driver
func SQLState(err error) (string, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, true
	}
	var drvErr pgdriver.Error
	if errors.As(err, &drvErr) {
		return drvErr.Field('C'), true
	}
	return "", false
}

func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if code, ok := SQLState(err); ok {
		switch code {
		case "23505": // unique_violation
			return ErrConflict
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

func IsUniqueViolation(err error) bool {
	return errors.Is(MapPgError(err), ErrConflict)
}

// GetUserMessage maps an error to the message key returned to clients
func GetUserMessage(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return "error.validation"
	case IsUniqueViolation(err):
		return "error.conflict"
	case IsNotFound(err):
		return "error.notFound"
	case errors.Is(err, ErrInvalidCredentials):
		return "error.auth.invalidCredentials"
	case errors.Is(err, ErrUserBanned):
		return "error.auth.banned"
	case errors.Is(err, ErrEmailNotVerified):
		return "error.auth.emailNotVerified"
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
		return "error.auth.invalidToken"
	case errors.Is(err, ErrForbidden):
		return "error.forbidden"
	case errors.Is(err, ErrInvalidInput):
		return "error.validation"
	case errors.Is(err, ErrInvalidBundle):
		return "error.offer.invalidSelection"
	case errors.Is(err, ErrOfferInactive):
		return "error.offer.inactive"
	case errors.Is(err, ErrProductUnavailable):
		return "error.products.unavailable"
	case errors.Is(err, ErrListingUnavailable):
		return "error.marketplace.unavailable"
	case errors.Is(err, ErrCannotContactOwn):
		return "error.marketplace.ownListing"
	case errors.Is(err, ErrUnsupportedImage):
		return "error.upload.unsupportedType"
	case errors.Is(err, ErrImageTooLarge):
		return "error.upload.tooLarge"
	case errors.Is(err, ErrMessagingNotSetUp):
		return "error.messaging.unavailable"
	case errors.Is(err, ErrCannotModerateAdmin):
		return "error.admin.cannotBanAdmin"
	}
	return "error.internal"
}

// GetDetailForLogging returns the SQLSTATE when available, otherwise the error text
func GetDetailForLogging(err error) string {
	if err == nil {
		return ""
	}
	if code, ok := SQLState(err); ok {
		return "sqlstate " + code + ": " + err.Error()
	}
	return err.Error()
}

// DetailedError carries a user-facing reason alongside a sentinel error
type DetailedError struct {
	Err    error
	Reason string
}

func (e *DetailedError) Error() string {
	return e.Err.Error() + ": " + e.Reason
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

func Detail(err error, reason string) error {
	return &DetailedError{Err: err, Reason: reason}
}

// ReasonOf returns the reason attached with Detail, if any
func ReasonOf(err error) string {
	var de *DetailedError
	if errors.As(err, &de) {
		return de.Reason
	}
	return ""
}
