package handling

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront_server/config"
	"storefront_server/lib"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{lib.ErrNotFound, http.StatusNotFound},
		{sql.ErrNoRows, http.StatusNotFound},
		{lib.ErrConflict, http.StatusConflict},
		{lib.ErrInvalidCredentials, http.StatusUnauthorized},
		{lib.ErrExpiredToken, http.StatusUnauthorized},
		{lib.ErrUserBanned, http.StatusForbidden},
		{lib.ErrCannotModerateAdmin, http.StatusForbidden},
		{lib.Detail(lib.ErrInvalidBundle, "slot 2: product not available"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", lib.ErrImageTooLarge), http.StatusBadRequest},
		{&lib.ValidationError{}, http.StatusBadRequest},
		{lib.ErrMessagingNotSetUp, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestHandleErrorWritesMessageKey(t *testing.T) {
	logger := config.NewLogger(false)

	rec := httptest.NewRecorder()
	HandleError(lib.Detail(lib.ErrInvalidBundle, "slot 3: product already selected"), "quote failed", logger, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error.offer.invalidSelection")
	assert.Contains(t, rec.Body.String(), "slot 3: product already selected")

	rec = httptest.NewRecorder()
	HandleError(errors.New("connection reset"), "query failed", logger, rec)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error.internal")
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestHandleBodyError(t *testing.T) {
	logger := config.NewLogger(false)

	rec := httptest.NewRecorder()
	HandleBodyError(&lib.ValidationError{Errors: []lib.FieldError{{Field: "contact", Message: "is required"}}}, logger, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error.validation")
	assert.Contains(t, rec.Body.String(), "contact")

	rec = httptest.NewRecorder()
	HandleBodyError(errors.New("unexpected EOF"), logger, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error.invalidRequest")
}
