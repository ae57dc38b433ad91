package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/identity-service/internal/application"
	"github.com/oksasatya/identity-service/pkg/response"
)

// writeError maps a domain error to one stable machine-readable code and
// HTTP status. FieldValidationError additionally exposes the full
// per-field list so a client can highlight every offending input.
func writeError(c *gin.Context, err error) {
	var fv *application.FieldValidationError
	if errors.As(err, &fv) {
		response.Error[any](c, http.StatusConflict, fv.Message, gin.H{
			"code":   "field_validation",
			"fields": fv.Fields,
		})
		return
	}

	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, application.ErrBadCredentials):
		status, code = http.StatusUnauthorized, "bad_credentials"
	case errors.Is(err, application.ErrAccountDisabled):
		status, code = http.StatusForbidden, "account_disabled"
	case errors.Is(err, application.ErrUserNotFound):
		status, code = http.StatusNotFound, "user_not_found"
	case errors.Is(err, application.ErrRoleNotFound):
		status, code = http.StatusNotFound, "role_not_found"
	case errors.Is(err, application.ErrVerificationNotFound):
		status, code = http.StatusNotFound, "verification_not_found"
	case errors.Is(err, application.ErrVerificationExpired):
		status, code = http.StatusGone, "verification_expired"
	case errors.Is(err, application.ErrIncorrectOldPassword):
		status, code = http.StatusBadRequest, "incorrect_old_password"
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	response.Error[any](c, status, msg, gin.H{"code": code})
}
