package types

import (
	"net/http"

	appErr "github.com/trackdays/api/pkg/errors"
)

func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	code := string(appErr.CodeUnknown)
	if e, ok := err.(*appErr.AppError); ok {
		code = string(e.Code)
		return &APIError{Code: code, Message: e.Message}
	}
	return &APIError{Code: code, Message: err.Error()}
}

// StatusFromError maps an AppError code to an HTTP status.
func StatusFromError(err error) int {
	switch {
	case appErr.IsCode(err, appErr.CodeInvalid):
		return http.StatusBadRequest
	case appErr.IsCode(err, appErr.CodeNotFound):
		return http.StatusNotFound
	case appErr.IsCode(err, appErr.CodeConflict):
		return http.StatusConflict
	case appErr.IsCode(err, appErr.CodeUnauthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
