package api

import (
	"errors"
	"net/http"

	"github.com/pageza/receitas/backend/internal/service"
)

// classifyError maps service errors onto HTTP responses
func classifyError(err error) (int, string) {
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		switch authErr.Reason {
		case service.ReasonEmailInUse:
			return http.StatusConflict, authErr.Error()
		case service.ReasonInvalidCredentials, service.ReasonInvalidToken:
			return http.StatusUnauthorized, authErr.Error()
		default:
			return http.StatusBadRequest, authErr.Error()
		}
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Recipe not found"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, service.ErrForbidden.Error()
	}

	var writeErr *service.WriteError
	if errors.As(err, &writeErr) {
		return http.StatusInternalServerError, writeErr.Op + " failed"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}
