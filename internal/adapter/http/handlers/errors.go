package handlers

import (
	request "cargo_quotes/internal/adapter/http/dto/request"
	"cargo_quotes/internal/usecase"
	"cargo_quotes/internal/usecase/interfaces"
	"cargo_quotes/pkg"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request payload", http.StatusBadRequest)
	errValidation     = pkg.NewDomainErrorSimple("VALIDATION_ERROR", "Request validation failed", http.StatusBadRequest)
	errUnauthorized   = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Authentication required", http.StatusUnauthorized)
	errForbidden      = pkg.NewDomainErrorSimple("FORBIDDEN", "Access denied: insufficient permissions", http.StatusForbidden)
)

func respondError(c *gin.Context, appErr *pkg.AppError) {
	if appErr.HTTPStatus >= http.StatusInternalServerError && appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// bindError turns a gin binding failure into a 400 with per-field details
// when the validator produced them.
func bindError(err error) *pkg.AppError {
	if fields := request.FieldErrors(err); len(fields) > 0 {
		return errValidation.WithDetails(fields)
	}
	return errInvalidPayload
}

// mapCommonError covers the errors shared by every resource. It returns nil
// when err is resource specific.
func mapCommonError(err error) *pkg.AppError {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		return errValidation.WithDetails(verr.Fields)
	case errors.Is(err, usecase.ErrValidation):
		return errValidation
	case errors.Is(err, interfaces.ErrInvalidCursor):
		return errValidation.WithDetails(map[string]string{"cursor": "is invalid"})
	case errors.Is(err, usecase.ErrUnauthorized), errors.Is(err, usecase.ErrInvalidCredentials):
		return errUnauthorized
	case errors.Is(err, usecase.ErrForbidden):
		return errForbidden
	}
	return nil
}

func internalError(err error) *pkg.AppError {
	return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
}
