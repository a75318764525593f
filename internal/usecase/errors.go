package usecase

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation             = errors.New("validation failed")
	ErrQuotationNotFound      = errors.New("quotation not found")
	ErrInvalidStateTransition = entities.ErrInvalidStateTransition
	ErrConcurrentModification = errors.New("quotation was modified concurrently")
	ErrQuotationExpired       = errors.New("quotation validity has ended")
	ErrWarehouseNotFound      = errors.New("warehouse not found")
	ErrDuplicateWarehouse     = errors.New("warehouse already exists")
	ErrUserNotFound           = errors.New("user not found")
	ErrDuplicateUser          = errors.New("user already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrDuplicateKey           = interfaces.ErrDuplicateKey
)

type DuplicateKeyError = interfaces.DuplicateKeyError

// ValidationError lists rejected input fields with a message each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// asValidation converts a pricing field error from the domain into a ValidationError.
func asValidation(err error) error {
	var fe *entities.FieldError
	if errors.As(err, &fe) {
		return newValidationError(fe.Field, fe.Message)
	}
	return err
}
