package http

import (
	"errors"
	"net/http"
	"strings"

	"terapis/internal/catalog"
	"terapis/internal/core"
	"terapis/internal/ledger"
	applog "terapis/internal/log"
)

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// errorResponse maps service errors to status codes.
func errorResponse(err error) *ResponseBuilder {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		return ErrorResponse(http.StatusUnprocessableEntity, "validation_failed", ve.Err.Error()).Field(ve.Field)
	case errors.Is(err, ledger.ErrNotFound):
		return NotFoundError("transaction not found")
	case errors.Is(err, catalog.ErrUnknownTreatment):
		return NotFoundError("treatment not found")
	case errors.Is(err, ledger.ErrMalformed):
		return BadRequestError("payload is not a transaction array")
	case errors.Is(err, ledger.ErrPersistence):
		return ErrorResponse(http.StatusServiceUnavailable, "persistence_failed", "could not save, try again").
			Header("Retry-After", "5")
	default:
		return InternalServerError("internal error")
	}
}

// errorType classifies err for the error_type log field.
func errorType(err error) string {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		return applog.ErrorTypeValidation
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, catalog.ErrUnknownTreatment):
		return applog.ErrorTypeNotFound
	case errors.Is(err, ledger.ErrMalformed):
		return applog.ErrorTypeMalformed
	case errors.Is(err, ledger.ErrPersistence):
		return applog.ErrorTypePersistence
	}
	return applog.ErrorTypeInternal
}
