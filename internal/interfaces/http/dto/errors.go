package dto

import (
	"net/http"

	"github.com/wareline/backend/internal/domain/shared"
)

// HTTP-layer error codes for failures that never reach the domain
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// statusByCode maps domain error codes to HTTP status codes.
// Everything not listed is treated as an internal error.
var statusByCode = map[string]int{
	shared.CodeValidation:         http.StatusBadRequest,
	shared.CodeNegativeQuantity:   http.StatusUnprocessableEntity,
	shared.CodeInsufficientStock:  http.StatusUnprocessableEntity,
	shared.CodeInvalidState:       http.StatusConflict,
	shared.CodeOverReceipt:        http.StatusUnprocessableEntity,
	shared.CodeOverShipment:       http.StatusUnprocessableEntity,
	shared.CodeDuplicateReference: http.StatusConflict,
	shared.CodeConflict:           http.StatusConflict,
	shared.CodeNotFound:           http.StatusNotFound,
	shared.CodeAlreadyExists:      http.StatusConflict,
	shared.CodeTenancyViolation:   http.StatusForbidden,
	ErrCodeBadRequest:             http.StatusBadRequest,
	ErrCodeUnauthorized:           http.StatusUnauthorized,
	ErrCodeInternal:               http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status code for an error code
func HTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
