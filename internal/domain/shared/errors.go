package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the domain. The HTTP layer maps these to status codes.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNegativeQuantity   = "NEGATIVE_QUANTITY"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeInvalidState       = "INVALID_STATE_TRANSITION"
	CodeOverReceipt        = "OVER_RECEIPT"
	CodeOverShipment       = "OVER_SHIPMENT"
	CodeDuplicateReference = "DUPLICATE_REFERENCE"
	CodeTenancyViolation   = "TENANCY_VIOLATION"
	CodeConflict           = "CONCURRENCY_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrConcurrencyConflict = NewDomainError(CodeConflict, "Resource was modified by another process")
	ErrInsufficientStock   = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrTenancyViolation    = NewDomainError(CodeTenancyViolation, "Entity belongs to another organization")
)

// CodeOf returns the domain error code for err, or empty string if err is not a DomainError
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsConflict reports whether err is a concurrency conflict that may succeed on retry
func IsConflict(err error) bool {
	return CodeOf(err) == CodeConflict
}

// IsNotFound reports whether err indicates a missing resource
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}
