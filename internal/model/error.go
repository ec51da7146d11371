package model

import (
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeInvalidCouponCode  = "INVALID_COUPON_CODE"
	ErrCodeCouponNotFound     = "COUPON_NOT_FOUND"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeEmptyOrder         = "EMPTY_ORDER"
	ErrCodeMissingIdentity    = "MISSING_VARIANT_IDENTITY"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

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

// Common domain errors
var (
	ErrInvalidCouponCode  = NewDomainError(ErrCodeInvalidCouponCode, "Coupon code has an invalid length")
	ErrCouponNotFound     = NewDomainError(ErrCodeCouponNotFound, "Coupon code is not recognised")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrProductUnavailable = NewDomainError(ErrCodeProductUnavailable, "One or more products are unavailable in the requested quantity")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrEmptyOrder         = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrForbidden          = NewDomainError(ErrCodeForbidden, "Order belongs to another customer")
	ErrUnauthenticated    = NewDomainError(ErrCodeUnauthorised, "A signed-in customer is required")
)

// MissingVariantIdentityError is returned when a variant cannot be deep-linked
// because it has no id or no slug.
type MissingVariantIdentityError struct {
	MissingID   bool
	MissingSlug bool
}

func (e *MissingVariantIdentityError) Error() string {
	var missing []string
	if e.MissingID {
		missing = append(missing, "id")
	}
	if e.MissingSlug {
		missing = append(missing, "slug")
	}
	return fmt.Sprintf("variant is missing identity: %s", strings.Join(missing, ", "))
}
