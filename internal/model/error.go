package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON            = "INVALID_JSON"
	ErrCodeMissingField           = "MISSING_FIELD"
	ErrCodeInvalidParameter       = "INVALID_PARAMETER"
	ErrCodeUnauthorised           = "UNAUTHORIZED"
	ErrCodeForbidden              = "FORBIDDEN"
	ErrCodeInternalError          = "INTERNAL_ERROR"
	ErrCodeProductNotFound        = "PRODUCT_NOT_FOUND"
	ErrCodeCartNotFound           = "CART_NOT_FOUND"
	ErrCodeInvalidQuantity        = "INVALID_QUANTITY"
	ErrCodeProductNotInCart       = "PRODUCT_NOT_IN_CART"
	ErrCodeInvalidOrExpiredCoupon = "INVALID_OR_EXPIRED_COUPON"
	ErrCodeInvalidCouponPercent   = "INVALID_COUPON_PERCENT"
	ErrCodeCouponNotYetActive     = "COUPON_NOT_YET_ACTIVE"
	ErrCodeCouponExpired          = "COUPON_EXPIRED"
	ErrCodeCartEmpty              = "CART_EMPTY"
	ErrCodeMinimumAmountNotMet    = "MINIMUM_AMOUNT_NOT_MET"
	ErrCodeCouponAlreadyApplied   = "COUPON_ALREADY_APPLIED"
	ErrCodeEmptyCart              = "EMPTY_CART"
	ErrCodeMissingAddressFields   = "MISSING_ADDRESS_FIELDS"
	ErrCodeInvalidPaymentMethod   = "INVALID_PAYMENT_METHOD"
	ErrCodePaymentDeclined        = "PAYMENT_DECLINED"
	ErrCodeConcurrentModification = "CONCURRENT_MODIFICATION"
	ErrCodeInvalidCoupon          = "INVALID_COUPON"
	ErrCodeCouponNotFound         = "COUPON_NOT_FOUND"
	ErrCodeCouponExists           = "COUPON_EXISTS"
	ErrCodeInvalidShipping        = "INVALID_SHIPPING_SETTINGS"
	ErrCodeOrderNotFound          = "ORDER_NOT_FOUND"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors built with a more specific message still match their sentinel.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Cart errors
var (
	ErrProductNotFound        = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCartNotFound           = NewDomainError(ErrCodeCartNotFound, "Cart not found")
	ErrInvalidQuantity        = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be between 1 and 10000")
	ErrProductNotInCart       = NewDomainError(ErrCodeProductNotInCart, "Product is not in the cart")
	ErrConcurrentModification = NewDomainError(ErrCodeConcurrentModification, "Cart was modified concurrently, please retry")
)

// Coupon application errors
var (
	ErrInvalidOrExpiredCoupon = NewDomainError(ErrCodeInvalidOrExpiredCoupon, "Coupon is invalid or expired")
	ErrInvalidCouponPercent   = NewDomainError(ErrCodeInvalidCouponPercent, "Coupon percent must be between 1 and 100")
	ErrCouponNotYetActive     = NewDomainError(ErrCodeCouponNotYetActive, "Coupon is not active yet")
	ErrCouponExpired          = NewDomainError(ErrCodeCouponExpired, "Coupon has expired")
	ErrCartEmpty              = NewDomainError(ErrCodeCartEmpty, "Cart is empty")
	ErrMinimumAmountNotMet    = NewDomainError(ErrCodeMinimumAmountNotMet, "Cart subtotal does not meet the coupon minimum amount")
	ErrCouponAlreadyApplied   = NewDomainError(ErrCodeCouponAlreadyApplied, "Coupon is already applied to the cart")
)

// Checkout errors
var (
	ErrEmptyCart            = NewDomainError(ErrCodeEmptyCart, "Cannot place an order with an empty cart")
	ErrMissingAddressFields = NewDomainError(ErrCodeMissingAddressFields, "Shipping address is incomplete")
	ErrInvalidPaymentMethod = NewDomainError(ErrCodeInvalidPaymentMethod, "Payment method is not supported")
	ErrPaymentDeclined      = NewDomainError(ErrCodePaymentDeclined, "Payment was declined")
	ErrOrderNotFound        = NewDomainError(ErrCodeOrderNotFound, "Order not found")
)

// Admin errors
var (
	ErrInvalidCoupon   = NewDomainError(ErrCodeInvalidCoupon, "Coupon definition is invalid")
	ErrCouponNotFound  = NewDomainError(ErrCodeCouponNotFound, "Coupon not found")
	ErrCouponExists    = NewDomainError(ErrCodeCouponExists, "A coupon with this code already exists")
	ErrInvalidShipping = NewDomainError(ErrCodeInvalidShipping, "Shipping settings are invalid")
)
