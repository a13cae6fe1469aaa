package cart

import (
	"errors"
	"fmt"
)

// StatusCode says why a cart operation was refused: the request itself was
// malformed, or it was well formed but the cart's current state rules it out.
type StatusCode uint8

const (
	StatusInvalidArgument StatusCode = iota + 1
	StatusFailedPrecondition
)

func (s StatusCode) String() string {
	switch s {
	case StatusInvalidArgument:
		return "invalid argument"
	case StatusFailedPrecondition:
		return "failed precondition"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Code-only sentinels. Every cart error matches the sentinel for its code
// under errors.Is.
var (
	ErrInvalidArgument    = &Error{Code: StatusInvalidArgument}
	ErrFailedPrecondition = &Error{Code: StatusFailedPrecondition}
)

// Rejection messages, returned verbatim by Error.Error.
const (
	ErrMsgProductRequired      = "product is required"
	ErrMsgQuantityPositive     = "quantity must be positive"
	ErrMsgQuantityRange        = "quantity must be between 1 and 10"
	ErrMsgItemNotInCart        = "item not in cart"
	ErrMsgVariantMismatch      = "variant does not belong to product"
	ErrMsgVariantOutOfStock    = "variant is out of stock"
	ErrMsgCouponCodeRequired   = "coupon code is required"
	ErrMsgUnknownCoupon        = "unknown coupon code"
	ErrMsgPercentageRange      = "percentage must be 0-100"
	ErrMsgFixedDiscountNeg     = "fixed discount cannot be negative"
	ErrMsgInvalidCouponType    = "invalid coupon type"
	ErrMsgInvalidCustomization = "invalid customization"
)

// Error is a refused cart operation.
type Error struct {
	Code    StatusCode
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "cart: " + e.Code.String()
	}
	return e.Message
}

// Is matches code-only sentinels such as ErrInvalidArgument.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Code == e.Code
}

// invalidArgument formats a malformed-request error. With no args the format
// is used as is.
func invalidArgument(format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: StatusInvalidArgument, Message: msg}
}

func failedPrecondition(msg string) *Error {
	return &Error{Code: StatusFailedPrecondition, Message: msg}
}

// Code returns the status code carried by err, and false when err is not a
// cart error.
func Code(err error) (StatusCode, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	return 0, false
}
