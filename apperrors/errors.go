package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller.
type Kind string

const (
	KindNotFound                  Kind = "NotFound"
	KindForbidden                 Kind = "Forbidden"
	KindInvalidState              Kind = "InvalidState"
	KindValidationFailed          Kind = "ValidationFailed"
	KindPaymentVerificationFailed Kind = "PaymentVerificationFailed"
	KindExternalServiceFailure    Kind = "ExternalServiceFailure"
	KindConflict                  Kind = "Conflict"
	KindInternal                  Kind = "Internal"
)

// Codes narrowing a kind down to a specific business rule.
const (
	CodeInvalidOTP           = "InvalidOTP"
	CodeNothingDue           = "NothingDue"
	CodeNoPayoutDestination  = "NoPayoutDestination"
	CodeAlreadyAssigned      = "AlreadyAssigned"
	CodePaymentFieldsMissing = "PaymentFieldsMissing"
	CodeAlreadyReviewed      = "AlreadyReviewed"
)

// Error is the error type returned by every service operation.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	code := e.Code
	if code == "" {
		code = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, code, msg string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Err: err}
}

func NotFound(entity string) error {
	return newError(KindNotFound, "", entity+" not found", nil)
}

func Forbidden(msg string) error {
	return newError(KindForbidden, "", msg, nil)
}

func InvalidState(msg string) error {
	return newError(KindInvalidState, "", msg, nil)
}

func Validation(msg string) error {
	return newError(KindValidationFailed, "", msg, nil)
}

func PaymentVerificationFailed(msg string) error {
	return newError(KindPaymentVerificationFailed, "", msg, nil)
}

// External wraps a failed call to a third-party service. Retrying is safe.
func External(msg string, err error) error {
	return newError(KindExternalServiceFailure, "", msg, err)
}

func Conflict(msg string) error {
	return newError(KindConflict, "", msg, nil)
}

// Internal wraps an unexpected storage or programming failure.
func Internal(msg string, err error) error {
	return newError(KindInternal, "", msg, err)
}

func InvalidOTP() error {
	return newError(KindValidationFailed, CodeInvalidOTP, "otp does not match", nil)
}

func NothingDue() error {
	return newError(KindInvalidState, CodeNothingDue, "no balance is due on this booking", nil)
}

func NoPayoutDestination() error {
	return newError(KindValidationFailed, CodeNoPayoutDestination, "partner has no bank account or vpa on file", nil)
}

func AlreadyAssigned() error {
	return newError(KindConflict, CodeAlreadyAssigned, "item already has a partner", nil)
}

func PaymentFieldsMissing() error {
	return newError(KindValidationFailed, CodePaymentFieldsMissing, "orderId, paymentId and signature are required for online payment", nil)
}

func AlreadyReviewed() error {
	return newError(KindConflict, CodeAlreadyReviewed, "booking has already been reviewed", nil)
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the specific code of err, falling back to its kind.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Code != "" {
			return e.Code
		}
		return string(e.Kind)
	}
	return string(KindInternal)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HasCode reports whether err carries the given specific code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// MessageOf returns the client-safe message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
