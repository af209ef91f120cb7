package model

import (
	"errors"
	"fmt"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var ErrOrderAlreadyPaid = errors.New("order already paid")

// =====================================================
// CUSTOM PAYMENT ERROR
// =====================================================

// PaymentError is what services return to handlers.
// Message is safe to show to the shopper.
type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

func NewOrderNotFoundError(orderID string, err error) *PaymentError {
	return NewPaymentError(
		ErrCodeOrderNotFound,
		fmt.Sprintf("Order not found: %s", orderID),
		err,
	)
}

func NewOrderAlreadyPaidError(orderID string) *PaymentError {
	return NewPaymentError(
		ErrCodeOrderAlreadyPaid,
		fmt.Sprintf("Order %s is already paid", orderID),
		ErrOrderAlreadyPaid,
	)
}

// NewCheckoutFailedError wraps a gateway failure. The message shown to the
// shopper is the gateway's own message when it gave one.
func NewCheckoutFailedError(err error) *PaymentError {
	message := "Payment could not be started. Please try again."

	var remoteErr *RemoteError
	var missingErr *MissingFieldError
	switch {
	case errors.As(err, &remoteErr) && remoteErr.Message != "":
		message = remoteErr.Message
	case errors.As(err, &missingErr):
		message = missingErr.UserMessage()
	}

	return NewPaymentError(ErrCodeCheckoutFailed, message, err)
}

// =====================================================
// GATEWAY ERRORS
// =====================================================

// RemoteError means CashOnRails answered but reported failure.
type RemoteError struct {
	Operation  string
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("cashonrails %s failed (HTTP %d): %s", e.Operation, e.StatusCode, e.Message)
}

// MissingFieldError means a successful response lacked a required field.
type MissingFieldError struct {
	Operation string
	Field     string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("cashonrails %s response missing %s", e.Operation, e.Field)
}

func (e *MissingFieldError) UserMessage() string {
	if e.Field == "customer_code" {
		return "Invalid customer response. Missing customer code."
	}
	return "Invalid payment response. Missing " + e.Field + "."
}

// VerificationUnavailableError means the verify call could not be completed
// or its response could not be read. The payment state is unknown.
type VerificationUnavailableError struct {
	Reference string
	Err       error
}

func (e *VerificationUnavailableError) Error() string {
	return fmt.Sprintf("cashonrails verification unavailable for %s: %v", e.Reference, e.Err)
}

func (e *VerificationUnavailableError) Unwrap() error {
	return e.Err
}
