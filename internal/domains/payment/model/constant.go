package model

// =====================================================
// GATEWAY
// =====================================================
const (
	// ReferencePrefix starts every payment reference sent to CashOnRails.
	ReferencePrefix = "CR-"

	// DefaultWebhookMarker is the query parameter that identifies webhook calls.
	DefaultWebhookMarker = "cashonrails-webhook"
)

// =====================================================
// ORDER METADATA KEYS
// =====================================================
const (
	MetaReference    = "_cashonrails_ref"
	MetaCustomerCode = "_cashonrails_customer_code"
)

// =====================================================
// REMOTE TRANSACTION STATUS
// =====================================================
const (
	// TransactionStatusSuccess is the only remote status treated as paid.
	TransactionStatusSuccess = "success"
)

// =====================================================
// NOTES
// =====================================================
const (
	NoteVerifiedOnReturn   = "CashOnRails payment verified on return."
	NoteConfirmedByWebhook = "CashOnRails payment confirmed via webhook."
	NoteVerificationFailed = "CashOnRails payment verification failed or not successful."
	NoteSubscriptionActive = "CashOnRails: Subscription activated after payment."
)

// =====================================================
// RECONCILIATION
// =====================================================

// Source identifies which signal drove a reconciliation.
type Source string

const (
	SourceReturn  Source = "return"
	SourceWebhook Source = "webhook"
)

// ConfirmationNote returns the order note recorded when src confirms a payment.
func (s Source) ConfirmationNote() string {
	if s == SourceWebhook {
		return NoteConfirmedByWebhook
	}
	return NoteVerifiedOnReturn
}

type Outcome string

const (
	OutcomeConfirmed               Outcome = "confirmed"
	OutcomeAlreadyConfirmed        Outcome = "already_confirmed"
	OutcomeNotSuccessful           Outcome = "not_successful"
	OutcomeVerificationUnavailable Outcome = "verification_unavailable"
	OutcomeOrderNotFound           Outcome = "order_not_found"
	OutcomeNoReference             Outcome = "no_reference"
)

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeCheckoutFailed   = "PAY_CHECKOUT_FAILED"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeOrderAlreadyPaid = "ORDER_ALREADY_PAID"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)
