package gateway

import (
	"context"
	"encoding/json"

	"cashonrails-backend/internal/domains/payment/model"
)

// =====================================================
// GATEWAY INTERFACE
// =====================================================

// CashOnRailsGateway talks to the CashOnRails API. Implementations keep no
// state between calls.
type CashOnRailsGateway interface {
	// CreateCustomer registers the shopper and returns the customer code.
	CreateCustomer(ctx context.Context, req CustomerRequest) (string, error)

	// InitializeTransaction opens a hosted checkout and returns its authorization URL.
	InitializeTransaction(ctx context.Context, req InitializeRequest) (string, error)

	// VerifyTransaction reads the remote status of reference. Transport and
	// parse failures come back as *model.VerificationUnavailableError.
	VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error)
}

// =====================================================
// REQUEST/RESPONSE TYPES
// =====================================================

type CustomerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type InitializeRequest struct {
	Email        string `json:"email"`
	Amount       string `json:"amount"` // decimal string, two places
	Currency     string `json:"currency"`
	Reference    string `json:"reference"`
	CustomerCode string `json:"customer_code"`
	RedirectURL  string `json:"redirectUrl"`
	LogoURL      string `json:"logoUrl"`
}

// VerifyResult is the outcome of a verify call that reached CashOnRails.
type VerifyResult struct {
	Accepted bool   // the success flag of the envelope
	Status   string // data.status, e.g. "success"
	Message  string
	Raw      json.RawMessage // full body, for logging
}

// IsSuccessful reports whether the transaction is paid.
func (r *VerifyResult) IsSuccessful() bool {
	return r != nil && r.Accepted && r.Status == model.TransactionStatusSuccess
}
