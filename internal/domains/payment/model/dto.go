package model

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	orderModel "cashonrails-backend/internal/domains/order/model"
)

// =====================================================
// WEBHOOK
// =====================================================

// WebhookRequest is the body CashOnRails posts to the webhook URL.
// Fields stay untyped so any present, non-null value is accepted; an absent
// field and a JSON null both decode to nil.
type WebhookRequest struct {
	Reference interface{} `json:"reference"`
	Status    interface{} `json:"status"`
}

func (r WebhookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reference, validation.NotNil),
		validation.Field(&r.Status, validation.NotNil),
	)
}

// ReferenceText returns the reference as text
func (r WebhookRequest) ReferenceText() string {
	return webhookText(r.Reference)
}

// StatusText returns the status as text. A non-string status never
// equals a success status.
func (r WebhookRequest) StatusText() string {
	return webhookText(r.Status)
}

// webhookText keeps strings as they are and renders anything else as its
// JSON encoding, so 1 becomes "1" and true becomes "true".
func webhookText(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// =====================================================
// CHECKOUT
// =====================================================

type CheckoutResponse struct {
	Result    string `json:"result"`
	Redirect  string `json:"redirect"`
	Reference string `json:"reference"`
}

// =====================================================
// RECONCILIATION
// =====================================================

// ReconcileResult reports what a reconciliation did.
// OrderID is uuid.Nil when no order matched.
type ReconcileResult struct {
	OrderID uuid.UUID              `json:"order_id"`
	Outcome Outcome                `json:"outcome"`
	Status  orderModel.OrderStatus `json:"status,omitempty"`
}

// ReturnResponse is what the shopper's browser gets back on return.
type ReturnResponse struct {
	OrderID uuid.UUID              `json:"order_id"`
	Status  orderModel.OrderStatus `json:"status"`
	Outcome Outcome                `json:"outcome"`
	Paid    bool                   `json:"paid"`
}

// =====================================================
// EVENTS
// =====================================================

// PaymentCompleteEvent is published once per confirmed order.
type PaymentCompleteEvent struct {
	OrderID                uuid.UUID       `json:"order_id"`
	Reference              string          `json:"reference"`
	Source                 Source          `json:"source"`
	Email                  string          `json:"email"`
	FirstName              string          `json:"first_name"`
	Total                  decimal.Decimal `json:"total"`
	Currency               string          `json:"currency"`
	ActivatedSubscriptions []uuid.UUID     `json:"activated_subscriptions,omitempty"`
	ConfirmedAt            time.Time       `json:"confirmed_at"`
}
