package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatusResponse is what the storefront polls after the shopper returns
type PaymentStatusResponse struct {
	OrderID       uuid.UUID                `json:"order_id"`
	Status        OrderStatus              `json:"status"`
	Paid          bool                     `json:"paid"`
	Total         decimal.Decimal          `json:"total"`
	Currency      string                   `json:"currency"`
	TransactionID *string                  `json:"transaction_id,omitempty"`
	PaidAt        *time.Time               `json:"paid_at,omitempty"`
	Notes         []NoteResponse           `json:"notes"`
	Subscriptions []SubscriptionStatusItem `json:"subscriptions,omitempty"`
}

type NoteResponse struct {
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type SubscriptionStatusItem struct {
	ID       uuid.UUID `json:"id"`
	Relation string    `json:"relation"`
	Status   string    `json:"status"`
}
