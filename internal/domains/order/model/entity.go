package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ORDER STATUS
// =====================================================

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusOnHold     OrderStatus = "on-hold"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
	OrderStatusFailed     OrderStatus = "failed"
)

// PaidStatuses are the statuses an order holds once its payment has been confirmed.
var PaidStatuses = []OrderStatus{OrderStatusProcessing, OrderStatusCompleted}

// IsPaid reports whether the status belongs to the confirmed set.
func (s OrderStatus) IsPaid() bool {
	for _, paid := range PaidStatuses {
		if s == paid {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// =====================================================
// ENTITY: Order
// =====================================================

type Order struct {
	ID               uuid.UUID         `json:"id"`
	BillingEmail     string            `json:"billing_email"`
	BillingFirstName string            `json:"billing_first_name"`
	BillingLastName  string            `json:"billing_last_name"`
	BillingPhone     string            `json:"billing_phone"`
	Total            decimal.Decimal   `json:"total"`
	Currency         string            `json:"currency"`
	Status           OrderStatus       `json:"status"`
	TransactionID    *string           `json:"transaction_id,omitempty"`
	PaidAt           *time.Time        `json:"paid_at,omitempty"`
	Meta             map[string]string `json:"meta,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// GetMeta returns the metadata value for key, or "" when unset.
func (o *Order) GetMeta(key string) string {
	if o.Meta == nil {
		return ""
	}
	return o.Meta[key]
}

func (o Order) IsPaid() bool {
	return o.Status.IsPaid()
}

// =====================================================
// ENTITY: OrderNote
// =====================================================

// OrderNote is an append-only, human readable audit entry.
type OrderNote struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
