package model

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusOnHold    Status = "on-hold"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Relation links a subscription to an order.
type Relation string

const (
	RelationParent  Relation = "parent"  // order that created the subscription
	RelationRenewal Relation = "renewal" // order that renews it
)

// PaymentRelations are the relations considered when an order payment is confirmed.
var PaymentRelations = []Relation{RelationParent, RelationRenewal}

// ActivatableStatuses may move to active after a confirmed payment.
var ActivatableStatuses = []Status{StatusPending, StatusOnHold}

type Subscription struct {
	ID            uuid.UUID  `json:"id"`
	OrderID       uuid.UUID  `json:"order_id"`
	Relation      Relation   `json:"relation"`
	Status        Status     `json:"status"`
	LastPaymentAt *time.Time `json:"last_payment_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (s *Subscription) CanActivate() bool {
	for _, st := range ActivatableStatuses {
		if s.Status == st {
			return true
		}
	}
	return false
}

type SubscriptionNote struct {
	ID             uuid.UUID `json:"id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	Note           string    `json:"note"`
	CreatedAt      time.Time `json:"created_at"`
}
