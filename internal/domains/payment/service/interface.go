package service

import (
	"context"

	"github.com/google/uuid"

	"cashonrails-backend/internal/domains/payment/model"
)

// =====================================================
// CHECKOUT SERVICE INTERFACE
// =====================================================
type CheckoutService interface {
	// InitiateCheckout creates the remote customer and the hosted checkout for
	// the order. The order is only written to once both calls succeeded.
	InitiateCheckout(ctx context.Context, orderID uuid.UUID) (*model.CheckoutResponse, error)
}

// =====================================================
// RECONCILIATION SERVICE INTERFACE
// =====================================================
type ReconciliationService interface {
	// HandleReturn verifies the order's payment when the shopper comes back
	// from the hosted checkout page.
	HandleReturn(ctx context.Context, orderID uuid.UUID) (*model.ReconcileResult, error)

	// HandleWebhook applies a status pushed by CashOnRails. An unknown
	// reference yields OutcomeOrderNotFound and no error.
	HandleWebhook(ctx context.Context, reference, status string) (*model.ReconcileResult, error)
}

// =====================================================
// COLLABORATORS
// =====================================================

// PaymentEventPublisher receives one event per confirmed order.
type PaymentEventPublisher interface {
	PublishPaymentComplete(ctx context.Context, event model.PaymentCompleteEvent) error
}
