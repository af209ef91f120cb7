package service

import (
	"context"

	"github.com/google/uuid"

	"cashonrails-backend/internal/domains/order/model"
)

// OrderService exposes the read side of an order's payment lifecycle
type OrderService interface {
	GetPaymentStatus(ctx context.Context, orderID uuid.UUID) (*model.PaymentStatusResponse, error)
}
