package container

import (
	"context"

	"cashonrails-backend/internal/domains/payment/model"
	"cashonrails-backend/pkg/logger"
)

// discardPublisher stands in for the queue when redis is down at startup
type discardPublisher struct{}

func (discardPublisher) PublishPaymentComplete(ctx context.Context, event model.PaymentCompleteEvent) error {
	logger.Warn("task queue unavailable, payment complete event dropped", map[string]interface{}{
		"order_id":  event.OrderID,
		"reference": event.Reference,
	})
	return nil
}
