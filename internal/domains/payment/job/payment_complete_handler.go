package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"cashonrails-backend/internal/domains/payment/model"
	"cashonrails-backend/internal/infrastructure/email"
)

// ============================================
// Payment Complete Handler
// ============================================

// PaymentCompleteHandler sends the payment receipt once an order is confirmed
type PaymentCompleteHandler struct {
	emailService email.EmailService
}

func NewPaymentCompleteHandler(emailService email.EmailService) *PaymentCompleteHandler {
	return &PaymentCompleteHandler{
		emailService: emailService,
	}
}

func (h *PaymentCompleteHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.PaymentCompleteEvent
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal PaymentComplete payload")
		// malformed payloads never succeed on retry
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("order_id", payload.OrderID.String()).
		Str("reference", payload.Reference).
		Str("source", string(payload.Source)).
		Int("activated_subscriptions", len(payload.ActivatedSubscriptions)).
		Msg("Processing payment complete")

	if payload.Email == "" {
		log.Warn().
			Str("order_id", payload.OrderID.String()).
			Msg("Order has no billing email, skipping receipt")
		return nil
	}

	receipt := email.PaymentReceiptData{
		Email:       payload.Email,
		FirstName:   payload.FirstName,
		OrderID:     payload.OrderID.String(),
		Reference:   payload.Reference,
		Total:       payload.Total,
		Currency:    payload.Currency,
		ConfirmedAt: payload.ConfirmedAt,
	}

	if err := h.emailService.SendPaymentReceipt(ctx, receipt); err != nil {
		log.Error().Err(err).Msg("Failed to send payment receipt")
		return fmt.Errorf("send payment receipt: %w", err)
	}

	log.Info().
		Str("order_id", payload.OrderID.String()).
		Str("email", payload.Email).
		Msg("Payment receipt sent successfully")

	return nil
}
