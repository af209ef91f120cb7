package main

import (
	"github.com/hibiken/asynq"

	paymentJob "cashonrails-backend/internal/domains/payment/job"
	"cashonrails-backend/internal/infrastructure/email"
	"cashonrails-backend/internal/shared"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	paymentComplete *paymentJob.PaymentCompleteHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(cfg *Config) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)

	return &HandlerRegistry{
		paymentComplete: paymentJob.NewPaymentCompleteHandler(emailSvc),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Payment tasks
	mux.HandleFunc(shared.TypePaymentComplete, h.paymentComplete.ProcessTask)
}
