package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"cashonrails-backend/pkg/logger"
)

type EmailService interface {
	SendEmail(ctx context.Context, req EmailRequest) error
	SendPaymentReceipt(ctx context.Context, data PaymentReceiptData) error
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	sendMail sendMailFunc
}

// NewSMTPEmailService sends mail through a plain SMTP relay (mailhog/mailpit in development)
func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
		sendMail: smtp.SendMail,
	}
}

func (s *smtpEmailService) SendEmail(ctx context.Context, req EmailRequest) error {
	if len(req.To) == 0 {
		return errors.New("email has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(s.smtpFrom, req)

	if err := s.sendMail(s.smtpAddr, nil, s.smtpFrom, req.To, msg); err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        strings.Join(req.To, ","),
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *smtpEmailService) SendPaymentReceipt(ctx context.Context, data PaymentReceiptData) error {
	name := data.FirstName
	if name == "" {
		name = "there"
	}

	body := fmt.Sprintf(`Hi %s,

We have received your payment for order %s.

Amount: %s %s
Payment reference: %s
Paid at: %s

Your order is now being processed. Thank you for shopping with us.`,
		name,
		data.OrderID,
		data.Total.StringFixed(2), data.Currency,
		data.Reference,
		data.ConfirmedAt.UTC().Format("2006-01-02 15:04 MST"),
	)

	return s.SendEmail(ctx, EmailRequest{
		To:      []string{data.Email},
		Subject: fmt.Sprintf("Payment received for order %s", data.OrderID),
		Body:    body,
	})
}

func buildMessage(from string, req EmailRequest) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(req.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", req.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	if req.IsHTML {
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	} else {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(req.Body)
	return []byte(b.String())
}
