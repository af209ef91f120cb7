package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestService(sendErr error) (*smtpEmailService, *[]sentMail) {
	var sent []sentMail
	svc := &smtpEmailService{
		smtpAddr: "localhost:1025",
		smtpFrom: "noreply@shop.local",
		sendMail: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			if sendErr != nil {
				return sendErr
			}
			sent = append(sent, sentMail{addr, from, to, string(msg)})
			return nil
		},
	}
	return svc, &sent
}

func TestSendPaymentReceipt(t *testing.T) {
	svc, sent := newTestService(nil)

	err := svc.SendPaymentReceipt(context.Background(), PaymentReceiptData{
		Email:       "ada@example.com",
		FirstName:   "Ada",
		OrderID:     "1234",
		Reference:   "CR-abc",
		Total:       decimal.RequireFromString("1500.5"),
		Currency:    "NGN",
		ConfirmedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "localhost:1025", mail.addr)
	assert.Equal(t, "noreply@shop.local", mail.from)
	assert.Equal(t, []string{"ada@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Payment received for order 1234\r\n")
	assert.Contains(t, mail.msg, "Content-Type: text/plain")
	assert.Contains(t, mail.msg, "Hi Ada,")
	assert.Contains(t, mail.msg, "Amount: 1500.50 NGN")
	assert.Contains(t, mail.msg, "Payment reference: CR-abc")
	assert.Contains(t, mail.msg, "2026-03-01 10:30 UTC")
}

func TestSendEmail_Errors(t *testing.T) {
	t.Run("no recipients", func(t *testing.T) {
		svc, sent := newTestService(nil)
		assert.Error(t, svc.SendEmail(context.Background(), EmailRequest{Subject: "x"}))
		assert.Empty(t, *sent)
	})

	t.Run("smtp failure", func(t *testing.T) {
		svc, _ := newTestService(errors.New("connection refused"))
		err := svc.SendEmail(context.Background(), EmailRequest{To: []string{"a@b.c"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("cancelled context", func(t *testing.T) {
		svc, sent := newTestService(nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, svc.SendEmail(ctx, EmailRequest{To: []string{"a@b.c"}}), context.Canceled)
		assert.Empty(t, *sent)
	})
}

func TestBuildMessage_HTML(t *testing.T) {
	msg := string(buildMessage("from@x.y", EmailRequest{To: []string{"a@b.c", "d@e.f"}, Subject: "Hi", Body: "<p>x</p>", IsHTML: true}))
	assert.Contains(t, msg, "To: a@b.c, d@e.f\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "\r\n\r\n<p>x</p>")
}
