package email

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentReceiptData is what the receipt email is rendered from
type PaymentReceiptData struct {
	Email       string
	FirstName   string
	OrderID     string
	Reference   string
	Total       decimal.Decimal
	Currency    string
	ConfirmedAt time.Time
}

type EmailRequest struct {
	To      []string // Recipients
	Subject string
	Body    string
	IsHTML  bool
}
