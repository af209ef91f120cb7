package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cashonrails-backend/internal/domains/payment/model"
	"cashonrails-backend/internal/domains/payment/service"
	res "cashonrails-backend/internal/shared/response"
	"cashonrails-backend/pkg/logger"
)

// maxWebhookBody caps the webhook payload size
const maxWebhookBody = 1 << 20

// =====================================================
// PAYMENT HANDLER STRUCT
// =====================================================

type PaymentHandler struct {
	checkoutService       service.CheckoutService
	reconciliationService service.ReconciliationService
	webhookMarker         string
}

// NewPaymentHandler creates new payment handler
func NewPaymentHandler(
	checkoutService service.CheckoutService,
	reconciliationService service.ReconciliationService,
	webhookMarker string,
) *PaymentHandler {
	if webhookMarker == "" {
		webhookMarker = model.DefaultWebhookMarker
	}
	return &PaymentHandler{
		checkoutService:       checkoutService,
		reconciliationService: reconciliationService,
		webhookMarker:         webhookMarker,
	}
}

// =====================================================
// CHECKOUT
// =====================================================

// Checkout starts a CashOnRails hosted checkout for the order
// POST /api/v1/orders/:order_id/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		res.ErrorResponse(c, http.StatusBadRequest, "INVALID_ORDER_ID", "Invalid order ID")
		return
	}

	response, err := h.checkoutService.InitiateCheckout(c.Request.Context(), orderID)
	if err != nil {
		statusCode, errCode, message := mapPaymentError(err)
		if statusCode >= http.StatusInternalServerError {
			logger.ErrorFields("checkout failed", err, map[string]interface{}{
				"order_id":   orderID,
				"request_id": c.GetString("request_id"),
			})
		}
		res.ErrorResponse(c, statusCode, errCode, message)
		return
	}

	res.Success(c, http.StatusOK, response)
}

// =====================================================
// RETURN FLOW
// =====================================================

// Return verifies the payment when the shopper lands back on the store.
// Verification problems never surface as errors here: the shopper gets the
// order status and the outcome.
// GET /api/v1/payments/cashonrails/return?order_id=
func (h *PaymentHandler) Return(c *gin.Context) {
	orderID, err := uuid.Parse(c.Query("order_id"))
	if err != nil {
		res.ErrorResponse(c, http.StatusBadRequest, "INVALID_ORDER_ID", "Invalid order ID")
		return
	}

	result, err := h.reconciliationService.HandleReturn(c.Request.Context(), orderID)
	if err != nil {
		logger.ErrorFields("return flow reconciliation failed", err, map[string]interface{}{
			"order_id":   orderID,
			"request_id": c.GetString("request_id"),
		})
		res.ErrorResponse(c, http.StatusInternalServerError, model.ErrCodeInternalError, "Could not check payment status")
		return
	}

	res.Success(c, http.StatusOK, model.ReturnResponse{
		OrderID: orderID,
		Status:  result.Status,
		Outcome: result.Outcome,
		Paid:    result.Status.IsPaid(),
	})
}

// =====================================================
// WEBHOOK
// =====================================================

// WebhookInterceptor is registered globally: CashOnRails posts to any URL
// carrying the marker query parameter. Other requests pass through.
// Only 400 "Invalid payload" and 200 "OK" are ever produced.
func (h *PaymentHandler) WebhookInterceptor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if _, ok := c.GetQuery(h.webhookMarker); !ok {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)

		var req model.WebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.rejectWebhook(c, err)
			return
		}
		if err := req.Validate(); err != nil {
			h.rejectWebhook(c, err)
			return
		}

		reference, status := req.ReferenceText(), req.StatusText()
		result, err := h.reconciliationService.HandleWebhook(c.Request.Context(), reference, status)
		if err != nil {
			logger.ErrorFields("webhook reconciliation failed", err, map[string]interface{}{
				"reference":  reference,
				"status":     status,
				"request_id": c.GetString("request_id"),
			})
		} else {
			logger.Info("webhook processed", map[string]interface{}{
				"reference": reference,
				"status":    status,
				"outcome":   result.Outcome,
			})
		}

		c.String(http.StatusOK, "OK")
		c.Abort()
	}
}

func (h *PaymentHandler) rejectWebhook(c *gin.Context, err error) {
	logger.Warn("invalid webhook payload", map[string]interface{}{
		"error":      err.Error(),
		"request_id": c.GetString("request_id"),
	})
	c.String(http.StatusBadRequest, "Invalid payload")
	c.Abort()
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// mapPaymentError maps service errors to HTTP status, error code and the
// message shown to the client.
func mapPaymentError(err error) (statusCode int, errorCode string, message string) {
	var paymentErr *model.PaymentError
	if !errors.As(err, &paymentErr) {
		return http.StatusInternalServerError, model.ErrCodeInternalError, "Internal server error"
	}

	switch paymentErr.Code {
	case model.ErrCodeOrderNotFound:
		statusCode = http.StatusNotFound
	case model.ErrCodeOrderAlreadyPaid:
		statusCode = http.StatusConflict
	case model.ErrCodeCheckoutFailed:
		statusCode = http.StatusBadGateway
	default:
		statusCode = http.StatusInternalServerError
	}

	return statusCode, paymentErr.Code, paymentErr.Message
}
