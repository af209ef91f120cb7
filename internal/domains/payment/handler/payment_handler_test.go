package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderModel "cashonrails-backend/internal/domains/order/model"
	"cashonrails-backend/internal/domains/payment/model"
)

// =====================================================
// FAKE SERVICES
// =====================================================

type fakeCheckoutService struct {
	InitiateCheckoutFn func(ctx context.Context, orderID uuid.UUID) (*model.CheckoutResponse, error)
}

func (f *fakeCheckoutService) InitiateCheckout(ctx context.Context, orderID uuid.UUID) (*model.CheckoutResponse, error) {
	return f.InitiateCheckoutFn(ctx, orderID)
}

type webhookCall struct {
	reference string
	status    string
}

type fakeReconciliationService struct {
	HandleReturnFn  func(ctx context.Context, orderID uuid.UUID) (*model.ReconcileResult, error)
	HandleWebhookFn func(ctx context.Context, reference, status string) (*model.ReconcileResult, error)

	webhookCalls []webhookCall
}

func (f *fakeReconciliationService) HandleReturn(ctx context.Context, orderID uuid.UUID) (*model.ReconcileResult, error) {
	return f.HandleReturnFn(ctx, orderID)
}

func (f *fakeReconciliationService) HandleWebhook(ctx context.Context, reference, status string) (*model.ReconcileResult, error) {
	f.webhookCalls = append(f.webhookCalls, webhookCall{reference, status})
	if f.HandleWebhookFn == nil {
		return &model.ReconcileResult{Outcome: model.OutcomeOrderNotFound}, nil
	}
	return f.HandleWebhookFn(ctx, reference, status)
}

func setupRouter(checkout *fakeCheckoutService, recon *fakeReconciliationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(checkout, recon, "")

	r := gin.New()
	r.Use(h.WebhookInterceptor())
	r.POST("/api/v1/orders/:order_id/checkout", h.Checkout)
	r.GET("/api/v1/payments/cashonrails/return", h.Return)
	r.POST("/api/v1/other", func(c *gin.Context) { c.String(http.StatusTeapot, "next") })
	return r
}

func perform(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// =====================================================
// WEBHOOK
// =====================================================

func TestWebhook_ValidPayload(t *testing.T) {
	recon := &fakeReconciliationService{}
	r := setupRouter(&fakeCheckoutService{}, recon)

	w := perform(r, http.MethodPost, "/?cashonrails-webhook", `{"reference":"CR-x","status":"success"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	require.Len(t, recon.webhookCalls, 1)
	assert.Equal(t, webhookCall{"CR-x", "success"}, recon.webhookCalls[0])
}

func TestWebhook_AnyPathWithMarker(t *testing.T) {
	recon := &fakeReconciliationService{}
	r := setupRouter(&fakeCheckoutService{}, recon)

	w := perform(r, http.MethodPost, "/shop/anything?cashonrails-webhook=1", `{"reference":"CR-x","status":"failed"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.Len(t, recon.webhookCalls, 1)
}

func TestWebhook_InvalidPayload(t *testing.T) {
	bodies := map[string]string{
		"missing reference": `{"status":"success"}`,
		"missing status":    `{"reference":"CR-x"}`,
		"null status":       `{"reference":"CR-x","status":null}`,
		"null reference":    `{"reference":null,"status":"success"}`,
		"empty object":      `{}`,
		"json array":        `[1,2]`,
		"not json":          `reference=CR-x`,
		"empty body":        ``,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			recon := &fakeReconciliationService{}
			r := setupRouter(&fakeCheckoutService{}, recon)

			w := perform(r, http.MethodPost, "/?cashonrails-webhook", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid payload", w.Body.String())
			assert.Empty(t, recon.webhookCalls)
		})
	}
}

func TestWebhook_NonStringValuesAccepted(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		expect webhookCall
	}{
		{name: "numeric status", body: `{"reference":"CR-x","status":1}`, expect: webhookCall{"CR-x", "1"}},
		{name: "boolean status", body: `{"reference":"CR-x","status":true}`, expect: webhookCall{"CR-x", "true"}},
		{name: "object status", body: `{"reference":"CR-x","status":{"state":"success"}}`, expect: webhookCall{"CR-x", `{"state":"success"}`}},
		{name: "numeric reference", body: `{"reference":42,"status":"success"}`, expect: webhookCall{"42", "success"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recon := &fakeReconciliationService{}
			r := setupRouter(&fakeCheckoutService{}, recon)

			w := perform(r, http.MethodPost, "/?cashonrails-webhook", tt.body)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "OK", w.Body.String())
			require.Len(t, recon.webhookCalls, 1)
			assert.Equal(t, tt.expect, recon.webhookCalls[0])
		})
	}
}

func TestWebhook_EngineErrorStillOK(t *testing.T) {
	recon := &fakeReconciliationService{
		HandleWebhookFn: func(ctx context.Context, reference, status string) (*model.ReconcileResult, error) {
			return nil, errors.New("db down")
		},
	}
	r := setupRouter(&fakeCheckoutService{}, recon)

	w := perform(r, http.MethodPost, "/?cashonrails-webhook", `{"reference":"CR-x","status":"success"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestWebhook_PassThrough(t *testing.T) {
	recon := &fakeReconciliationService{}
	r := setupRouter(&fakeCheckoutService{}, recon)

	// POST without marker reaches the route
	w := perform(r, http.MethodPost, "/api/v1/other", `{"reference":"CR-x","status":"success"}`)
	assert.Equal(t, http.StatusTeapot, w.Code)

	// GET with marker is ignored by the interceptor
	w = perform(r, http.MethodGet, "/api/v1/payments/cashonrails/return?cashonrails-webhook", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEqual(t, "Invalid payload", w.Body.String())

	assert.Empty(t, recon.webhookCalls)
}

// =====================================================
// CHECKOUT
// =====================================================

func TestCheckout_Success(t *testing.T) {
	orderID := uuid.New()
	checkout := &fakeCheckoutService{
		InitiateCheckoutFn: func(ctx context.Context, id uuid.UUID) (*model.CheckoutResponse, error) {
			assert.Equal(t, orderID, id)
			return &model.CheckoutResponse{Result: "success", Redirect: "https://pay.example/x", Reference: "CR-x"}, nil
		},
	}
	r := setupRouter(checkout, &fakeReconciliationService{})

	w := perform(r, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/checkout", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"result":"success","redirect":"https://pay.example/x","reference":"CR-x"}}`, w.Body.String())
}

func TestCheckout_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"gateway failure", model.NewCheckoutFailedError(&model.RemoteError{Message: "Invalid email"}), http.StatusBadGateway, model.ErrCodeCheckoutFailed, "Invalid email"},
		{"not found", model.NewOrderNotFoundError("x", orderModel.ErrOrderNotFound), http.StatusNotFound, model.ErrCodeOrderNotFound, "Order not found: x"},
		{"already paid", model.NewOrderAlreadyPaidError("x"), http.StatusConflict, model.ErrCodeOrderAlreadyPaid, "Order x is already paid"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, model.ErrCodeInternalError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkout := &fakeCheckoutService{
				InitiateCheckoutFn: func(ctx context.Context, id uuid.UUID) (*model.CheckoutResponse, error) {
					return nil, tt.err
				},
			}
			r := setupRouter(checkout, &fakeReconciliationService{})

			w := perform(r, http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/checkout", "")

			assert.Equal(t, tt.status, w.Code)
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.msg, body.Error.Message)
		})
	}
}

func TestCheckout_InvalidOrderID(t *testing.T) {
	r := setupRouter(&fakeCheckoutService{}, &fakeReconciliationService{})

	w := perform(r, http.MethodPost, "/api/v1/orders/not-a-uuid/checkout", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================
// RETURN
// =====================================================

func TestReturn(t *testing.T) {
	orderID := uuid.New()

	t.Run("confirmed", func(t *testing.T) {
		recon := &fakeReconciliationService{
			HandleReturnFn: func(ctx context.Context, id uuid.UUID) (*model.ReconcileResult, error) {
				return &model.ReconcileResult{OrderID: id, Outcome: model.OutcomeConfirmed, Status: orderModel.OrderStatusProcessing}, nil
			},
		}
		r := setupRouter(&fakeCheckoutService{}, recon)

		w := perform(r, http.MethodGet, "/api/v1/payments/cashonrails/return?order_id="+orderID.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":{"order_id":"`+orderID.String()+`","status":"processing","outcome":"confirmed","paid":true}}`, w.Body.String())
	})

	t.Run("verification unavailable still 200", func(t *testing.T) {
		recon := &fakeReconciliationService{
			HandleReturnFn: func(ctx context.Context, id uuid.UUID) (*model.ReconcileResult, error) {
				return &model.ReconcileResult{OrderID: id, Outcome: model.OutcomeVerificationUnavailable, Status: orderModel.OrderStatusPending}, nil
			},
		}
		r := setupRouter(&fakeCheckoutService{}, recon)

		w := perform(r, http.MethodGet, "/api/v1/payments/cashonrails/return?order_id="+orderID.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"paid":false`)
	})

	t.Run("invalid order id", func(t *testing.T) {
		r := setupRouter(&fakeCheckoutService{}, &fakeReconciliationService{})

		w := perform(r, http.MethodGet, "/api/v1/payments/cashonrails/return?order_id=abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
