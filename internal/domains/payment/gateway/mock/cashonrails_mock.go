package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"cashonrails-backend/internal/domains/payment/gateway"
	"cashonrails-backend/internal/domains/payment/model"
)

// =====================================================
// MOCK CASHONRAILS GATEWAY
// =====================================================

// MockCashOnRailsGateway answers locally. Used in development
// (CASHONRAILS_MOCK=true) and in tests.
type MockCashOnRailsGateway struct {
	mu sync.Mutex

	customerErr error
	initErr     error
	verifyErr   error

	// verify statuses per reference, "success" when unset
	statuses map[string]string

	CustomerCalls   int
	InitializeCalls int
	VerifyCalls     int
	LastInitialize  *gateway.InitializeRequest
}

func NewMockCashOnRailsGateway() *MockCashOnRailsGateway {
	return &MockCashOnRailsGateway{
		statuses: make(map[string]string),
	}
}

func (m *MockCashOnRailsGateway) CreateCustomer(ctx context.Context, req gateway.CustomerRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CustomerCalls++
	if m.customerErr != nil {
		return "", m.customerErr
	}
	return fmt.Sprintf("MOCK_CUS_%d", m.CustomerCalls), nil
}

func (m *MockCashOnRailsGateway) InitializeTransaction(ctx context.Context, req gateway.InitializeRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitializeCalls++
	reqCopy := req
	m.LastInitialize = &reqCopy
	if m.initErr != nil {
		return "", m.initErr
	}

	return fmt.Sprintf(
		"https://mock-checkout.cashonrails.com/pay?reference=%s&amount=%s&redirect=%s",
		url.QueryEscape(req.Reference),
		url.QueryEscape(req.Amount),
		url.QueryEscape(req.RedirectURL),
	), nil
}

func (m *MockCashOnRailsGateway) VerifyTransaction(ctx context.Context, reference string) (*gateway.VerifyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.VerifyCalls++
	if m.verifyErr != nil {
		return nil, &model.VerificationUnavailableError{Reference: reference, Err: m.verifyErr}
	}

	status, ok := m.statuses[reference]
	if !ok {
		status = model.TransactionStatusSuccess
	}

	raw, _ := json.Marshal(map[string]interface{}{
		"success": true,
		"data":    map[string]string{"status": status},
	})

	return &gateway.VerifyResult{
		Accepted: true,
		Status:   status,
		Raw:      raw,
	}, nil
}

// =====================================================
// TEST CONTROLS
// =====================================================

// SetCustomerError makes CreateCustomer fail with err (nil resets)
func (m *MockCashOnRailsGateway) SetCustomerError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customerErr = err
}

// SetInitializeError makes InitializeTransaction fail with err (nil resets)
func (m *MockCashOnRailsGateway) SetInitializeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initErr = err
}

// SetVerifyError makes VerifyTransaction report verification unavailable
func (m *MockCashOnRailsGateway) SetVerifyError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifyErr = err
}

// SetTransactionStatus sets the status VerifyTransaction reports for reference
func (m *MockCashOnRailsGateway) SetTransactionStatus(reference, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[reference] = status
}

// Calls returns the call counters
func (m *MockCashOnRailsGateway) Calls() (customer, initialize, verify int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CustomerCalls, m.InitializeCalls, m.VerifyCalls
}
