package cashonrails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cashonrails-backend/internal/domains/payment/gateway"
	"cashonrails-backend/internal/domains/payment/model"
	"cashonrails-backend/pkg/logger"
)

// =====================================================
// CASHONRAILS CLIENT IMPLEMENTATION
// =====================================================

type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a CashOnRails client
func NewClient(config *Config) gateway.CashOnRailsGateway {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// NewClientWithHTTP lets callers supply their own transport
func NewClientWithHTTP(config *Config, httpClient *http.Client) gateway.CashOnRailsGateway {
	return &Client{config: config, httpClient: httpClient}
}

// =====================================================
// CREATE CUSTOMER
// =====================================================

func (c *Client) CreateCustomer(ctx context.Context, req gateway.CustomerRequest) (string, error) {
	const op = "create customer"

	var env envelope[customerData]
	status, raw, err := c.do(ctx, http.MethodPost, c.config.CustomerURL(), req, &env)
	if err != nil {
		if raw != nil {
			// Answered with something that is not an envelope: no success flag.
			return "", remoteError(op, status, "")
		}
		return "", fmt.Errorf("failed to %s: %w", op, err)
	}

	if !env.ok() {
		return "", remoteError(op, status, env.Message)
	}

	if env.Data == nil || env.Data.CustomerCode == "" {
		return "", &model.MissingFieldError{Operation: op, Field: "customer_code"}
	}

	return env.Data.CustomerCode, nil
}

// =====================================================
// INITIALIZE TRANSACTION
// =====================================================

func (c *Client) InitializeTransaction(ctx context.Context, req gateway.InitializeRequest) (string, error) {
	const op = "initialize transaction"

	var env envelope[initializeData]
	status, raw, err := c.do(ctx, http.MethodPost, c.config.InitializeURL(), req, &env)
	if err != nil {
		if raw != nil {
			// Answered with something that is not an envelope: no success flag.
			return "", remoteError(op, status, "")
		}
		return "", fmt.Errorf("failed to %s: %w", op, err)
	}

	if !env.ok() {
		return "", remoteError(op, status, env.Message)
	}

	if env.Data == nil || env.Data.AuthorizationURL == "" {
		return "", &model.MissingFieldError{Operation: op, Field: "authorization_url"}
	}

	return env.Data.AuthorizationURL, nil
}

// =====================================================
// VERIFY TRANSACTION
// =====================================================

// VerifyTransaction never fails on a remote "not paid" answer: that is a
// result. Only transport and decoding problems return an error.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*gateway.VerifyResult, error) {
	var env envelope[verifyData]
	status, raw, err := c.do(ctx, http.MethodGet, c.config.VerifyURL(reference), nil, &env)
	if err != nil {
		return nil, &model.VerificationUnavailableError{Reference: reference, Err: err}
	}

	result := &gateway.VerifyResult{
		Accepted: env.ok(),
		Message:  env.Message,
		Raw:      raw,
	}
	if env.Data != nil {
		result.Status = env.Data.Status
	}

	logger.Debug(fmt.Sprintf("cashonrails verify %s: http=%d accepted=%t status=%s",
		reference, status, result.Accepted, result.Status))

	return result, nil
}

// =====================================================
// HTTP HELPERS
// =====================================================

// do sends the request and decodes the body into out whatever the HTTP status.
// CashOnRails reports failures inside the envelope, so a non-2xx status with a
// readable body is not an error here.
func (c *Client) do(ctx context.Context, method, url string, body interface{}, out interface{}) (int, json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to call CashOnRails API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, raw, fmt.Errorf("failed to unmarshal response (HTTP %d): %w", resp.StatusCode, err)
	}

	return resp.StatusCode, raw, nil
}

func remoteError(op string, status int, message string) *model.RemoteError {
	if message == "" {
		message = fmt.Sprintf("CashOnRails request failed (HTTP %d)", status)
	}
	return &model.RemoteError{Operation: op, Message: message, StatusCode: status}
}
