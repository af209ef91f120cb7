package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	orderModel "cashonrails-backend/internal/domains/order/model"
	orderRepo "cashonrails-backend/internal/domains/order/repository"
	"cashonrails-backend/internal/domains/payment/gateway"
	"cashonrails-backend/internal/domains/payment/model"
	"cashonrails-backend/pkg/logger"
)

// CheckoutConfig carries the merchant settings used to open a checkout.
type CheckoutConfig struct {
	Currency  string
	ReturnURL string
	LogoURL   string
}

type checkoutService struct {
	orders  orderRepo.OrderRepository
	gateway gateway.CashOnRailsGateway
	config  CheckoutConfig

	newReference func() string
}

func NewCheckoutService(
	orders orderRepo.OrderRepository,
	gw gateway.CashOnRailsGateway,
	config CheckoutConfig,
) CheckoutService {
	return &checkoutService{
		orders:       orders,
		gateway:      gw,
		config:       config,
		newReference: NewReference,
	}
}

// =====================================================
// INITIATE CHECKOUT
// =====================================================

// InitiateCheckout
//
// Flow:
// 1. Load order, reject if already paid
// 2. Create remote customer
// 3. Reuse the stored reference, or generate one on first checkout
// 4. Initialize hosted checkout
// 5. Persist customer code (and a new reference) in one write
func (s *checkoutService) InitiateCheckout(ctx context.Context, orderID uuid.UUID) (*model.CheckoutResponse, error) {
	// Step 1: Load order
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderModel.ErrOrderNotFound) {
			return nil, model.NewOrderNotFoundError(orderID.String(), err)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if order.IsPaid() {
		return nil, model.NewOrderAlreadyPaidError(orderID.String())
	}

	// Step 2: Create customer
	customerCode, err := s.gateway.CreateCustomer(ctx, gateway.CustomerRequest{
		Email:     order.BillingEmail,
		FirstName: order.BillingFirstName,
		LastName:  order.BillingLastName,
		Phone:     order.BillingPhone,
	})
	if err != nil {
		logger.ErrorFields("cashonrails create customer failed", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, model.NewCheckoutFailedError(err)
	}

	// Step 3: Reference. Once stored it never changes, so a payment made on
	// an earlier checkout link still matches the order.
	reference := order.GetMeta(model.MetaReference)
	isNewReference := reference == ""
	if isNewReference {
		reference = s.newReference()
	}

	// Step 4: Initialize transaction
	authURL, err := s.gateway.InitializeTransaction(ctx, gateway.InitializeRequest{
		Email:        order.BillingEmail,
		Amount:       order.Total.StringFixed(2),
		Currency:     s.config.Currency,
		Reference:    reference,
		CustomerCode: customerCode,
		RedirectURL:  s.returnURL(orderID),
		LogoURL:      s.config.LogoURL,
	})
	if err != nil {
		logger.ErrorFields("cashonrails initialize transaction failed", err, map[string]interface{}{
			"order_id":  orderID,
			"reference": reference,
		})
		return nil, model.NewCheckoutFailedError(err)
	}

	// Step 5: Persist metadata
	meta := map[string]string{
		model.MetaCustomerCode: customerCode,
	}
	if isNewReference {
		meta[model.MetaReference] = reference
	}
	if err := s.orders.SaveMeta(ctx, orderID, meta); err != nil {
		return nil, fmt.Errorf("failed to save payment reference: %w", err)
	}

	logger.Info("cashonrails checkout initialized", map[string]interface{}{
		"order_id":      orderID,
		"reference":     reference,
		"new_reference": isNewReference,
		"amount":        order.Total.StringFixed(2),
		"currency":      s.config.Currency,
	})

	return &model.CheckoutResponse{
		Result:    "success",
		Redirect:  authURL,
		Reference: reference,
	}, nil
}

// returnURL appends order_id to the configured return page, keeping any
// query it already has.
func (s *checkoutService) returnURL(orderID uuid.UUID) string {
	u, err := url.Parse(s.config.ReturnURL)
	if err != nil {
		return s.config.ReturnURL
	}
	q := u.Query()
	q.Set("order_id", orderID.String())
	u.RawQuery = q.Encode()
	return u.String()
}
