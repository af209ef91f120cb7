package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	orderModel "cashonrails-backend/internal/domains/order/model"
	orderRepo "cashonrails-backend/internal/domains/order/repository"
	"cashonrails-backend/internal/domains/payment/gateway"
	"cashonrails-backend/internal/domains/payment/model"
	subModel "cashonrails-backend/internal/domains/subscription/model"
	subRepo "cashonrails-backend/internal/domains/subscription/repository"
	"cashonrails-backend/internal/infrastructure/cache"
	"cashonrails-backend/pkg/logger"
)

const defaultLockTTL = 30 * time.Second

type reconciliationService struct {
	orders        orderRepo.OrderRepository
	subscriptions subRepo.SubscriptionRepository
	gateway       gateway.CashOnRailsGateway
	publisher     PaymentEventPublisher
	locker        cache.Locker
	lockTTL       time.Duration

	now func() time.Time
}

func NewReconciliationService(
	orders orderRepo.OrderRepository,
	subscriptions subRepo.SubscriptionRepository,
	gw gateway.CashOnRailsGateway,
	publisher PaymentEventPublisher,
	locker cache.Locker,
	lockTTL time.Duration,
) ReconciliationService {
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	return &reconciliationService{
		orders:        orders,
		subscriptions: subscriptions,
		gateway:       gw,
		publisher:     publisher,
		locker:        locker,
		lockTTL:       lockTTL,
		now:           time.Now,
	}
}

// =====================================================
// RETURN FLOW
// =====================================================

func (s *reconciliationService) HandleReturn(ctx context.Context, orderID uuid.UUID) (*model.ReconcileResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderModel.ErrOrderNotFound) {
			return &model.ReconcileResult{Outcome: model.OutcomeOrderNotFound}, nil
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	reference := order.GetMeta(model.MetaReference)
	if reference == "" {
		return &model.ReconcileResult{
			OrderID: order.ID,
			Outcome: model.OutcomeNoReference,
			Status:  order.Status,
		}, nil
	}

	verify, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		logger.ErrorFields("cashonrails verification unavailable", err, map[string]interface{}{
			"order_id":  order.ID,
			"reference": reference,
		})
		return s.recordFailure(ctx, order, model.OutcomeVerificationUnavailable)
	}

	if !verify.IsSuccessful() {
		logger.Warn("cashonrails payment not successful on return", map[string]interface{}{
			"order_id":  order.ID,
			"reference": reference,
			"accepted":  verify.Accepted,
			"status":    verify.Status,
		})
		return s.recordFailure(ctx, order, model.OutcomeNotSuccessful)
	}

	return s.confirm(ctx, order, reference, model.SourceReturn)
}

// =====================================================
// WEBHOOK FLOW
// =====================================================

func (s *reconciliationService) HandleWebhook(ctx context.Context, reference, status string) (*model.ReconcileResult, error) {
	order, err := s.orders.FindByMeta(ctx, model.MetaReference, reference)
	if err != nil {
		if errors.Is(err, orderModel.ErrOrderNotFound) {
			logger.Info("cashonrails webhook for unknown reference", map[string]interface{}{
				"reference": reference,
				"status":    status,
			})
			return &model.ReconcileResult{Outcome: model.OutcomeOrderNotFound}, nil
		}
		return nil, fmt.Errorf("failed to find order by reference: %w", err)
	}

	if status != model.TransactionStatusSuccess {
		logger.Warn("cashonrails webhook reported non-success status", map[string]interface{}{
			"order_id":  order.ID,
			"reference": reference,
			"status":    status,
		})
		return s.recordFailure(ctx, order, model.OutcomeNotSuccessful)
	}

	return s.confirm(ctx, order, reference, model.SourceWebhook)
}

// =====================================================
// CONFIRMATION
// =====================================================

// confirm applies the paid transition at most once per order. The lock keeps
// concurrent signals for the same reference apart. MarkPaid is conditional
// on the status, so effects still run once if the lock could not be taken.
func (s *reconciliationService) confirm(
	ctx context.Context,
	order *orderModel.Order,
	reference string,
	source model.Source,
) (*model.ReconcileResult, error) {
	unlock, err := s.locker.Lock(ctx, "cashonrails:"+reference, s.lockTTL)
	if err != nil {
		logger.Warn("confirmation lock unavailable, relying on conditional update", map[string]interface{}{
			"order_id":  order.ID,
			"reference": reference,
			"error":     err.Error(),
		})
		unlock = func() {}
	}
	defer unlock()

	current, err := s.orders.GetStatus(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read order status: %w", err)
	}
	if current.IsPaid() {
		return &model.ReconcileResult{
			OrderID: order.ID,
			Outcome: model.OutcomeAlreadyConfirmed,
			Status:  current,
		}, nil
	}

	applied, err := s.orders.MarkPaid(ctx, order.ID, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}
	if !applied {
		current, err = s.orders.GetStatus(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read order status: %w", err)
		}
		return &model.ReconcileResult{
			OrderID: order.ID,
			Outcome: model.OutcomeAlreadyConfirmed,
			Status:  current,
		}, nil
	}

	// The order is paid from here on. Remaining effects are logged on
	// failure and never undo the transition.
	if err := s.orders.AddNote(ctx, order.ID, source.ConfirmationNote()); err != nil {
		logger.ErrorFields("failed to add confirmation note", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}

	activated := s.activateSubscriptions(ctx, order.ID)

	event := model.PaymentCompleteEvent{
		OrderID:                order.ID,
		Reference:              reference,
		Source:                 source,
		Email:                  order.BillingEmail,
		FirstName:              order.BillingFirstName,
		Total:                  order.Total,
		Currency:               order.Currency,
		ActivatedSubscriptions: activated,
		ConfirmedAt:            s.now().UTC(),
	}
	if err := s.publisher.PublishPaymentComplete(ctx, event); err != nil {
		logger.ErrorFields("failed to publish payment complete event", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}

	logger.Info("cashonrails payment confirmed", map[string]interface{}{
		"order_id":                order.ID,
		"reference":               reference,
		"source":                  source,
		"activated_subscriptions": len(activated),
	})

	return &model.ReconcileResult{
		OrderID: order.ID,
		Outcome: model.OutcomeConfirmed,
		Status:  orderModel.OrderStatusProcessing,
	}, nil
}

// activateSubscriptions moves pending and on-hold subscriptions of the order
// to active. Others are skipped without a note.
func (s *reconciliationService) activateSubscriptions(ctx context.Context, orderID uuid.UUID) []uuid.UUID {
	subs, err := s.subscriptions.ListByOrder(ctx, orderID, subModel.PaymentRelations...)
	if err != nil {
		logger.ErrorFields("failed to list subscriptions for order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil
	}

	var activated []uuid.UUID
	for _, sub := range subs {
		if !sub.CanActivate() {
			continue
		}

		ok, err := s.subscriptions.Activate(ctx, sub.ID)
		if err != nil {
			logger.ErrorFields("failed to activate subscription", err, map[string]interface{}{
				"order_id":        orderID,
				"subscription_id": sub.ID,
			})
			continue
		}
		if !ok {
			continue
		}

		if err := s.subscriptions.AddNote(ctx, sub.ID, model.NoteSubscriptionActive); err != nil {
			logger.ErrorFields("failed to add subscription note", err, map[string]interface{}{
				"subscription_id": sub.ID,
			})
		}
		activated = append(activated, sub.ID)
	}

	return activated
}

// =====================================================
// FAILURE
// =====================================================

// recordFailure notes a failed or unknown payment. The order status is left
// untouched so a later success can still confirm it. A note that cannot be
// written is logged; the outcome is still reported.
func (s *reconciliationService) recordFailure(
	ctx context.Context,
	order *orderModel.Order,
	outcome model.Outcome,
) (*model.ReconcileResult, error) {
	if err := s.orders.AddNote(ctx, order.ID, model.NoteVerificationFailed); err != nil {
		logger.ErrorFields("failed to add verification failure note", err, map[string]interface{}{
			"order_id": order.ID,
			"outcome":  outcome,
		})
	}

	return &model.ReconcileResult{
		OrderID: order.ID,
		Outcome: outcome,
		Status:  order.Status,
	}, nil
}
