package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cashonrails-backend/internal/domains/order/model"
	"cashonrails-backend/internal/domains/order/repository"
	subModel "cashonrails-backend/internal/domains/subscription/model"
	subRepo "cashonrails-backend/internal/domains/subscription/repository"
)

type orderService struct {
	orderRepo repository.OrderRepository
	subRepo   subRepo.SubscriptionRepository
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	subRepo subRepo.SubscriptionRepository,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		subRepo:   subRepo,
	}
}

// =====================================================
// GET PAYMENT STATUS
// =====================================================

// GetPaymentStatus assembles the order status, its audit notes and the
// subscriptions the payment covers. Returns model.ErrOrderNotFound.
func (s *orderService) GetPaymentStatus(ctx context.Context, orderID uuid.UUID) (*model.PaymentStatusResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	notes, err := s.orderRepo.ListNotes(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order notes: %w", err)
	}

	subs, err := s.subRepo.ListByOrder(ctx, orderID, subModel.PaymentRelations...)
	if err != nil {
		return nil, fmt.Errorf("list order subscriptions: %w", err)
	}

	resp := &model.PaymentStatusResponse{
		OrderID:       order.ID,
		Status:        order.Status,
		Paid:          order.IsPaid(),
		Total:         order.Total,
		Currency:      order.Currency,
		TransactionID: order.TransactionID,
		PaidAt:        order.PaidAt,
		Notes:         make([]model.NoteResponse, 0, len(notes)),
	}

	for _, n := range notes {
		resp.Notes = append(resp.Notes, model.NoteResponse{Note: n.Note, CreatedAt: n.CreatedAt})
	}

	for _, sub := range subs {
		resp.Subscriptions = append(resp.Subscriptions, model.SubscriptionStatusItem{
			ID:       sub.ID,
			Relation: string(sub.Relation),
			Status:   string(sub.Status),
		})
	}

	return resp, nil
}
