package repository

import (
	"context"

	"github.com/google/uuid"

	"cashonrails-backend/internal/domains/subscription/model"
)

type SubscriptionRepository interface {
	// ListByOrder returns subscriptions linked to the order through any of relations.
	ListByOrder(ctx context.Context, orderID uuid.UUID, relations ...model.Relation) ([]model.Subscription, error)

	// Activate sets the subscription active and records the payment time when it
	// is still pending or on-hold. Reports whether the update applied.
	Activate(ctx context.Context, subscriptionID uuid.UUID) (bool, error)

	AddNote(ctx context.Context, subscriptionID uuid.UUID, note string) error
}
