package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cashonrails-backend/internal/domains/subscription/model"
)

type postgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &postgresSubscriptionRepository{pool: pool}
}

func (r *postgresSubscriptionRepository) ListByOrder(ctx context.Context, orderID uuid.UUID, relations ...model.Relation) ([]model.Subscription, error) {
	if len(relations) == 0 {
		relations = model.PaymentRelations
	}

	rels := make([]string, len(relations))
	for i, rel := range relations {
		rels[i] = string(rel)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, relation, status, last_payment_at, created_at, updated_at
		FROM subscriptions
		WHERE order_id = $1 AND relation = ANY($2)
		ORDER BY created_at ASC
	`, orderID, rels)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions by order: %w", err)
	}

	subs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Subscription, error) {
		var s model.Subscription
		err := row.Scan(&s.ID, &s.OrderID, &s.Relation, &s.Status, &s.LastPaymentAt, &s.CreatedAt, &s.UpdatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscriptions: %w", err)
	}

	return subs, nil
}

func (r *postgresSubscriptionRepository) Activate(ctx context.Context, subscriptionID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE subscriptions
		SET status = $2,
			last_payment_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
		  AND status IN ($3, $4)
	`,
		subscriptionID,
		model.StatusActive,
		model.StatusPending,
		model.StatusOnHold,
	)
	if err != nil {
		return false, fmt.Errorf("failed to activate subscription: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *postgresSubscriptionRepository) AddNote(ctx context.Context, subscriptionID uuid.UUID, note string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO subscription_notes (id, subscription_id, note) VALUES ($1, $2, $3)`,
		uuid.New(), subscriptionID, note,
	)
	if err != nil {
		return fmt.Errorf("failed to add subscription note: %w", err)
	}
	return nil
}
