package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cashonrails-backend/internal/domains/order/model"
	"cashonrails-backend/pkg/database"
	"cashonrails-backend/pkg/logger"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{
		pool: pool,
	}
}

const selectOrderColumns = `
	SELECT
		id, billing_email, billing_first_name, billing_last_name, billing_phone,
		total, currency, status, transaction_id, paid_at,
		created_at, updated_at
	FROM orders
`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.BillingEmail,
		&order.BillingFirstName,
		&order.BillingLastName,
		&order.BillingPhone,
		&order.Total,
		&order.Currency,
		&order.Status,
		&order.TransactionID,
		&order.PaidAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// =====================================================
// ORDER QUERIES
// =====================================================

func (r *postgresOrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, selectOrderColumns+` WHERE id = $1`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by id: %w", err)
	}

	if order.Meta, err = r.loadMeta(ctx, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *postgresOrderRepository) FindByMeta(ctx context.Context, key, value string) (*model.Order, error) {
	if key == "" {
		return nil, model.ErrMetaKeyEmpty
	}

	query := selectOrderColumns + `
		WHERE id = (
			SELECT order_id FROM order_meta
			WHERE meta_key = $1 AND meta_value = $2
			ORDER BY order_id
			LIMIT 1
		)
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, key, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by meta %s: %w", key, err)
	}

	if order.Meta, err = r.loadMeta(ctx, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *postgresOrderRepository) GetStatus(ctx context.Context, orderID uuid.UUID) (model.OrderStatus, error) {
	var status model.OrderStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrOrderNotFound
		}
		return "", fmt.Errorf("failed to get order status: %w", err)
	}
	return status, nil
}

func (r *postgresOrderRepository) loadMeta(ctx context.Context, orderID uuid.UUID) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT meta_key, meta_value FROM order_meta WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan order meta: %w", err)
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order meta: %w", err)
	}

	return meta, nil
}

// =====================================================
// ORDER MUTATIONS
// =====================================================

func (r *postgresOrderRepository) SaveMeta(ctx context.Context, orderID uuid.UUID, meta map[string]string) error {
	for key := range meta {
		if key == "" {
			return model.ErrMetaKeyEmpty
		}
	}

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE orders SET updated_at = NOW() WHERE id = $1`, orderID)
		if err != nil {
			return fmt.Errorf("failed to touch order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrOrderNotFound
		}

		batch := &pgx.Batch{}
		for key, value := range meta {
			batch.Queue(`
				INSERT INTO order_meta (order_id, meta_key, meta_value)
				VALUES ($1, $2, $3)
				ON CONFLICT (order_id, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value
			`, orderID, key, value)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save order meta: %w", err)
		}
		return nil
	})
}

func (r *postgresOrderRepository) MarkPaid(ctx context.Context, orderID uuid.UUID, transactionID string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2,
			transaction_id = $3,
			paid_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
		  AND status NOT IN ($4, $5)
	`

	tag, err := r.pool.Exec(ctx, query,
		orderID,
		model.OrderStatusProcessing,
		transactionID,
		model.OrderStatusProcessing,
		model.OrderStatusCompleted,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	if tag.RowsAffected() == 1 {
		logger.Info("order marked paid", map[string]interface{}{
			"order_id":       orderID,
			"transaction_id": transactionID,
		})
		return true, nil
	}

	// Nothing updated: either already paid or the order does not exist.
	if _, err := r.GetStatus(ctx, orderID); err != nil {
		return false, err
	}
	return false, nil
}

func (r *postgresOrderRepository) AddNote(ctx context.Context, orderID uuid.UUID, note string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO order_notes (id, order_id, note) VALUES ($1, $2, $3)`,
		uuid.New(), orderID, note,
	)
	if err != nil {
		return fmt.Errorf("failed to add order note: %w", err)
	}
	return nil
}

func (r *postgresOrderRepository) ListNotes(ctx context.Context, orderID uuid.UUID) ([]model.OrderNote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, note, created_at
		FROM order_notes
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order notes: %w", err)
	}

	notes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.OrderNote, error) {
		var n model.OrderNote
		err := row.Scan(&n.ID, &n.OrderID, &n.Note, &n.CreatedAt)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan order notes: %w", err)
	}

	return notes, nil
}
