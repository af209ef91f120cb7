package repository

import (
	"context"

	"github.com/google/uuid"

	"cashonrails-backend/internal/domains/order/model"
)

// =====================================================
// ORDER REPOSITORY INTERFACE
// =====================================================
type OrderRepository interface {
	// GetByID loads the order with its metadata. Returns model.ErrOrderNotFound.
	GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// FindByMeta returns the first order whose metadata key holds value.
	FindByMeta(ctx context.Context, key, value string) (*model.Order, error)

	// GetStatus reads the current status without loading the whole order.
	GetStatus(ctx context.Context, orderID uuid.UUID) (model.OrderStatus, error)

	// SaveMeta upserts all entries in a single transaction.
	SaveMeta(ctx context.Context, orderID uuid.UUID, meta map[string]string) error

	// MarkPaid moves the order to processing and records the transaction id,
	// unless it is already in a paid status. Reports whether the update applied.
	MarkPaid(ctx context.Context, orderID uuid.UUID, transactionID string) (bool, error)

	AddNote(ctx context.Context, orderID uuid.UUID, note string) error
	ListNotes(ctx context.Context, orderID uuid.UUID) ([]model.OrderNote, error)
}
