package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	orderModel "cashonrails-backend/internal/domains/order/model"
	"cashonrails-backend/internal/domains/payment/model"
	subModel "cashonrails-backend/internal/domains/subscription/model"
)

// =====================================================
// IN-MEMORY ORDER STORE
// =====================================================

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*orderModel.Order
	notes  map[uuid.UUID][]string

	metaWrites    int
	markPaidCalls int
	getErr        error
	saveMetaErr   error
	addNoteErr    error

	// beforeMarkPaid runs outside the mutex, to widen race windows in tests
	beforeMarkPaid func()
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[uuid.UUID]*orderModel.Order),
		notes:  make(map[uuid.UUID][]string),
	}
}

func (f *fakeOrderStore) add(o *orderModel.Order) *orderModel.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o.Meta == nil {
		o.Meta = make(map[string]string)
	}
	f.orders[o.ID] = o
	return o
}

func (f *fakeOrderStore) snapshot(id uuid.UUID) orderModel.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := *f.orders[id]
	o.Meta = make(map[string]string, len(f.orders[id].Meta))
	for k, v := range f.orders[id].Meta {
		o.Meta[k] = v
	}
	return o
}

func (f *fakeOrderStore) notesFor(id uuid.UUID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.notes[id]...)
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*orderModel.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, orderModel.ErrOrderNotFound
	}
	cp := *o
	cp.Meta = make(map[string]string, len(o.Meta))
	for k, v := range o.Meta {
		cp.Meta[k] = v
	}
	return &cp, nil
}

func (f *fakeOrderStore) FindByMeta(ctx context.Context, key, value string) (*orderModel.Order, error) {
	f.mu.Lock()
	var found uuid.UUID
	for id, o := range f.orders {
		if o.Meta[key] == value {
			found = id
			break
		}
	}
	f.mu.Unlock()

	if found == uuid.Nil {
		return nil, orderModel.ErrOrderNotFound
	}
	return f.GetByID(ctx, found)
}

func (f *fakeOrderStore) GetStatus(ctx context.Context, id uuid.UUID) (orderModel.OrderStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return "", orderModel.ErrOrderNotFound
	}
	return o.Status, nil
}

func (f *fakeOrderStore) SaveMeta(ctx context.Context, id uuid.UUID, meta map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveMetaErr != nil {
		return f.saveMetaErr
	}
	o, ok := f.orders[id]
	if !ok {
		return orderModel.ErrOrderNotFound
	}
	f.metaWrites++
	for k, v := range meta {
		o.Meta[k] = v
	}
	return nil
}

func (f *fakeOrderStore) MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (bool, error) {
	if f.beforeMarkPaid != nil {
		f.beforeMarkPaid()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.markPaidCalls++
	o, ok := f.orders[id]
	if !ok {
		return false, orderModel.ErrOrderNotFound
	}
	if o.Status.IsPaid() {
		return false, nil
	}
	now := time.Now()
	o.Status = orderModel.OrderStatusProcessing
	o.TransactionID = &transactionID
	o.PaidAt = &now
	return true, nil
}

func (f *fakeOrderStore) AddNote(ctx context.Context, id uuid.UUID, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addNoteErr != nil {
		return f.addNoteErr
	}
	f.notes[id] = append(f.notes[id], note)
	return nil
}

func (f *fakeOrderStore) ListNotes(ctx context.Context, id uuid.UUID) ([]orderModel.OrderNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []orderModel.OrderNote
	for _, n := range f.notes[id] {
		out = append(out, orderModel.OrderNote{ID: uuid.New(), OrderID: id, Note: n})
	}
	return out, nil
}

// =====================================================
// IN-MEMORY SUBSCRIPTION STORE
// =====================================================

type fakeSubscriptionStore struct {
	mu    sync.Mutex
	subs  map[uuid.UUID]*subModel.Subscription
	notes map[uuid.UUID][]string

	activateCalls int
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{
		subs:  make(map[uuid.UUID]*subModel.Subscription),
		notes: make(map[uuid.UUID][]string),
	}
}

func (f *fakeSubscriptionStore) add(orderID uuid.UUID, rel subModel.Relation, status subModel.Status) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.subs[id] = &subModel.Subscription{ID: id, OrderID: orderID, Relation: rel, Status: status}
	return id
}

func (f *fakeSubscriptionStore) status(id uuid.UUID) subModel.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[id].Status
}

func (f *fakeSubscriptionStore) notesFor(id uuid.UUID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.notes[id]...)
}

func (f *fakeSubscriptionStore) ListByOrder(ctx context.Context, orderID uuid.UUID, relations ...subModel.Relation) ([]subModel.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []subModel.Subscription
	for _, s := range f.subs {
		if s.OrderID != orderID {
			continue
		}
		for _, rel := range relations {
			if s.Relation == rel {
				out = append(out, *s)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeSubscriptionStore) Activate(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activateCalls++
	s, ok := f.subs[id]
	if !ok {
		return false, fmt.Errorf("subscription %s not found", id)
	}
	if !s.CanActivate() {
		return false, nil
	}
	now := time.Now()
	s.Status = subModel.StatusActive
	s.LastPaymentAt = &now
	return true, nil
}

func (f *fakeSubscriptionStore) AddNote(ctx context.Context, id uuid.UUID, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[id] = append(f.notes[id], note)
	return nil
}

// =====================================================
// EVENT RECORDER
// =====================================================

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.PaymentCompleteEvent
	err    error
}

func (p *recordingPublisher) PublishPaymentComplete(ctx context.Context, event model.PaymentCompleteEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) published() []model.PaymentCompleteEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.PaymentCompleteEvent(nil), p.events...)
}

// =====================================================
// FIXTURES
// =====================================================

func newPendingOrder(total string) *orderModel.Order {
	return &orderModel.Order{
		ID:               uuid.New(),
		BillingEmail:     "ada@example.com",
		BillingFirstName: "Ada",
		BillingLastName:  "Lovelace",
		BillingPhone:     "+2348000000000",
		Total:            decimal.RequireFromString(total),
		Currency:         "USD",
		Status:           orderModel.OrderStatusPending,
		Meta:             map[string]string{},
	}
}
