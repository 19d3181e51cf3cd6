package order

import (
	"context"
	"errors"
)

// Status enumerates the order lifecycle states the bridge transitions between.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// MetaUniqueID is the metadata key the correlation id is persisted under.
const MetaUniqueID = "_fenanpay_unique_id"

// ErrNotFound is returned when an order id does not resolve.
var ErrNotFound = errors.New("order not found")

// Order is the slice of an order record the payment flow needs. The order
// system owns the full record; the bridge only reads billing details and
// moves the status. The ID doubles as the order number the provider sees
// inside the correlation id, so there is no separate number to drift.
type Order struct {
	ID           int64
	Status       Status
	TotalCents   int64
	BillingName  string
	BillingEmail string
	BillingPhone string
}

// Paid reports whether the order already reached a paid state. Used as the
// idempotence guard when duplicate confirmation webhooks arrive.
func (o Order) Paid() bool {
	return o.Status == StatusCompleted || o.Status == StatusProcessing
}

// Store is the capability set the payment flow requires from the order
// system. Implementations must treat notes as append-only.
type Store interface {
	GetOrder(ctx context.Context, id int64) (Order, error)
	// UpdateStatus moves the order to the given status and, when note is
	// non-empty, appends it to the order's note log in the same operation.
	UpdateStatus(ctx context.Context, id int64, status Status, note string) error
	AddNote(ctx context.Context, id int64, note string) error
	SetMeta(ctx context.Context, id int64, key, value string) error
}

// CartClearer empties any in-progress cart tied to an order once the
// customer has been handed off to the payment page.
type CartClearer interface {
	Clear(ctx context.Context, orderID int64) error
}
