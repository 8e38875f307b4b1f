package ports

import (
	"context"
	"time"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The aggregate (order, lines, transaction) is always loaded and stored as a
// whole so lifecycle decisions never act on a torn snapshot.
type OrderRepository interface {
	// Add persists a new order aggregate to storage, including its lines.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate: the order row,
	// every line, and the transaction. A transaction discarded from the
	// aggregate is deleted from storage.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier in a single
	// consistent load. Inside a unit of work the order row is locked for the
	// duration of the transaction, which serializes concurrent lifecycle
	// operations per order id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Delete removes an order aggregate and its lines. Callers must check
	// order.IsDeletable first; this is the administrative cleanup path, not
	// part of the fulfillment lifecycle.
	Delete(ctx context.Context, id kernel.UUID) error

	// GetStaleDeletable retrieves orders eligible for administrative cleanup:
	// Pending or Cancelled, without payment artifacts, not updated since the
	// cutoff time.
	GetStaleDeletable(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
