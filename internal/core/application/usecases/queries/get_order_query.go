// Package queries contains read-side operations of the CQRS split. Queries
// bypass the domain model and read the order tables directly with raw SQL;
// writes go through commands and the repository.
package queries

import (
	"errors"
	"time"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the full state of one order: the order row, every
// line (cancelled ones included), and the payment transaction if present.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	detail, err := handler.Handle(ctx, query)
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query to retrieve one order's full state.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the targeted order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderItemResponse represents one order line in the read model. Cancelled
// lines are kept so clients can render the strikethrough history.
type OrderItemResponse struct {
	ID          kernel.UUID
	MenuItemID  *kernel.UUID
	Quantity    int
	Subtotal    int
	IsCancelled bool
}

// OrderTransactionResponse represents the payment attempt in the read model.
type OrderTransactionResponse struct {
	ID          kernel.UUID
	ExternalRef string
	Amount      int
	Currency    string
	Method      string
	Status      string
}

// GetOrderQueryResponse is the full-state read model of one order. Total is
// derived from the live lines at read time; it is never stored.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	VenueID       kernel.UUID
	CustomerID    kernel.UUID
	TableID       *kernel.UUID
	Status        string
	IsCancelled   bool
	HasAddedItems bool
	Total         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItemResponse
	Transaction   *OrderTransactionResponse
}

// IsPaid reports whether the order has a confirmed payment.
func (r GetOrderQueryResponse) IsPaid() bool {
	return r.Transaction != nil && r.Transaction.Status == "success"
}
