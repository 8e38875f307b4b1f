package queries

import (
	"errors"
	"time"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/pkg/guard"
)

var ErrGetVenueOrdersQueryIsNotConstructed = errors.New(
	"GetVenueOrdersQuery must be created via NewGetVenueOrdersQuery constructor",
)

// GetVenueOrdersQuery retrieves the staff order board for one venue, newest
// first, optionally filtered to a single status.
//
// Example:
//
//	query, err := NewGetVenueOrdersQuery(venueID, nil)
//	if err != nil {
//	    return err
//	}
//
//	board, err := handler.Handle(ctx, query)
type GetVenueOrdersQuery struct { //nolint:recvcheck //using for validation
	venueID kernel.UUID
	status  *order.Status

	guard guard.ConstructorGuard
}

// NewGetVenueOrdersQuery creates a query for a venue's order board.
// status narrows the board to one fulfillment stage; nil returns everything.
func NewGetVenueOrdersQuery(venueID kernel.UUID, status *order.Status) (GetVenueOrdersQuery, error) {
	if err := venueID.Validate(); err != nil {
		return GetVenueOrdersQuery{}, err
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetVenueOrdersQuery{}, err
		}
	}

	return GetVenueOrdersQuery{
		venueID: venueID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetVenueOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetVenueOrdersQueryIsNotConstructed)
}

// VenueID returns the venue whose board is requested.
func (q GetVenueOrdersQuery) VenueID() kernel.UUID {
	return q.venueID
}

// Status returns the optional status filter.
func (q GetVenueOrdersQuery) Status() *order.Status {
	return q.status
}

// OrderSummaryResponse is one row of an order list read model. Total is
// derived from the live lines; HasAddedItems flags orders the kitchen must
// re-check; IsPaid reflects a confirmed transaction.
type OrderSummaryResponse struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	TableID       *kernel.UUID
	Status        string
	IsCancelled   bool
	HasAddedItems bool
	Total         int
	IsPaid        bool
	CreatedAt     time.Time
}
