package commands

import (
	"errors"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a customer checkout: a new order against a
// venue and table with at least one requested line. Prices are resolved from
// the catalog at handling time, never taken from the request.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, venueID, customerID, &tableID, lines)
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	venueID    kernel.UUID
	customerID kernel.UUID
	tableID    *kernel.UUID
	lines      []OrderLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command for a customer checkout.
// Validates identifiers and that every requested line has a valid menu item
// id and a positive quantity.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	venueID kernel.UUID,
	customerID kernel.UUID,
	tableID *kernel.UUID,
	lines []OrderLine,
) (CreateOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		venueID.Validate(),
		customerID.Validate(),
		validateLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID:    orderID,
		venueID:    venueID,
		customerID: customerID,
		tableID:    tableID,
		lines:      lines,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// VenueID returns the venue the order is placed against.
func (c CreateOrderCommand) VenueID() kernel.UUID {
	return c.venueID
}

// CustomerID returns the ordering customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// TableID returns the venue table, may be nil.
func (c CreateOrderCommand) TableID() *kernel.UUID {
	return c.tableID
}

// Lines returns the requested order lines.
func (c CreateOrderCommand) Lines() []OrderLine {
	return c.lines
}
