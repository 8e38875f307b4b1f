package commands

import (
	"errors"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/pkg/guard"
)

var ErrCancelItemCommandIsNotConstructed = errors.New(
	"CancelItemCommand must be created via NewCancelItemCommand constructor",
)

// CancelItemCommand represents a request to cancel a single order line.
// Available to both the order's customer and venue staff. Cancelling the
// last live line cancels the whole order.
type CancelItemCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	itemID  kernel.UUID
	actor   Actor

	guard guard.ConstructorGuard
}

// NewCancelItemCommand creates a command to cancel one order line.
func NewCancelItemCommand(orderID, itemID kernel.UUID, actor Actor) (CancelItemCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		itemID.Validate(),
		actor.Validate(),
	); err != nil {
		return CancelItemCommand{}, err
	}

	return CancelItemCommand{
		orderID: orderID,
		itemID:  itemID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelItemCommand) Validate() error {
	return c.guard.Validate(ErrCancelItemCommandIsNotConstructed)
}

// OrderID returns the targeted order.
func (c CancelItemCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ItemID returns the targeted order line.
func (c CancelItemCommand) ItemID() kernel.UUID {
	return c.itemID
}

// Actor returns the acting identity.
func (c CancelItemCommand) Actor() Actor {
	return c.actor
}
