package commands

import (
	"errors"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/pkg/guard"
)

var ErrAddItemsCommandIsNotConstructed = errors.New(
	"AddItemsCommand must be created via NewAddItemsCommand constructor",
)

// AddItemsCommand represents a request to append lines to an open order.
// Re-adding items re-opens fulfillment: the order's status resets to pending.
type AddItemsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   Actor
	lines   []OrderLine

	guard guard.ConstructorGuard
}

// NewAddItemsCommand creates a command to append lines to an order.
func NewAddItemsCommand(orderID kernel.UUID, actor Actor, lines []OrderLine) (AddItemsCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
		validateLines(lines),
	); err != nil {
		return AddItemsCommand{}, err
	}

	return AddItemsCommand{
		orderID: orderID,
		actor:   actor,
		lines:   lines,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AddItemsCommand) Validate() error {
	return c.guard.Validate(ErrAddItemsCommandIsNotConstructed)
}

// OrderID returns the targeted order.
func (c AddItemsCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the acting identity.
func (c AddItemsCommand) Actor() Actor {
	return c.actor
}

// Lines returns the requested order lines.
func (c AddItemsCommand) Lines() []OrderLine {
	return c.lines
}
