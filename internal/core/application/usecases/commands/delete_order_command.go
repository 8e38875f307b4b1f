package commands

import (
	"errors"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/pkg/guard"
)

var (
	ErrDeleteOrderCommandIsNotConstructed = errors.New(
		"DeleteOrderCommand must be created via NewDeleteOrderCommand constructor",
	)

	// ErrOrderNotDeletable is returned when the targeted order is outside
	// the deletable states. Only pending and cancelled unpaid orders may be
	// removed; everything else is history.
	ErrOrderNotDeletable = errors.New("order is not deletable")
)

// DeleteOrderCommand removes one order outright. This is an administrative
// operation for venue staff; customers never delete orders, they cancel
// them.
type DeleteOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   Actor

	guard guard.ConstructorGuard
}

// NewDeleteOrderCommand creates a command to delete an order. The actor
// must be venue staff.
func NewDeleteOrderCommand(orderID kernel.UUID, actor Actor) (DeleteOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return DeleteOrderCommand{}, err
	}
	if err := actor.Validate(); err != nil {
		return DeleteOrderCommand{}, err
	}
	if !actor.IsStaff() {
		return DeleteOrderCommand{}, ErrStaffActorRequired
	}

	return DeleteOrderCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteOrderCommandIsNotConstructed)
}

// OrderID returns the order to delete.
func (c DeleteOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the acting staff identity.
func (c DeleteOrderCommand) Actor() Actor {
	return c.actor
}
