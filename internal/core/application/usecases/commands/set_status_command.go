package commands

import (
	"errors"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/pkg/guard"
)

var (
	ErrSetStatusCommandIsNotConstructed = errors.New(
		"SetStatusCommand must be created via NewSetStatusCommand constructor",
	)
	ErrStaffActorRequired = errors.New("status transitions require a staff actor")
)

// SetStatusCommand represents a staff-driven fulfillment transition.
// Setting the status to cancelled cancels the order and every live line.
type SetStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   Actor
	next    order.Status

	guard guard.ConstructorGuard
}

// NewSetStatusCommand creates a command for a staff status transition.
// Only staff actors may progress fulfillment; customers cancel through
// NewCancelOrderCommand instead.
func NewSetStatusCommand(orderID kernel.UUID, actor Actor, next order.Status) (SetStatusCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
		next.Validate(),
	); err != nil {
		return SetStatusCommand{}, err
	}
	if !actor.IsStaff() {
		return SetStatusCommand{}, ErrStaffActorRequired
	}

	return SetStatusCommand{
		orderID: orderID,
		actor:   actor,
		next:    next,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetStatusCommandIsNotConstructed)
}

// OrderID returns the targeted order.
func (c SetStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the acting staff identity.
func (c SetStatusCommand) Actor() Actor {
	return c.actor
}

// NextStatus returns the requested status.
func (c SetStatusCommand) NextStatus() order.Status {
	return c.next
}
