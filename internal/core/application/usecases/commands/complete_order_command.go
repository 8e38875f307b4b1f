package commands

import (
	"errors"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/pkg/errs"
	"messhall/internal/pkg/guard"
)

var ErrCompleteOrderCommandIsNotConstructed = errors.New(
	"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
)

// CompleteOrderCommand represents a staff request to settle an order in
// cash and close it out. When the order has no transaction yet, a cash
// transaction for the derived total is created and settled in the same
// step.
type CompleteOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actor    Actor
	currency string

	guard guard.ConstructorGuard
}

// NewCompleteOrderCommand creates a command for cash settlement.
// Only staff close orders at the counter.
func NewCompleteOrderCommand(orderID kernel.UUID, actor Actor, currency string) (CompleteOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
	); err != nil {
		return CompleteOrderCommand{}, err
	}
	if !actor.IsStaff() {
		return CompleteOrderCommand{}, ErrStaffActorRequired
	}
	if currency == "" {
		return CompleteOrderCommand{}, errs.NewValueIsRequiredError("currency")
	}

	return CompleteOrderCommand{
		orderID:  orderID,
		actor:    actor,
		currency: currency,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}

// OrderID returns the targeted order.
func (c CompleteOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the acting staff identity.
func (c CompleteOrderCommand) Actor() Actor {
	return c.actor
}

// Currency returns the settlement currency code.
func (c CompleteOrderCommand) Currency() string {
	return c.currency
}
