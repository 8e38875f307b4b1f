package commands

import (
	"errors"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/pkg/errs"
	"messhall/internal/pkg/guard"
)

var (
	ErrInitiatePaymentCommandIsNotConstructed = errors.New(
		"InitiatePaymentCommand must be created via NewInitiatePaymentCommand constructor",
	)
	ErrCashIsNotInitiable = errors.New(
		"cash settles at the counter and cannot be initiated as an online payment",
	)
)

// InitiatePaymentCommand represents a customer request to start an online
// payment for an order. Cash is excluded; it settles synchronously through
// CompleteOrderCommand.
type InitiatePaymentCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	actor     Actor
	method    order.PaymentMethod
	currency  string
	returnURL string

	guard guard.ConstructorGuard
}

// NewInitiatePaymentCommand creates a command to start an online payment.
func NewInitiatePaymentCommand(
	orderID kernel.UUID,
	actor Actor,
	method order.PaymentMethod,
	currency string,
	returnURL string,
) (InitiatePaymentCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
		method.Validate(),
	); err != nil {
		return InitiatePaymentCommand{}, err
	}
	if method == order.PaymentCash {
		return InitiatePaymentCommand{}, ErrCashIsNotInitiable
	}
	if currency == "" {
		return InitiatePaymentCommand{}, errs.NewValueIsRequiredError("currency")
	}
	if returnURL == "" {
		return InitiatePaymentCommand{}, errs.NewValueIsRequiredError("return URL")
	}

	return InitiatePaymentCommand{
		orderID:   orderID,
		actor:     actor,
		method:    method,
		currency:  currency,
		returnURL: returnURL,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c InitiatePaymentCommand) Validate() error {
	return c.guard.Validate(ErrInitiatePaymentCommandIsNotConstructed)
}

// OrderID returns the targeted order.
func (c InitiatePaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the acting identity.
func (c InitiatePaymentCommand) Actor() Actor {
	return c.actor
}

// Method returns the requested payment channel.
func (c InitiatePaymentCommand) Method() order.PaymentMethod {
	return c.method
}

// Currency returns the settlement currency code.
func (c InitiatePaymentCommand) Currency() string {
	return c.currency
}

// ReturnURL returns where the provider sends the customer afterwards.
func (c InitiatePaymentCommand) ReturnURL() string {
	return c.returnURL
}
