package commands

import (
	"errors"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/pkg/guard"
)

var ErrSettlePaymentCommandIsNotConstructed = errors.New(
	"SettlePaymentCommand must be created via NewSettlePaymentCommand constructor",
)

// SettlePaymentCommand represents a payment provider callback reporting the
// outcome of an online payment attempt. There is no actor; the caller is the
// provider, authenticated at the transport layer.
type SettlePaymentCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	success     bool
	externalRef string

	guard guard.ConstructorGuard
}

// NewSettlePaymentCommand creates a command for a provider callback.
// externalRef may be empty on failures; on success it carries the
// provider's final reference.
func NewSettlePaymentCommand(orderID kernel.UUID, success bool, externalRef string) (SettlePaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return SettlePaymentCommand{}, err
	}

	return SettlePaymentCommand{
		orderID:     orderID,
		success:     success,
		externalRef: externalRef,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SettlePaymentCommand) Validate() error {
	return c.guard.Validate(ErrSettlePaymentCommandIsNotConstructed)
}

// OrderID returns the targeted order.
func (c SettlePaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Success reports whether the provider confirmed the payment.
func (c SettlePaymentCommand) Success() bool {
	return c.success
}

// ExternalRef returns the provider's final reference for the payment.
func (c SettlePaymentCommand) ExternalRef() string {
	return c.externalRef
}
