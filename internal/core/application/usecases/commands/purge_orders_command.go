package commands

import (
	"errors"
	"time"

	"messhall/internal/pkg/errs"
	"messhall/internal/pkg/guard"
)

var ErrPurgeOrdersCommandIsNotConstructed = errors.New(
	"PurgeOrdersCommand must be created via NewPurgeOrdersCommand constructor",
)

// PurgeOrdersCommand represents a maintenance request to delete stale
// abandoned orders: pending or cancelled orders with no transaction that
// were last touched before the cutoff.
type PurgeOrdersCommand struct { //nolint:recvcheck //using for validation
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewPurgeOrdersCommand creates a command to purge orders last touched
// before cutoff.
func NewPurgeOrdersCommand(cutoff time.Time) (PurgeOrdersCommand, error) {
	if cutoff.IsZero() {
		return PurgeOrdersCommand{}, errs.NewValueIsRequiredError("cutoff")
	}

	return PurgeOrdersCommand{
		cutoff: cutoff,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PurgeOrdersCommand) Validate() error {
	return c.guard.Validate(ErrPurgeOrdersCommandIsNotConstructed)
}

// Cutoff returns the staleness boundary.
func (c PurgeOrdersCommand) Cutoff() time.Time {
	return c.cutoff
}
