package commands

import (
	"errors"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/pkg/guard"
)

// ErrActorIsNotConstructed is returned when an Actor was not created via
// NewCustomerActor or NewStaffActor.
var ErrActorIsNotConstructed = errors.New(
	"Actor must be created via NewCustomerActor or NewStaffActor constructor",
)

// ActorRole distinguishes the two caller identities of the order boundary.
type ActorRole int

const (
	// ActorUnknown represents an invalid or undefined role.
	ActorUnknown ActorRole = iota

	// ActorCustomer is the ordering customer; scoped to their own orders.
	ActorCustomer

	// ActorStaff is venue staff; scoped to their venue's orders.
	ActorStaff
)

// Actor is the validated caller identity attached to every lifecycle
// command. Authentication happens outside this module; the actor carries
// only what access scoping needs: the role and the owning customer or
// venue id. Every order read and write verifies the order belongs to the
// actor before anything else happens.
type Actor struct { //nolint:recvcheck //using for validation
	role       ActorRole
	customerID kernel.UUID
	venueID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewCustomerActor creates the identity of an ordering customer.
func NewCustomerActor(customerID kernel.UUID) (Actor, error) {
	if err := customerID.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{
		role:       ActorCustomer,
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// NewStaffActor creates the identity of venue staff.
func NewStaffActor(venueID kernel.UUID) (Actor, error) {
	if err := venueID.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{
		role:    ActorStaff,
		venueID: venueID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the actor was created through a constructor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// Role returns the actor's role.
func (a Actor) Role() ActorRole {
	return a.role
}

// IsStaff reports whether the actor is venue staff.
func (a Actor) IsStaff() bool {
	return a.role == ActorStaff
}

// String returns a log-friendly description of the actor.
func (a Actor) String() string {
	if a.role == ActorStaff {
		return "staff:" + a.venueID.String()
	}
	return "customer:" + a.customerID.String()
}

// authorize verifies the order belongs to the actor. Customers may only
// touch their own orders, staff only their venue's orders. Returns
// ErrAccessDenied otherwise.
func (a Actor) authorize(o *order.Order) error {
	switch a.role {
	case ActorCustomer:
		if !o.CustomerID().IsEqual(a.customerID) {
			return ErrAccessDenied
		}
	case ActorStaff:
		if !o.VenueID().IsEqual(a.venueID) {
			return ErrAccessDenied
		}
	default:
		return ErrAccessDenied
	}
	return nil
}
