package order

import (
	"errors"
	"fmt"

	"messhall/internal/pkg/errs"
)

var (
	// ErrInvalidTransition is returned when a lifecycle mutation is attempted
	// on an order whose status can no longer change, or when the requested
	// status is not reachable from the current one.
	ErrInvalidTransition = errors.New("order status can no longer change")

	// ErrConflictingTransition is returned when a transition is structurally
	// possible but semantically disallowed, such as cancelling an order that
	// has already been served.
	ErrConflictingTransition = errors.New("requested status change conflicts with order state")
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the fulfillment workflow.
//
// State transitions:
//
//	Pending ──> Received ──> Preparing ──> Ready ──> Served ──> Completed
//	   │            │            │           │
//	   └────────────┴────────────┴───────────┴──────> Cancelled
//
// Completed and Cancelled are terminal. A served order can no longer be
// cancelled, only completed. Adding items to an open order resets it to
// Pending, which re-opens fulfillment.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when a customer checks out an order.
	Pending

	// Received indicates staff have acknowledged the order.
	Received

	// Preparing indicates the kitchen is working on the order.
	Preparing

	// Ready indicates the order is ready to be brought to the table.
	Ready

	// Served indicates the order has been delivered to the table.
	// A served order cannot be cancelled anymore.
	Served

	// Completed indicates the order has been paid and closed.
	// This is a terminal state.
	Completed

	// Cancelled indicates the order was cancelled by staff, by the
	// customer, or by the last-item cascade. This is a terminal state.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
// The strings match the wire and database representation of the status.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Received:  "received",
		Preparing: "preparing",
		Ready:     "ready",
		Served:    "served",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Received:  "received",
		Preparing: "preparing",
		Ready:     "ready",
		Served:    "served",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// StatusFromString parses the wire representation of a status.
// Returns an error for unrecognized strings.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
//
// Valid statuses are Pending through Cancelled. Unknown (0) and any other
// values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// Returns "unknown" for invalid status values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Transition validates a move from the current status to next and returns
// the resulting status.
//
// Rules:
//   - Terminal statuses (Completed, Cancelled) permit no transition and
//     fail with ErrInvalidTransition.
//   - Cancelling a Served order fails with ErrConflictingTransition.
//   - Any other move between valid statuses is allowed; staff may skip or
//     repeat fulfillment steps.
//
// Returns:
//   - (next, nil) on a valid transition
//   - (0, error) when the transition is not allowed
func (s Status) Transition(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return 0, err
	}

	if s.IsTerminal() {
		return 0, fmt.Errorf("%w: %s cannot become %s", ErrInvalidTransition, s, next)
	}

	if next == Cancelled && s == Served {
		return 0, fmt.Errorf("%w: a served order cannot be cancelled", ErrConflictingTransition)
	}

	return next, nil
}
