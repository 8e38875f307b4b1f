// Package order implements the order fulfillment domain model.
//
// The Order aggregate root owns its order lines (Item) and the optional
// payment attempt (Transaction), and is the only place lifecycle state
// changes. The aggregate is always loaded and persisted as a whole so every
// decision, in particular the cancel-last-item cascade, is made against a
// consistent snapshot.
//
// The package follows Domain-Driven Design principles:
//   - Aggregates and entities use private fields with validated constructors
//     and Restore* factories for rehydration from persistence
//   - Status, TransactionStatus, and PaymentMethod are value objects that
//     validate their transitions and wire representations
//   - Business rule violations surface as sentinel errors
//     (ErrInvalidTransition, ErrConflictingTransition,
//     ErrNoPendingTransaction, ErrAlreadySettled) that callers classify
//     with errors.Is
package order
