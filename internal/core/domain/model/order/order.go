package order

import (
	"errors"
	"fmt"
	"time"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrNoItems is returned when an order is created without any lines.
	ErrNoItems = errors.New("order must contain at least one item")

	// ErrNoPendingTransaction is returned by SettleExternal when the order has
	// no transaction to settle, typically a callback for a payment that was
	// never initiated or was already discarded.
	ErrNoPendingTransaction = errors.New("order has no transaction to settle")

	// ErrAlreadySettled is returned when a payment attempt is re-initiated on
	// an order whose transaction is already confirmed.
	ErrAlreadySettled = errors.New("order payment is already settled")
)

// Order is the aggregate root for a customer's purchase against a venue and
// table. It owns the order lines and the optional payment transaction, and
// every lifecycle mutation goes through it so the invariants hold:
//
//   - isCancelled is true exactly when status is Cancelled
//   - a cancelled order has no live (non-cancelled) lines
//   - the total price is always derived from live lines, never stored
//   - the order reaches Completed only through settlement (cash or gateway)
//   - once cancelled, a line is never un-cancelled
//
// Orders are loaded and mutated as a whole (order, lines, transaction in one
// read under a row lock) so concurrent operations on the same order never act
// on a torn snapshot.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// venueID scopes the order to the venue that fulfills it
	venueID kernel.UUID

	// customerID identifies the ordering customer
	customerID kernel.UUID

	// tableID references the venue table, nil when the table was removed
	tableID *kernel.UUID

	// status represents the current state in the fulfillment lifecycle
	status Status

	// isCancelled mirrors status == Cancelled
	isCancelled bool

	// hasAddedItems flags the order for staff attention after the customer
	// changed its lines. A staff UI signal, not a correctness invariant.
	hasAddedItems bool

	createdAt time.Time
	updatedAt time.Time

	// items are the order lines, including cancelled ones
	items []*Item

	// transaction is the single payment attempt, nil until one starts
	transaction *Transaction

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Pending status from a customer checkout.
//
// Parameters:
//   - id: unique identifier for the order (must be a valid UUID)
//   - venueID: the venue fulfilling the order (must be a valid UUID)
//   - customerID: the ordering customer (must be a valid UUID)
//   - tableID: the venue table, may be nil
//   - items: the initial order lines (at least one, each built via NewItem)
//
// Returns the created order, or a validation error.
//
// Example:
//
//	item, _ := order.NewItem(kernel.NewUUID(), menuItemID, 2, 250)
//	o, err := order.NewOrder(kernel.NewUUID(), venueID, customerID, &tableID, []*order.Item{item})
//	if err != nil {
//	    // handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	venueID kernel.UUID,
	customerID kernel.UUID,
	tableID *kernel.UUID,
	items []*Item,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		venueID.Validate(),
		customerID.Validate(),
	); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	return &Order{
		id:            id,
		venueID:       venueID,
		customerID:    customerID,
		tableID:       tableID,
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		items:         items,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an order aggregate from persistence.
// The status and cancellation flag are validated for mutual consistency.
func RestoreOrder(
	id kernel.UUID,
	venueID kernel.UUID,
	customerID kernel.UUID,
	tableID *kernel.UUID,
	status Status,
	isCancelled bool,
	hasAddedItems bool,
	createdAt, updatedAt time.Time,
	items []*Item,
	transaction *Transaction,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		venueID.Validate(),
		customerID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	if isCancelled != (status == Cancelled) {
		return nil, errs.NewValueIsInvalidErrorWithCause("cancellation flag is invalid",
			fmt.Errorf("is_cancelled=%t does not match status %s", isCancelled, status))
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}
	if transaction != nil {
		if err := transaction.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:            id,
		venueID:       venueID,
		customerID:    customerID,
		tableID:       tableID,
		status:        status,
		isCancelled:   isCancelled,
		hasAddedItems: hasAddedItems,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		items:         items,
		transaction:   transaction,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// VenueID returns the venue fulfilling the order.
func (o *Order) VenueID() kernel.UUID {
	return o.venueID
}

// CustomerID returns the ordering customer.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// TableID returns the venue table. Returns nil when the table was removed.
func (o *Order) TableID() *kernel.UUID {
	return o.tableID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// IsCancelled reports whether the order is cancelled.
func (o *Order) IsCancelled() bool {
	return o.isCancelled
}

// HasAddedItems reports whether the order lines changed after checkout and
// staff have not seen the change yet.
func (o *Order) HasAddedItems() bool {
	return o.hasAddedItems
}

// CreatedAt returns when the order was checked out.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order last changed.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Items returns all order lines, including cancelled ones.
func (o *Order) Items() []*Item {
	return o.items
}

// Transaction returns the payment attempt. Returns nil when none exists.
func (o *Order) Transaction() *Transaction {
	return o.transaction
}

// TotalPrice returns the sum of the subtotals of all live lines.
// The total is always derived, never stored.
func (o *Order) TotalPrice() int {
	total := 0
	for _, item := range o.items {
		if !item.IsCancelled() {
			total += item.Subtotal()
		}
	}
	return total
}

// LiveItemCount returns the number of non-cancelled lines.
func (o *Order) LiveItemCount() int {
	count := 0
	for _, item := range o.items {
		if !item.IsCancelled() {
			count++
		}
	}
	return count
}

// IsPaid reports whether the order's transaction is confirmed.
func (o *Order) IsPaid() bool {
	return o.transaction != nil && o.transaction.IsSettled()
}

// IsDeletable reports whether administrative cleanup may remove the order:
// only Pending or Cancelled orders without payment artifacts qualify.
// Orders past Pending are otherwise never physically deleted.
func (o *Order) IsDeletable() bool {
	return (o.status == Pending || o.status == Cancelled) && o.transaction == nil
}

// SetStatus applies a staff status transition.
//
// Fails with ErrInvalidTransition when the order is Completed or Cancelled,
// and with ErrConflictingTransition when Cancelled is requested on a Served
// order or when Completed is requested at all: an order only becomes
// Completed through settlement, so staff close orders via Complete, never
// through a plain transition. Transitioning to Cancelled cancels the order,
// which cascades cancellation to every live line so downstream refund and
// accounting logic sees a fully cancelled line set.
func (o *Order) SetStatus(next Status) error {
	if next == Cancelled {
		return o.Cancel()
	}
	if next == Completed {
		return fmt.Errorf("%w: completion settles payment and must go through Complete",
			ErrConflictingTransition)
	}

	newStatus, err := o.status.Transition(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch()
	return nil
}

// Cancel cancels the order and cascades cancellation to every live line.
//
// Fails with ErrInvalidTransition when the order is already terminal and
// with ErrConflictingTransition when it has been served. Used by both the
// staff transition and the customer self-cancel; caller identity is checked
// at the application boundary.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Transition(Cancelled)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.isCancelled = true
	for _, item := range o.items {
		item.cancel()
	}
	o.touch()
	return nil
}

// CancelItem cancels a single order line.
//
// Fails with ErrInvalidTransition when the order is Completed, Cancelled, or
// Served. Cancelling an already-cancelled line is a no-op and reports
// changed=false so callers do not emit a duplicate event. A successful
// cancellation flags the order for staff attention, and when no live lines
// remain the order itself is cancelled: an order with no live lines cannot
// stay active. The cascade decision is made against this aggregate's line
// set, which the store loaded fresh under the order's row lock.
//
// Returns:
//   - the targeted line, changed=true when this call cancelled it
//   - errs.ObjectNotFoundError when the line does not belong to the order
func (o *Order) CancelItem(itemID kernel.UUID) (*Item, bool, error) {
	if o.status.IsTerminal() || o.status == Served {
		return nil, false, fmt.Errorf("%w: items cannot be cancelled once the order is %s",
			ErrInvalidTransition, o.status)
	}

	item := o.findItem(itemID)
	if item == nil {
		return nil, false, errs.NewObjectNotFoundError("order item", itemID.String())
	}

	if !item.cancel() {
		return item, false, nil
	}

	o.hasAddedItems = true
	o.touch()

	if o.LiveItemCount() == 0 {
		// Last live line gone, the order cannot stay active.
		o.status = Cancelled
		o.isCancelled = true
	}

	return item, true, nil
}

// AddItems appends new order lines and re-opens fulfillment.
//
// Fails with ErrInvalidTransition when the order is Completed or Cancelled.
// On success the lines are appended, the order is flagged for staff
// attention, and the status resets to Pending regardless of how far
// fulfillment had progressed. Catalog resolution and the all-or-nothing
// batch check happen at the application boundary before this is called.
func (o *Order) AddItems(items []*Item) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: items cannot be added once the order is %s",
			ErrInvalidTransition, o.status)
	}
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	o.items = append(o.items, items...)
	o.hasAddedItems = true
	o.status = Pending
	o.touch()
	return nil
}

// Complete settles the order and moves it to Completed.
//
// Completing an already-completed order is a no-op reported as changed=false,
// so client retries never surface spurious failures. When a transaction
// exists it is confirmed; when none exists a cash settlement is synthesized
// for the current derived total in the given currency. Fails with
// ErrInvalidTransition when the order is Cancelled.
//
// Returns changed=true when this call settled the order.
func (o *Order) Complete(currency string) (bool, error) {
	if o.status == Completed {
		return false, nil
	}
	if o.status == Cancelled {
		return false, fmt.Errorf("%w: a cancelled order cannot be completed", ErrInvalidTransition)
	}

	if o.transaction == nil {
		cashRef := fmt.Sprintf("cash-%s", o.id)
		tx, err := NewTransaction(kernel.NewUUID(), cashRef, o.TotalPrice(), currency, PaymentCash)
		if err != nil {
			return false, err
		}
		o.transaction = tx
	}

	o.transaction.markSuccess("")
	o.status = Completed
	o.touch()
	return true, nil
}

// EnsurePayable checks whether a new payment attempt may start.
//
// Fails with ErrAlreadySettled when the existing transaction is confirmed
// and with ErrInvalidTransition when the order is Cancelled or Completed.
// Callers about to open a provider session check this first so no session
// is opened for an order that can never accept it.
func (o *Order) EnsurePayable() error {
	if o.transaction != nil && o.transaction.IsSettled() {
		return ErrAlreadySettled
	}
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: payment cannot start once the order is %s",
			ErrInvalidTransition, o.status)
	}
	return nil
}

// AttachTransaction records a new pending payment attempt.
//
// Applies the EnsurePayable guards. A pending transaction from an earlier
// attempt is replaced; the previous session was abandoned by the customer.
func (o *Order) AttachTransaction(tx *Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := o.EnsurePayable(); err != nil {
		return err
	}

	o.transaction = tx
	o.touch()
	return nil
}

// SettleExternal applies an asynchronous settlement report from the payment
// gateway.
//
// Fails with ErrNoPendingTransaction when the order has no transaction. A
// report for an already-confirmed transaction is a no-op reported as
// changed=false; gateway retries are expected. On success the transaction is
// confirmed under the provider's final reference and the order moves to
// Completed. On failure the pending transaction is discarded and the order's
// status is left untouched so the customer may retry payment.
//
// Returns changed=true when this call altered the order.
func (o *Order) SettleExternal(success bool, externalRef string) (bool, error) {
	if o.transaction == nil {
		return false, ErrNoPendingTransaction
	}
	if o.transaction.IsSettled() {
		return false, nil
	}
	if success && o.status == Cancelled {
		// The order was cancelled while the payment session was open.
		return false, fmt.Errorf("%w: a cancelled order cannot be completed", ErrInvalidTransition)
	}

	if !success {
		o.transaction = nil
		o.touch()
		return true, nil
	}

	o.transaction.markSuccess(externalRef)
	o.status = Completed
	o.touch()
	return true, nil
}

func (o *Order) findItem(itemID kernel.UUID) *Item {
	for _, item := range o.items {
		if item.ID().IsEqual(itemID) {
			return item
		}
	}
	return nil
}

func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}
