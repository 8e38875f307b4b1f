package order

import (
	"errors"
	"fmt"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through NewItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")

// Item is a single order line: a menu item reference, the ordered quantity,
// and the subtotal captured at insert time.
//
// Item follows these invariants:
//   - Quantity must be positive
//   - Subtotal is computed from the catalog price at insert time and is
//     immutable afterwards; later catalog price changes do not affect it
//   - Once cancelled, an item is never un-cancelled
//
// The menu item reference may become nil when the catalog entry is removed;
// the line survives as an orphan because the subtotal was already captured.
type Item struct {
	// id is the unique identifier for the order line
	id kernel.UUID

	// menuItemID references the catalog entry, nil once orphaned
	menuItemID *kernel.UUID

	// quantity is the ordered amount (must be positive)
	quantity int

	// subtotal is the catalog unit price times quantity, captured at insert
	subtotal int

	// isCancelled marks the line as cancelled (one-way)
	isCancelled bool

	// isConstructed ensures the item was created via a constructor
	isConstructed bool
}

// NewItem creates a new order line with validation. The subtotal is captured
// here as unitPrice times quantity and never recomputed.
//
// Parameters:
//   - id: unique identifier for the line (must be a valid UUID)
//   - menuItemID: the catalog entry being ordered (must be a valid UUID)
//   - quantity: ordered amount (must be positive)
//   - unitPrice: current catalog price (must not be negative)
//
// Returns the created item, or a validation error.
func NewItem(id kernel.UUID, menuItemID kernel.UUID, quantity, unitPrice int) (*Item, error) {
	if err := errors.Join(
		id.Validate(),
		menuItemID.Validate(),
		validateQuantity(quantity),
		validateUnitPrice(unitPrice),
	); err != nil {
		return nil, err
	}

	return &Item{
		id:            id,
		menuItemID:    &menuItemID,
		quantity:      quantity,
		subtotal:      unitPrice * quantity,
		isConstructed: true,
	}, nil
}

// RestoreItem reconstructs an order line from persistence.
// Unlike NewItem it accepts a stored subtotal, an orphaned menu item
// reference, and an already-cancelled state.
func RestoreItem(
	id kernel.UUID,
	menuItemID *kernel.UUID,
	quantity, subtotal int,
	isCancelled bool,
) (*Item, error) {
	if err := errors.Join(
		id.Validate(),
		validateQuantity(quantity),
	); err != nil {
		return nil, err
	}
	if subtotal < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("subtotal is invalid",
			fmt.Errorf("%d is negative", subtotal))
	}

	return &Item{
		id:            id,
		menuItemID:    menuItemID,
		quantity:      quantity,
		subtotal:      subtotal,
		isCancelled:   isCancelled,
		isConstructed: true,
	}, nil
}

// Validate ensures the Item instance was properly constructed.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the line's unique identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// MenuItemID returns the referenced catalog entry.
// Returns nil when the line is orphaned.
func (i *Item) MenuItemID() *kernel.UUID {
	return i.menuItemID
}

// Quantity returns the ordered amount.
func (i *Item) Quantity() int {
	return i.quantity
}

// Subtotal returns the price captured at insert time.
func (i *Item) Subtotal() int {
	return i.subtotal
}

// IsCancelled reports whether the line has been cancelled.
func (i *Item) IsCancelled() bool {
	return i.isCancelled
}

// cancel marks the line as cancelled. Returns false when the line was
// already cancelled, which callers use to keep the operation idempotent.
func (i *Item) cancel() bool {
	if i.isCancelled {
		return false
	}
	i.isCancelled = true
	return true
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	return nil
}

func validateUnitPrice(unitPrice int) error {
	if unitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit price is invalid",
			fmt.Errorf("%d is negative", unitPrice))
	}
	return nil
}
