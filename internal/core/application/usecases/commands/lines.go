package commands

import (
	"context"
	"fmt"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
	"messhall/internal/pkg/errs"
)

// OrderLine is a requested order line before catalog resolution: which menu
// item and how many. Price is never taken from the caller; it is captured
// from the catalog at insert time.
type OrderLine struct {
	MenuItemID kernel.UUID
	Quantity   int
}

func validateLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("order lines")
	}
	for _, line := range lines {
		if err := line.MenuItemID.Validate(); err != nil {
			return err
		}
		if line.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
				fmt.Errorf("%d is not greater than 0", line.Quantity))
		}
	}
	return nil
}

// resolveLines validates the whole batch against the catalog and builds the
// order lines. The batch is all-or-nothing: one unknown or unavailable menu
// item rejects every line before anything is written.
func resolveLines(
	ctx context.Context,
	catalog ports.MenuCatalog,
	lines []OrderLine,
) ([]*order.Item, error) {
	ids := make([]kernel.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.MenuItemID)
	}

	infos, err := catalog.Resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrUpstreamUnavailable, err)
	}

	items := make([]*order.Item, 0, len(lines))
	for _, line := range lines {
		info, ok := infos[line.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, line.MenuItemID)
		}
		if !info.Orderable() {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, line.MenuItemID)
		}

		item, err := order.NewItem(kernel.NewUUID(), line.MenuItemID, line.Quantity, info.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}
