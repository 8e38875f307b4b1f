package ports

import (
	"context"

	"messhall/internal/core/domain/model/kernel"
)

// MenuItemInfo is the catalog's view of a single menu item: the current price
// and whether the item can be ordered right now.
type MenuItemInfo struct {
	Price    int
	IsActive bool
	InStock  bool
}

// Orderable reports whether the item can be added to an order.
func (m MenuItemInfo) Orderable() bool {
	return m.IsActive && m.InStock
}

// MenuCatalog resolves current price and availability for menu items.
// The catalog is an external collaborator; the order core only reads it.
type MenuCatalog interface {
	// Resolve returns price and availability for the given menu item ids.
	// Ids unknown to the catalog are simply absent from the result map.
	Resolve(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]MenuItemInfo, error)
}
