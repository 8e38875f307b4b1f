// Package catalogrepo implements the MenuCatalog port against the
// menu_items table. The order core only reads price and availability here;
// menu management itself lives outside this service's write path.
package catalogrepo

import (
	"github.com/google/uuid"
)

// MenuItemDTO represents a menu item row as the order core sees it.
type MenuItemDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	VenueID  uuid.UUID `gorm:"type:uuid;index"`
	Name     string
	Price    int
	IsActive bool
	InStock  bool
}

// TableName specifies the database table name for menu items.
func (MenuItemDTO) TableName() string {
	return "menu_items"
}
