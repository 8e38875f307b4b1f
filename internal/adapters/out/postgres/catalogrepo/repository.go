package catalogrepo

import (
	"context"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMenuCatalog implements MenuCatalog using GORM. Resolution is one batch
// read; unknown ids are simply absent from the result.
type GormMenuCatalog struct {
	db *gorm.DB
}

// NewGormMenuCatalog creates a new GORM menu catalog reader.
func NewGormMenuCatalog(db *gorm.DB) *GormMenuCatalog {
	return &GormMenuCatalog{db: db}
}

// Resolve returns price and availability for the given menu item ids.
func (c *GormMenuCatalog) Resolve(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]ports.MenuItemInfo, error) {
	if len(ids) == 0 {
		return map[kernel.UUID]ports.MenuItemInfo{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []MenuItemDTO
	if err := c.db.WithContext(ctx).Find(&dtos, "id IN ?", raw).Error; err != nil {
		return nil, err
	}

	infos := make(map[kernel.UUID]ports.MenuItemInfo, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		infos[id] = ports.MenuItemInfo{
			Price:    dto.Price,
			IsActive: dto.IsActive,
			InStock:  dto.InStock,
		}
	}

	return infos, nil
}
