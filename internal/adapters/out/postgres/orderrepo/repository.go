package orderrepo

import (
	"context"
	"errors"
	"time"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM. The aggregate
// is written as three tables (orders, order_items, order_transactions) and
// always read back as a whole.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order aggregate, lines included, to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order aggregate: the order row, every line, and
// the transaction. A transaction discarded from the aggregate (failed online
// payment) is deleted from storage.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).
		Select("VenueID", "CustomerID", "TableID", "Status", "IsCancelled", "HasAddedItems", "UpdatedAt").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if len(dto.Items) > 0 {
		if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto.Items).Error; err != nil {
			return err
		}
	}

	if dto.Transaction != nil {
		if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(dto.Transaction).Error; err != nil {
			return err
		}
	} else {
		if err := db.Where("order_id = ?", dto.ID).Delete(&TransactionDTO{}).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order aggregate by ID in a single consistent load.
// The order row is locked for update; inside a unit of work this serializes
// concurrent lifecycle operations on the same order until commit.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "orders"}}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	if err = r.loadChildren(ctx, &dto); err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes an order aggregate, its lines and any transaction row.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id.Bytes()).Delete(&ItemDTO{}).Error; err != nil {
		return err
	}
	if err := db.Where("order_id = ?", id.Bytes()).Delete(&TransactionDTO{}).Error; err != nil {
		return err
	}

	result := db.Where("id = ?", id.Bytes()).Delete(&OrderDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}

	return nil
}

// GetStaleDeletable retrieves orders eligible for administrative cleanup:
// pending or cancelled, without a transaction row, not touched since cutoff.
func (r *GormOrderRepository) GetStaleDeletable(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "orders"}}).
		Where("status IN ?", []int{int(order.Pending), int(order.Cancelled)}).
		Where("updated_at < ?", cutoff).
		Where("id NOT IN (SELECT order_id FROM order_transactions)").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for i := range dtos {
		if err = r.loadChildren(ctx, &dtos[i]); err != nil {
			return nil, err
		}

		o, domainErr := toDomain(dtos[i])
		if domainErr != nil {
			return nil, domainErr
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// loadChildren fills the lines and the optional transaction for one order
// row. Runs inside the same unit of work as the locked order read.
func (r *GormOrderRepository) loadChildren(ctx context.Context, dto *OrderDTO) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("order_id = ?", dto.ID).Order("id").Find(&dto.Items).Error; err != nil {
		return err
	}

	var tx TransactionDTO
	err := db.First(&tx, "order_id = ?", dto.ID).Error
	switch {
	case err == nil:
		dto.Transaction = &tx
	case errors.Is(err, gorm.ErrRecordNotFound):
		dto.Transaction = nil
	default:
		return err
	}

	return nil
}
