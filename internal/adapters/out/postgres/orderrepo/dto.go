// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. This package implements the repository pattern for the
// order aggregate, handling conversion between domain entities and the
// orders, order_items and order_transactions tables.
package orderrepo

import (
	"time"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by venue and customer for the staff board and customer history
// queries.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	VenueID       uuid.UUID  `gorm:"type:uuid;index"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;index"`
	TableID       *uuid.UUID `gorm:"type:uuid"`
	Status        int        `gorm:"index"`
	IsCancelled   bool
	HasAddedItems bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items       []ItemDTO       `gorm:"foreignKey:OrderID"`
	Transaction *TransactionDTO `gorm:"foreignKey:OrderID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one order line. Cancelled lines stay in the table with
// the flag set; the line set is the audit trail of the order.
type ItemDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;index"`
	MenuItemID  *uuid.UUID `gorm:"type:uuid"`
	Quantity    int
	Subtotal    int
	IsCancelled bool
}

// TableName specifies the database table name for order lines.
func (ItemDTO) TableName() string {
	return "order_items"
}

// TransactionDTO represents the single payment attempt attached to an order.
// The unique index on OrderID enforces the at-most-one-transaction rule at
// the storage level too.
type TransactionDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	ExternalRef string
	Amount      int
	Currency    string
	Method      int
	Status      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for payment transactions.
func (TransactionDTO) TableName() string {
	return "order_transactions"
}

// fromDomain converts an order aggregate to its database representation,
// lines and transaction included.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	var tableID *uuid.UUID
	if id := aggregate.TableID(); id != nil {
		raw := id.Bytes()
		tableID = &raw
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemFromDomain(orderID, item))
	}

	var transaction *TransactionDTO
	if tx := aggregate.Transaction(); tx != nil {
		dto := transactionFromDomain(orderID, tx)
		transaction = &dto
	}

	return OrderDTO{
		ID:            orderID,
		VenueID:       aggregate.VenueID().Bytes(),
		CustomerID:    aggregate.CustomerID().Bytes(),
		TableID:       tableID,
		Status:        int(aggregate.Status()),
		IsCancelled:   aggregate.IsCancelled(),
		HasAddedItems: aggregate.HasAddedItems(),
		CreatedAt:     aggregate.CreatedAt(),
		UpdatedAt:     aggregate.UpdatedAt(),
		Items:         items,
		Transaction:   transaction,
	}
}

func itemFromDomain(orderID uuid.UUID, item *order.Item) ItemDTO {
	var menuItemID *uuid.UUID
	if id := item.MenuItemID(); id != nil {
		raw := id.Bytes()
		menuItemID = &raw
	}

	return ItemDTO{
		ID:          item.ID().Bytes(),
		OrderID:     orderID,
		MenuItemID:  menuItemID,
		Quantity:    item.Quantity(),
		Subtotal:    item.Subtotal(),
		IsCancelled: item.IsCancelled(),
	}
}

func transactionFromDomain(orderID uuid.UUID, tx *order.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          tx.ID().Bytes(),
		OrderID:     orderID,
		ExternalRef: tx.ExternalRef(),
		Amount:      tx.Amount(),
		Currency:    tx.Currency(),
		Method:      int(tx.Method()),
		Status:      int(tx.Status()),
		CreatedAt:   tx.CreatedAt(),
		UpdatedAt:   tx.UpdatedAt(),
	}
}

// toDomain converts a database DTO to an order aggregate.
// Reconstructs the complete aggregate including lines and the optional
// transaction using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	venueID, err := kernel.UUIDFromBytes(dto.VenueID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var tableID *kernel.UUID
	if dto.TableID != nil {
		tID, tableErr := kernel.UUIDFromBytes((*dto.TableID)[:])
		if tableErr != nil {
			return nil, tableErr
		}
		tableID = &tID
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var transaction *order.Transaction
	if dto.Transaction != nil {
		transaction, err = transactionToDomain(*dto.Transaction)
		if err != nil {
			return nil, err
		}
	}

	return order.RestoreOrder(
		id,
		venueID,
		customerID,
		tableID,
		order.Status(dto.Status),
		dto.IsCancelled,
		dto.HasAddedItems,
		dto.CreatedAt,
		dto.UpdatedAt,
		items,
		transaction,
	)
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var menuItemID *kernel.UUID
	if dto.MenuItemID != nil {
		mID, menuErr := kernel.UUIDFromBytes((*dto.MenuItemID)[:])
		if menuErr != nil {
			return nil, menuErr
		}
		menuItemID = &mID
	}

	return order.RestoreItem(id, menuItemID, dto.Quantity, dto.Subtotal, dto.IsCancelled)
}

func transactionToDomain(dto TransactionDTO) (*order.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreTransaction(
		id,
		dto.ExternalRef,
		dto.Amount,
		dto.Currency,
		order.PaymentMethod(dto.Method),
		order.TransactionStatus(dto.Status),
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
