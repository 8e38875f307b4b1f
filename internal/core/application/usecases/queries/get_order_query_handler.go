package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves one order's full state from the database.
// Reads the three order tables directly; no domain objects are constructed.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for full-state order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns ErrObjectNotFound when no order exists
// with the given id.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp, err := h.loadOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.Items, resp.Total, err = h.loadItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.Transaction, err = h.loadTransaction(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) loadOrder(ctx context.Context, orderID kernel.UUID) (GetOrderQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			venue_id,
			customer_id,
			table_id,
			status,
			is_cancelled,
			has_added_items,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	var (
		resp       GetOrderQueryResponse
		id         uuid.UUID
		venueID    uuid.UUID
		customerID uuid.UUID
		tableID    *uuid.UUID
		status     int
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(
		&id,
		&venueID,
		&customerID,
		&tableID,
		&status,
		&resp.IsCancelled,
		&resp.HasAddedItems,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.VenueID, err = kernel.UUIDFromBytes(venueID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if tableID != nil {
		tID, tableErr := kernel.UUIDFromBytes((*tableID)[:])
		if tableErr != nil {
			return GetOrderQueryResponse{}, tableErr
		}
		resp.TableID = &tID
	}

	resp.Status = order.Status(status).String()
	resp.CreatedAt = createdAt
	resp.UpdatedAt = updatedAt
	return resp, nil
}

func (h GetOrderQueryHandler) loadItems(
	ctx context.Context,
	orderID kernel.UUID,
) ([]OrderItemResponse, int, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			menu_item_id,
			quantity,
			subtotal,
			is_cancelled
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]OrderItemResponse, 0)
	total := 0

	for rows.Next() {
		var (
			item       OrderItemResponse
			id         uuid.UUID
			menuItemID *uuid.UUID
		)

		if err = rows.Scan(&id, &menuItemID, &item.Quantity, &item.Subtotal, &item.IsCancelled); err != nil {
			return nil, 0, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, 0, err
		}
		if menuItemID != nil {
			mID, menuErr := kernel.UUIDFromBytes((*menuItemID)[:])
			if menuErr != nil {
				return nil, 0, menuErr
			}
			item.MenuItemID = &mID
		}

		if !item.IsCancelled {
			total += item.Subtotal
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (h GetOrderQueryHandler) loadTransaction(
	ctx context.Context,
	orderID kernel.UUID,
) (*OrderTransactionResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			external_ref,
			amount,
			currency,
			method,
			status
		FROM order_transactions
		WHERE order_id = ?
	`, orderID.Bytes()).Row()

	var (
		resp   OrderTransactionResponse
		id     uuid.UUID
		method int
		status int
	)

	err := row.Scan(&id, &resp.ExternalRef, &resp.Amount, &resp.Currency, &method, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return nil, err
	}
	resp.Method = order.PaymentMethod(method).String()
	resp.Status = order.TransactionStatus(status).String()

	return &resp, nil
}
