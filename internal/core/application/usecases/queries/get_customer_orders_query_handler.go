package queries

import (
	"context"

	"messhall/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetCustomerOrdersQueryHandler retrieves one customer's order history from
// the database, using the same aggregated shape as the venue board.
type GetCustomerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetCustomerOrdersQueryHandler creates a handler for customer history queries.
func NewGetCustomerOrdersQueryHandler(db *gorm.DB) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are sorted newest first.
func (h GetCustomerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerOrdersQuery,
) ([]OrderSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			o.id,
			o.customer_id,
			o.table_id,
			o.status,
			o.is_cancelled,
			o.has_added_items,
			COALESCE(SUM(i.subtotal) FILTER (WHERE NOT i.is_cancelled), 0) AS total,
			COALESCE(t.status = ?, false) AS is_paid,
			o.created_at
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		LEFT JOIN order_transactions t ON t.order_id = o.id
		WHERE o.customer_id = ?
		GROUP BY o.id, t.status
		ORDER BY o.created_at DESC
	`

	return scanOrderSummaries(h.db.WithContext(ctx),
		sql, int(order.TransactionSuccess), query.CustomerID().Bytes())
}
