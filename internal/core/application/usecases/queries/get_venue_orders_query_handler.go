package queries

import (
	"context"

	"messhall/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetVenueOrdersQueryHandler retrieves a venue's order board from the
// database. One aggregated SQL read produces the whole board; totals are
// summed over live lines and payment state is joined in.
type GetVenueOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetVenueOrdersQueryHandler creates a handler for venue board queries.
func NewGetVenueOrdersQueryHandler(db *gorm.DB) GetVenueOrdersQueryHandler {
	return GetVenueOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are sorted newest first.
func (h GetVenueOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetVenueOrdersQuery,
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
		WHERE o.venue_id = ?
	`
	args := []any{int(order.TransactionSuccess), query.VenueID().Bytes()}

	if status := query.Status(); status != nil {
		sql += " AND o.status = ?"
		args = append(args, int(*status))
	}

	sql += `
		GROUP BY o.id, t.status
		ORDER BY o.created_at DESC
	`

	return scanOrderSummaries(h.db.WithContext(ctx), sql, args...)
}
