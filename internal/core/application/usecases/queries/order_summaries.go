package queries

import (
	"time"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// scanOrderSummaries runs an aggregated order list query and maps the rows
// into summary read models. Shared by the venue board and customer history
// handlers, whose selects produce identical columns.
func scanOrderSummaries(db *gorm.DB, sql string, args ...any) ([]OrderSummaryResponse, error) {
	rows, err := db.Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]OrderSummaryResponse, 0)

	for rows.Next() {
		var (
			summary    OrderSummaryResponse
			id         uuid.UUID
			customerID uuid.UUID
			tableID    *uuid.UUID
			status     int
			createdAt  time.Time
		)

		err = rows.Scan(
			&id,
			&customerID,
			&tableID,
			&status,
			&summary.IsCancelled,
			&summary.HasAddedItems,
			&summary.Total,
			&summary.IsPaid,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if summary.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
			return nil, err
		}
		if tableID != nil {
			tID, tableErr := kernel.UUIDFromBytes((*tableID)[:])
			if tableErr != nil {
				return nil, tableErr
			}
			summary.TableID = &tID
		}

		summary.Status = order.Status(status).String()
		summary.CreatedAt = createdAt
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
