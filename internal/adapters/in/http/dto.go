package http

import (
	"time"

	"messhall/internal/core/application/usecases/queries"
	"messhall/internal/core/domain/model/order"
)

// Error is the uniform error body of the API.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderLineRequest is one requested line in a checkout or amendment body.
type OrderLineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CreateOrderRequest is the checkout body. Prices never appear here; they
// are resolved from the catalog on the server.
type CreateOrderRequest struct {
	VenueID string             `json:"venue_id"`
	TableID *string            `json:"table_id,omitempty"`
	Lines   []OrderLineRequest `json:"lines"`
}

// AddItemsRequest is the amendment body for an open order.
type AddItemsRequest struct {
	Lines []OrderLineRequest `json:"lines"`
}

// SetStatusRequest carries a staff fulfillment transition.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// InitiatePaymentRequest starts an online payment for an order.
type InitiatePaymentRequest struct {
	Method    string `json:"method"`
	ReturnURL string `json:"return_url"`
}

// PaymentCallbackRequest is the provider's settlement callback body.
type PaymentCallbackRequest struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	ExternalRef string `json:"external_ref"`
}

// OrderItemResponse is one order line in API responses.
type OrderItemResponse struct {
	ID          string  `json:"id"`
	MenuItemID  *string `json:"menu_item_id,omitempty"`
	Quantity    int     `json:"quantity"`
	Subtotal    int     `json:"subtotal"`
	IsCancelled bool    `json:"is_cancelled"`
}

// TransactionResponse is the payment attempt in API responses.
type TransactionResponse struct {
	ID          string `json:"id"`
	ExternalRef string `json:"external_ref"`
	Amount      int    `json:"amount"`
	Currency    string `json:"currency"`
	Method      string `json:"method"`
	Status      string `json:"status"`
}

// OrderResponse is the full order representation returned by mutations and
// the detail read. Total is derived from the live lines.
type OrderResponse struct {
	ID            string               `json:"id"`
	VenueID       string               `json:"venue_id"`
	CustomerID    string               `json:"customer_id"`
	TableID       *string              `json:"table_id,omitempty"`
	Status        string               `json:"status"`
	IsCancelled   bool                 `json:"is_cancelled"`
	HasAddedItems bool                 `json:"has_added_items"`
	Total         int                  `json:"total"`
	IsPaid        bool                 `json:"is_paid"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Items         []OrderItemResponse  `json:"items"`
	Transaction   *TransactionResponse `json:"transaction,omitempty"`
}

// OrderSummaryResponse is one row of a list endpoint.
type OrderSummaryResponse struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customer_id"`
	TableID       *string   `json:"table_id,omitempty"`
	Status        string    `json:"status"`
	IsCancelled   bool      `json:"is_cancelled"`
	HasAddedItems bool      `json:"has_added_items"`
	Total         int       `json:"total"`
	IsPaid        bool      `json:"is_paid"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentInitiationResponse is returned when an online payment starts.
type PaymentInitiationResponse struct {
	Order       OrderResponse `json:"order"`
	ExternalRef string        `json:"external_ref"`
	RedirectURL string        `json:"redirect_url"`
}

// orderToResponse maps a freshly mutated aggregate to the API shape.
func orderToResponse(o *order.Order) OrderResponse {
	var tableID *string
	if id := o.TableID(); id != nil {
		s := id.String()
		tableID = &s
	}

	items := make([]OrderItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		var menuItemID *string
		if id := item.MenuItemID(); id != nil {
			s := id.String()
			menuItemID = &s
		}
		items = append(items, OrderItemResponse{
			ID:          item.ID().String(),
			MenuItemID:  menuItemID,
			Quantity:    item.Quantity(),
			Subtotal:    item.Subtotal(),
			IsCancelled: item.IsCancelled(),
		})
	}

	var transaction *TransactionResponse
	if tx := o.Transaction(); tx != nil {
		transaction = &TransactionResponse{
			ID:          tx.ID().String(),
			ExternalRef: tx.ExternalRef(),
			Amount:      tx.Amount(),
			Currency:    tx.Currency(),
			Method:      tx.Method().String(),
			Status:      tx.Status().String(),
		}
	}

	return OrderResponse{
		ID:            o.ID().String(),
		VenueID:       o.VenueID().String(),
		CustomerID:    o.CustomerID().String(),
		TableID:       tableID,
		Status:        o.Status().String(),
		IsCancelled:   o.IsCancelled(),
		HasAddedItems: o.HasAddedItems(),
		Total:         o.TotalPrice(),
		IsPaid:        o.IsPaid(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
		Items:         items,
		Transaction:   transaction,
	}
}

// queryToResponse maps the read-side detail model to the API shape.
func queryToResponse(detail queries.GetOrderQueryResponse) OrderResponse {
	var tableID *string
	if detail.TableID != nil {
		s := detail.TableID.String()
		tableID = &s
	}

	items := make([]OrderItemResponse, 0, len(detail.Items))
	for _, item := range detail.Items {
		var menuItemID *string
		if item.MenuItemID != nil {
			s := item.MenuItemID.String()
			menuItemID = &s
		}
		items = append(items, OrderItemResponse{
			ID:          item.ID.String(),
			MenuItemID:  menuItemID,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
			IsCancelled: item.IsCancelled,
		})
	}

	var transaction *TransactionResponse
	if detail.Transaction != nil {
		transaction = &TransactionResponse{
			ID:          detail.Transaction.ID.String(),
			ExternalRef: detail.Transaction.ExternalRef,
			Amount:      detail.Transaction.Amount,
			Currency:    detail.Transaction.Currency,
			Method:      detail.Transaction.Method,
			Status:      detail.Transaction.Status,
		}
	}

	return OrderResponse{
		ID:            detail.ID.String(),
		VenueID:       detail.VenueID.String(),
		CustomerID:    detail.CustomerID.String(),
		TableID:       tableID,
		Status:        detail.Status,
		IsCancelled:   detail.IsCancelled,
		HasAddedItems: detail.HasAddedItems,
		Total:         detail.Total,
		IsPaid:        detail.IsPaid(),
		CreatedAt:     detail.CreatedAt,
		UpdatedAt:     detail.UpdatedAt,
		Items:         items,
		Transaction:   transaction,
	}
}

// summaryToResponse maps a list read model row to the API shape.
func summaryToResponse(summary queries.OrderSummaryResponse) OrderSummaryResponse {
	var tableID *string
	if summary.TableID != nil {
		s := summary.TableID.String()
		tableID = &s
	}

	return OrderSummaryResponse{
		ID:            summary.ID.String(),
		CustomerID:    summary.CustomerID.String(),
		TableID:       tableID,
		Status:        summary.Status,
		IsCancelled:   summary.IsCancelled,
		HasAddedItems: summary.HasAddedItems,
		Total:         summary.Total,
		IsPaid:        summary.IsPaid,
		CreatedAt:     summary.CreatedAt,
	}
}
