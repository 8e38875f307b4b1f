// Package http exposes the order lifecycle over an echo HTTP API.
// Authentication lives outside this module; the caller identity arrives in
// headers and is turned into a validated Actor before any use case runs.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"messhall/internal/core/application/usecases/commands"
	"messhall/internal/core/application/usecases/queries"
	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
	"messhall/internal/pkg/errs"
)

// Identity headers. Exactly one of the two selects the actor; the venue
// header wins when both are present so staff tooling can impersonate reads.
const (
	HeaderCustomerID = "X-Customer-ID"
	HeaderVenueID    = "X-Venue-ID"
)

// ErrIdentityRequired is returned when a request carries neither identity
// header.
var ErrIdentityRequired = errors.New("identity header required")

// EventStream is the subscription side of the notification bus, used by the
// SSE endpoints. The write side stays behind ports.NotificationBus.
type EventStream interface {
	Subscribe(room string) chan ports.OrderEvent
	Unsubscribe(room string, ch chan ports.OrderEvent)
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	addItemsHandler        commands.AddItemsCommandHandler
	cancelItemHandler      commands.CancelItemCommandHandler
	setStatusHandler       commands.SetStatusCommandHandler
	cancelOrderHandler     commands.CancelOrderCommandHandler
	completeOrderHandler   commands.CompleteOrderCommandHandler
	initiatePaymentHandler commands.InitiatePaymentCommandHandler
	settlePaymentHandler   commands.SettlePaymentCommandHandler
	deleteOrderHandler     commands.DeleteOrderCommandHandler

	// Query handlers
	getOrderHandler          queries.GetOrderQueryHandler
	getVenueOrdersHandler    queries.GetVenueOrdersQueryHandler
	getCustomerOrdersHandler queries.GetCustomerOrdersQueryHandler

	// Live event subscriptions for the SSE endpoints
	events EventStream

	settlementCurrency string
}

// NewServer creates an HTTP server wired to the application's command and
// query handlers. settlementCurrency is the currency payments settle in.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	addItemsHandler commands.AddItemsCommandHandler,
	cancelItemHandler commands.CancelItemCommandHandler,
	setStatusHandler commands.SetStatusCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	completeOrderHandler commands.CompleteOrderCommandHandler,
	initiatePaymentHandler commands.InitiatePaymentCommandHandler,
	settlePaymentHandler commands.SettlePaymentCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getVenueOrdersHandler queries.GetVenueOrdersQueryHandler,
	getCustomerOrdersHandler queries.GetCustomerOrdersQueryHandler,
	events EventStream,
	settlementCurrency string,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		addItemsHandler:          addItemsHandler,
		cancelItemHandler:        cancelItemHandler,
		setStatusHandler:         setStatusHandler,
		cancelOrderHandler:       cancelOrderHandler,
		completeOrderHandler:     completeOrderHandler,
		initiatePaymentHandler:   initiatePaymentHandler,
		settlePaymentHandler:     settlePaymentHandler,
		deleteOrderHandler:       deleteOrderHandler,
		getOrderHandler:          getOrderHandler,
		getVenueOrdersHandler:    getVenueOrdersHandler,
		getCustomerOrdersHandler: getCustomerOrdersHandler,
		events:                   events,
		settlementCurrency:       settlementCurrency,
	}
}

// RegisterRoutes attaches every endpoint to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	e.POST("/orders", s.CreateOrder)
	e.GET("/orders", s.ListOrders)
	e.GET("/orders/:id", s.GetOrder)
	e.DELETE("/orders/:id", s.DeleteOrder)
	e.POST("/orders/:id/items", s.AddItems)
	e.POST("/orders/:id/items/:itemID/cancel", s.CancelItem)
	e.POST("/orders/:id/status", s.SetStatus)
	e.POST("/orders/:id/cancel", s.CancelOrder)
	e.POST("/orders/:id/complete", s.CompleteOrder)
	e.POST("/orders/:id/payment", s.InitiatePayment)
	e.POST("/payments/callback", s.PaymentCallback)

	e.GET("/orders/:id/events", s.OrderEvents)
	e.GET("/venues/:venueID/events", s.VenueEvents)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /orders - places a new order as the calling
// customer.
func (s *Server) CreateOrder(ctx echo.Context) error {
	_, customerID, err := customerFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var body CreateOrderRequest
	if err = ctx.Bind(&body); err != nil {
		return badBody(ctx)
	}

	venueID, err := parseUUIDParam("venue id", body.VenueID)
	if err != nil {
		return writeError(ctx, err)
	}

	var tableID *kernel.UUID
	if body.TableID != nil {
		parsed, parseErr := parseUUIDParam("table id", *body.TableID)
		if parseErr != nil {
			return writeError(ctx, parseErr)
		}
		tableID = &parsed
	}

	lines, err := linesFromRequest(body.Lines)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), venueID, customerID, tableID, lines)
	if err != nil {
		return writeError(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderToResponse(created))
}

// GetOrder handles GET /orders/:id - the full-state read. The read model is
// loaded first and the caller checked against it, so customers see only
// their own orders and staff only their venue's.
func (s *Server) GetOrder(ctx echo.Context) error {
	caller, err := identityFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := parseUUIDParam("order id", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	detail, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	if !caller.owns(detail.VenueID, detail.CustomerID) {
		return writeError(ctx, commands.ErrAccessDenied)
	}

	return ctx.JSON(http.StatusOK, queryToResponse(detail))
}

// ListOrders handles GET /orders. The identity header selects the view:
// staff get their venue's board (optionally ?status= filtered), customers
// get their own order history across venues.
func (s *Server) ListOrders(ctx echo.Context) error {
	caller, err := identityFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var summaries []queries.OrderSummaryResponse
	if caller.isStaff {
		var filter *order.Status
		if raw := ctx.QueryParam("status"); raw != "" {
			parsed, parseErr := order.StatusFromString(raw)
			if parseErr != nil {
				return writeError(ctx, parseErr)
			}
			filter = &parsed
		}

		query, queryErr := queries.NewGetVenueOrdersQuery(caller.id, filter)
		if queryErr != nil {
			return writeError(ctx, queryErr)
		}
		summaries, err = s.getVenueOrdersHandler.Handle(ctx.Request().Context(), query)
	} else {
		query, queryErr := queries.NewGetCustomerOrdersQuery(caller.id)
		if queryErr != nil {
			return writeError(ctx, queryErr)
		}
		summaries, err = s.getCustomerOrdersHandler.Handle(ctx.Request().Context(), query)
	}
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]OrderSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, summaryToResponse(summary))
	}

	return ctx.JSON(http.StatusOK, response)
}

// AddItems handles POST /orders/:id/items - amends an open order with more
// lines.
func (s *Server) AddItems(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := parseUUIDParam("order id", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var body AddItemsRequest
	if err = ctx.Bind(&body); err != nil {
		return badBody(ctx)
	}

	lines, err := linesFromRequest(body.Lines)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAddItemsCommand(orderID, actor, lines)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.addItemsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// CancelItem handles POST /orders/:id/items/:itemID/cancel - cancels one
// line; cancelling the last live line cancels the order.
func (s *Server) CancelItem(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := parseUUIDParam("order id", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	itemID, err := parseUUIDParam("item id", ctx.Param("itemID"))
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCancelItemCommand(orderID, itemID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.cancelItemHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// SetStatus handles POST /orders/:id/status - a staff fulfillment
// transition.
func (s *Server) SetStatus(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := parseUUIDParam("order id", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var body SetStatusRequest
	if err = ctx.Bind(&body); err != nil {
		return badBody(ctx)
	}

	next, err := order.StatusFromString(body.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewSetStatusCommand(orderID, actor, next)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.setStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// CancelOrder handles POST /orders/:id/cancel - cancels the whole order.
func (s *Server) CancelOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := parseUUIDParam("order id", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// CompleteOrder handles POST /orders/:id/complete - staff close a served
// order; unpaid orders settle as cash.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := parseUUIDParam("order id", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCompleteOrderCommand(orderID, actor, s.settlementCurrency)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.completeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// InitiatePayment handles POST /orders/:id/payment - starts an online
// payment and returns the provider redirect.
func (s *Server) InitiatePayment(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := parseUUIDParam("order id", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var body InitiatePaymentRequest
	if err = ctx.Bind(&body); err != nil {
		return badBody(ctx)
	}

	method, err := order.PaymentMethodFromString(body.Method)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewInitiatePaymentCommand(
		orderID, actor, method, s.settlementCurrency, body.ReturnURL,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	initiation, err := s.initiatePaymentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, PaymentInitiationResponse{
		Order:       orderToResponse(initiation.Order),
		ExternalRef: initiation.Session.ExternalRef,
		RedirectURL: initiation.Session.RedirectURL,
	})
}

// PaymentCallback handles POST /payments/callback - the provider's
// settlement callback. No identity headers; the provider authenticates out
// of band and retries are safe.
func (s *Server) PaymentCallback(ctx echo.Context) error {
	var body PaymentCallbackRequest
	if err := ctx.Bind(&body); err != nil {
		return badBody(ctx)
	}

	orderID, err := parseUUIDParam("order id", body.OrderID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewSettlePaymentCommand(orderID, body.Status == "success", body.ExternalRef)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.settlePaymentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// DeleteOrder handles DELETE /orders/:id - administrative removal of a
// pending or cancelled unpaid order.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := parseUUIDParam("order id", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.deleteOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// identity is the parsed caller before it becomes a command Actor. Reads
// scope access with it directly.
type identity struct {
	id      kernel.UUID
	isStaff bool
}

func (i identity) owns(venueID, customerID kernel.UUID) bool {
	if i.isStaff {
		return venueID.IsEqual(i.id)
	}
	return customerID.IsEqual(i.id)
}

func identityFromHeaders(ctx echo.Context) (identity, error) {
	if raw := ctx.Request().Header.Get(HeaderVenueID); raw != "" {
		id, err := parseUUIDParam("identity header", raw)
		if err != nil {
			return identity{}, err
		}
		return identity{id: id, isStaff: true}, nil
	}
	if raw := ctx.Request().Header.Get(HeaderCustomerID); raw != "" {
		id, err := parseUUIDParam("identity header", raw)
		if err != nil {
			return identity{}, err
		}
		return identity{id: id}, nil
	}
	return identity{}, ErrIdentityRequired
}

func actorFromHeaders(ctx echo.Context) (commands.Actor, error) {
	caller, err := identityFromHeaders(ctx)
	if err != nil {
		return commands.Actor{}, err
	}
	if caller.isStaff {
		return commands.NewStaffActor(caller.id)
	}
	return commands.NewCustomerActor(caller.id)
}

// customerFromHeaders resolves a customer actor and its id for endpoints
// only customers may call.
func customerFromHeaders(ctx echo.Context) (commands.Actor, kernel.UUID, error) {
	raw := ctx.Request().Header.Get(HeaderCustomerID)
	if raw == "" {
		return commands.Actor{}, kernel.UUID{}, ErrIdentityRequired
	}
	customerID, err := parseUUIDParam("identity header", raw)
	if err != nil {
		return commands.Actor{}, kernel.UUID{}, err
	}
	actor, err := commands.NewCustomerActor(customerID)
	if err != nil {
		return commands.Actor{}, kernel.UUID{}, err
	}
	return actor, customerID, nil
}

// parseUUIDParam parses an id arriving on the wire, classifying failures as
// invalid-value so they map to a client error instead of a server fault.
func parseUUIDParam(name, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func linesFromRequest(lines []OrderLineRequest) ([]commands.OrderLine, error) {
	parsed := make([]commands.OrderLine, 0, len(lines))
	for _, line := range lines {
		menuItemID, err := parseUUIDParam("menu item id", line.MenuItemID)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, commands.OrderLine{
			MenuItemID: menuItemID,
			Quantity:   line.Quantity,
		})
	}
	return parsed, nil
}

func badBody(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: "Invalid request body",
	})
}

// writeError maps application and domain errors to HTTP statuses. Unmatched
// errors are an internal fault.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, ErrIdentityRequired):
		status = http.StatusUnauthorized
	case errors.Is(err, commands.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, commands.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrConflictingTransition),
		errors.Is(err, order.ErrAlreadySettled),
		errors.Is(err, order.ErrNoPendingTransaction),
		errors.Is(err, commands.ErrOrderNotDeletable):
		status = http.StatusConflict
	case errors.Is(err, commands.ErrItemUnavailable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ports.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, order.ErrNoItems),
		errors.Is(err, commands.ErrStaffActorRequired),
		errors.Is(err, commands.ErrCashIsNotInitiable):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, Error{Code: status, Message: err.Error()})
}
