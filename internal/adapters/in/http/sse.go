package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"messhall/internal/core/application/usecases/commands"
	"messhall/internal/core/application/usecases/queries"
	"messhall/internal/core/ports"
)

// heartbeatInterval is how often an SSE stream emits a comment line so
// dead connections are detected and proxies keep the stream open.
const heartbeatInterval = 15 * time.Second

// VenueEvents handles GET /venues/:venueID/events - the staff live feed of
// every order event in the venue. Only staff of that venue may subscribe.
func (s *Server) VenueEvents(ctx echo.Context) error {
	caller, err := identityFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	venueID, err := parseUUIDParam("venue id", ctx.Param("venueID"))
	if err != nil {
		return writeError(ctx, err)
	}

	if !caller.isStaff || !caller.id.IsEqual(venueID) {
		return writeError(ctx, commands.ErrAccessDenied)
	}

	return s.stream(ctx, ports.AdminRoom(venueID))
}

// OrderEvents handles GET /orders/:id/events - the live feed of one order.
// The order is loaded first so ownership is checked before the subscription
// starts.
func (s *Server) OrderEvents(ctx echo.Context) error {
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

	return s.stream(ctx, ports.OrderRoom(orderID))
}

// stream subscribes to a room and relays its events as server-sent events
// until the client disconnects. Delivery is at-most-once; clients reconcile
// missed events with a full-state read on reconnect.
func (s *Server) stream(ctx echo.Context, room string) error {
	response := ctx.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set(echo.HeaderCacheControl, "no-cache")
	response.Header().Set(echo.HeaderConnection, "keep-alive")
	response.WriteHeader(http.StatusOK)

	events := s.events.Subscribe(room)
	defer s.events.Unsubscribe(room, events)

	if _, err := fmt.Fprintf(response, ": subscribed %s\n\n", room); err != nil {
		return nil
	}
	response.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err = fmt.Fprintf(response, "event: order\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			response.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(response, ": ping\n\n"); err != nil {
				return nil
			}
			response.Flush()
		}
	}
}
