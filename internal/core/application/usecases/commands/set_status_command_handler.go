package commands

import (
	"context"
	"log/slog"

	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
)

// SetStatusCommandHandler applies a staff fulfillment transition.
// Terminal orders reject every transition; a served order rejects
// cancellation. Transitions to cancelled cascade to the order lines.
type SetStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	bus        ports.NotificationBus
	logger     *slog.Logger
}

// NewSetStatusCommandHandler creates a handler for staff status transitions.
func NewSetStatusCommandHandler(
	uowFactory OrderUoWFactory,
	bus ports.NotificationBus,
	logger *slog.Logger,
) SetStatusCommandHandler {
	return SetStatusCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
		logger:     logger.With("component", "set_status"),
	}
}

// Handle processes the transition as one atomic read-modify-write.
func (h *SetStatusCommandHandler) Handle(ctx context.Context, cmd SetStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	target, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = cmd.Actor().authorize(target); err != nil {
		return nil, err
	}

	oldStatus := target.Status()
	if err = target.SetStatus(cmd.NextStatus()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order status changed",
		"order_id", target.ID(),
		"actor", cmd.Actor(),
		"old_status", oldStatus,
		"new_status", target.Status(),
	)
	publishOrderEvent(h.bus, target)

	return target, nil
}
