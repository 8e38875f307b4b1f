package commands

import (
	"context"
	"log/slog"

	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
)

// AddItemsCommandHandler appends lines to an open order.
// The whole batch is resolved against the catalog before any row is written;
// partial application is disallowed. On success the order re-opens: its
// status resets to pending and staff are flagged.
type AddItemsCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.MenuCatalog
	bus        ports.NotificationBus
	logger     *slog.Logger
}

// NewAddItemsCommandHandler creates a handler for the add-items operation.
func NewAddItemsCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.MenuCatalog,
	bus ports.NotificationBus,
	logger *slog.Logger,
) AddItemsCommandHandler {
	return AddItemsCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		bus:        bus,
		logger:     logger.With("component", "add_items"),
	}
}

// Handle processes the add-items command as one atomic read-modify-write.
func (h *AddItemsCommandHandler) Handle(ctx context.Context, cmd AddItemsCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items, err := resolveLines(ctx, h.catalog, cmd.Lines())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
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
	if err = target.AddItems(items); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "items added",
		"order_id", target.ID(),
		"actor", cmd.Actor(),
		"old_status", oldStatus,
		"new_status", target.Status(),
		"added", len(items),
	)
	publishOrderEvent(h.bus, target)

	return target, nil
}
