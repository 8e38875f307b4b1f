package commands

import (
	"context"
	"log/slog"
)

// PurgeOrdersCommandHandler deletes stale abandoned orders. Orders are
// re-checked for deletability after loading so an order that gained a
// transaction between the scan and the lock is skipped. No notifications are
// published; cleanup is invisible to subscribers.
type PurgeOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     *slog.Logger
}

// NewPurgeOrdersCommandHandler creates a handler for the cleanup operation.
func NewPurgeOrdersCommandHandler(uowFactory OrderUoWFactory, logger *slog.Logger) PurgeOrdersCommandHandler {
	return PurgeOrdersCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "purge_orders"),
	}
}

// Handle deletes every eligible order in one transaction and returns the
// number of orders removed.
func (h *PurgeOrdersCommandHandler) Handle(ctx context.Context, cmd PurgeOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	stale, err := repo.GetStaleDeletable(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, target := range stale {
		if !target.IsDeletable() {
			continue
		}
		if err = repo.Delete(ctx, target.ID()); err != nil {
			return 0, err
		}
		purged++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	if purged > 0 {
		h.logger.InfoContext(ctx, "stale orders purged",
			"count", purged,
			"cutoff", cmd.Cutoff(),
		)
	}

	return purged, nil
}
