// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// per-order transaction management, persistence, and event publication
// after (never before) a successful commit.
package commands

import (
	"context"
	"errors"

	"messhall/internal/core/ports"
)

var (
	// ErrAccessDenied is returned when the acting identity does not own the
	// targeted order: a customer touching another customer's order, or staff
	// touching another venue's order.
	ErrAccessDenied = errors.New("access to order denied")

	// ErrItemNotFound is returned when a requested menu item id is unknown
	// to the catalog. The whole batch is rejected.
	ErrItemNotFound = errors.New("menu item not found")

	// ErrItemUnavailable is returned when a requested menu item is inactive
	// or out of stock. The whole batch is rejected.
	ErrItemUnavailable = errors.New("menu item unavailable")
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure each lifecycle operation runs as one atomic
// read-modify-write against the order aggregate.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order aggregate operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   repo := uow.OrderRepository()
	//   // ... load, mutate, update
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)
