package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"messhall/internal/core/application/usecases/commands"
	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) GetStaleDeletable(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockMenuCatalog struct{ mock.Mock }

func (m *MockMenuCatalog) Resolve(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]ports.MenuItemInfo, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]ports.MenuItemInfo), args.Error(1)
}

type MockNotificationBus struct{ mock.Mock }

func (m *MockNotificationBus) Publish(room string, event ports.OrderEvent) {
	m.Called(room, event)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Initiate(
	ctx context.Context,
	orderID kernel.UUID,
	amount int,
	currency string,
	returnURL string,
) (ports.PaymentSession, error) {
	args := m.Called(ctx, orderID, amount, currency, returnURL)
	return args.Get(0).(ports.PaymentSession), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newStoredOrder builds a pending order with one line, as Get would load it.
func newStoredOrder(t *testing.T, venueID, customerID kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 2, 250)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), venueID, customerID, nil, []*order.Item{item})
	require.NoError(t, err)
	return o
}

// expectPublished registers expectations for the fan-out to the venue's
// admin room and the order's own room.
func expectPublished(bus *MockNotificationBus, o *order.Order) {
	bus.On("Publish", ports.AdminRoom(o.VenueID()), mock.AnythingOfType("ports.OrderEvent")).Return().Once()
	bus.On("Publish", ports.OrderRoom(o.ID()), mock.AnythingOfType("ports.OrderEvent")).Return().Once()
}
