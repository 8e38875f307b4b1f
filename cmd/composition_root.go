package cmd

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	httpin "messhall/internal/adapters/in/http"
	"messhall/internal/adapters/out/notification"
	"messhall/internal/adapters/out/payment"
	"messhall/internal/adapters/out/postgres"
	"messhall/internal/adapters/out/postgres/catalogrepo"
	"messhall/internal/adapters/out/postgres/orderrepo"
	"messhall/internal/core/application/usecases/commands"
	"messhall/internal/core/application/usecases/queries"
	"messhall/internal/core/ports"
	"messhall/internal/jobs"
)

const (
	defaultPaymentTimeout   = 10 * time.Second
	defaultCleanupSchedule  = "0 * * * *"
	defaultCleanupRetention = 24 * time.Hour
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	catalog    *catalogrepo.GormMenuCatalog
	bus        *notification.RoomBus
	gateway    *payment.HTTPGateway
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:    catalogrepo.NewGormMenuCatalog(gormDB),
		bus:        notification.NewRoomBus(),
		gateway: payment.NewHTTPGateway(
			config.PaymentGatewayURL,
			config.PaymentGatewayKey,
			parseDuration(config.PaymentTimeout, defaultPaymentTimeout),
		),
		logger: logger,
	}
}

// MigrateDB brings the order tables up to date.
func (c *CompositionRoot) MigrateDB() error {
	return c.gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.TransactionDTO{},
		&catalogrepo.MenuItemDTO{},
	)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.catalog, c.bus, c.logger)
}

func (c *CompositionRoot) CreateAddItemsCommandHandler() commands.AddItemsCommandHandler {
	return commands.NewAddItemsCommandHandler(c.orderUoWFactory(), c.catalog, c.bus, c.logger)
}

func (c *CompositionRoot) CreateCancelItemCommandHandler() commands.CancelItemCommandHandler {
	return commands.NewCancelItemCommandHandler(c.orderUoWFactory(), c.bus, c.logger)
}

func (c *CompositionRoot) CreateSetStatusCommandHandler() commands.SetStatusCommandHandler {
	return commands.NewSetStatusCommandHandler(c.orderUoWFactory(), c.bus, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.bus, c.logger)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.orderUoWFactory(), c.bus, c.logger)
}

func (c *CompositionRoot) CreateInitiatePaymentCommandHandler() commands.InitiatePaymentCommandHandler {
	return commands.NewInitiatePaymentCommandHandler(c.orderUoWFactory(), c.gateway, c.bus, c.logger)
}

func (c *CompositionRoot) CreateSettlePaymentCommandHandler() commands.SettlePaymentCommandHandler {
	return commands.NewSettlePaymentCommandHandler(c.orderUoWFactory(), c.bus, c.logger)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreatePurgeOrdersCommandHandler() commands.PurgeOrdersCommandHandler {
	return commands.NewPurgeOrdersCommandHandler(c.orderUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetVenueOrdersQueryHandler() queries.GetVenueOrdersQueryHandler {
	return queries.NewGetVenueOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every handler into the echo server.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateAddItemsCommandHandler(),
		c.CreateCancelItemCommandHandler(),
		c.CreateSetStatusCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateCompleteOrderCommandHandler(),
		c.CreateInitiatePaymentCommandHandler(),
		c.CreateSettlePaymentCommandHandler(),
		c.CreateDeleteOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetVenueOrdersQueryHandler(),
		c.CreateGetCustomerOrdersQueryHandler(),
		c.bus,
		c.config.SettlementCurrency,
	)
}

// CreateJobManager wires the background cleanup of stale orders.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	schedule := c.config.CleanupSchedule
	if schedule == "" {
		schedule = defaultCleanupSchedule
	}
	return jobs.NewJobManager(
		c.CreatePurgeOrdersCommandHandler(),
		schedule,
		parseDuration(c.config.CleanupRetention, defaultCleanupRetention),
		c.logger,
	)
}

// NotificationBus exposes the bus for anything publishing outside the
// command handlers.
func (c *CompositionRoot) NotificationBus() ports.NotificationBus {
	return c.bus
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
