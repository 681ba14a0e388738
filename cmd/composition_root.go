package cmd

import (
	"log/slog"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/notificationrepo"
	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/core/application/notifications"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	notifier   ports.EventNotifier
	pricing    services.PricingEngine
	promos     *ledgers.PromoLedger
	loyalty    *ledgers.LoyaltyLedger
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	notifier ports.EventNotifier,
	rules ports.RuleEvaluator,
	logger *slog.Logger,
) CompositionRoot {
	clock := kernel.SystemClock
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		notifier:   notifier,
		pricing:    services.NewPricingEngine(cfg.BaseDeliveryFee),
		promos:     ledgers.NewPromoLedger(rules, clock),
		loyalty:    ledgers.NewLoyaltyLedger(clock),
		clock:      clock,
		logger:     logger,
	}
}

// NewNotifier builds the notification fanout: realtime first, then every
// configured side channel, with one record per attempt.
func NewNotifier(
	realtime ports.RealtimePublisher,
	gormDB *gorm.DB,
	logger *slog.Logger,
	senders ...ports.ChannelSender,
) *notifications.Fanout {
	return notifications.NewFanout(
		realtime,
		catalogrepo.NewGormCatalogRepository(gormDB),
		notificationrepo.NewGormNotificationRepository(gormDB),
		logger,
		kernel.SystemClock,
		senders...,
	)
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) deliveryUoW() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) loyaltyUoW() commands.LoyaltyUoWFactory {
	return FuncLoyaltyUoWFactory(func() commands.LoyaltyUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), c.pricing, c.promos, c.loyalty, c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.uow(), c.loyalty, c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoW(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.orderUoW(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateAcceptDeliveryCommandHandler() commands.AcceptDeliveryCommandHandler {
	return commands.NewAcceptDeliveryCommandHandler(c.uow(), c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	return commands.NewUpdateDeliveryStatusCommandHandler(c.uow(), c.loyalty, c.notifier, c.clock)
}

func (c *CompositionRoot) CreateUpdateDeliveryLocationCommandHandler() commands.UpdateDeliveryLocationCommandHandler {
	return commands.NewUpdateDeliveryLocationCommandHandler(c.deliveryUoW(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateUpdateDeliveryETACommandHandler() commands.UpdateDeliveryETACommandHandler {
	return commands.NewUpdateDeliveryETACommandHandler(c.deliveryUoW(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateRedeemPointsCommandHandler() commands.RedeemPointsCommandHandler {
	return commands.NewRedeemPointsCommandHandler(c.loyaltyUoW(), c.loyalty)
}

func (c *CompositionRoot) CreateAddBonusPointsCommandHandler() commands.AddBonusPointsCommandHandler {
	return commands.NewAddBonusPointsCommandHandler(c.loyaltyUoW(), c.loyalty, c.notifier)
}

func (c *CompositionRoot) CreateStartScheduledOrdersCommandHandler() commands.StartScheduledOrdersCommandHandler {
	return commands.NewStartScheduledOrdersCommandHandler(c.orderUoW(), c.notifier, c.logger)
}

func (c *CompositionRoot) CreateCancelAbandonedOrdersCommandHandler() commands.CancelAbandonedOrdersCommandHandler {
	return commands.NewCancelAbandonedOrdersCommandHandler(c.orderUoW(), c.notifier, c.logger)
}

func (c *CompositionRoot) CreateExpirePointsCommandHandler() commands.ExpirePointsCommandHandler {
	return commands.NewExpirePointsCommandHandler(c.loyaltyUoW(), c.loyalty, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListAvailableDeliveriesQueryHandler() queries.ListAvailableDeliveriesQueryHandler {
	return queries.NewListAvailableDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListDriverDeliveriesQueryHandler() queries.ListDriverDeliveriesQueryHandler {
	return queries.NewListDriverDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryTrackingQueryHandler() queries.GetDeliveryTrackingQueryHandler {
	return queries.NewGetDeliveryTrackingQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateValidatePromoCodeQueryHandler() queries.ValidatePromoCodeQueryHandler {
	readers := FuncPromoReaderFactory(func() queries.PromoReader {
		return c.uowFactory.Create()
	})
	return queries.NewValidatePromoCodeQueryHandler(readers, c.promos, c.clock)
}

func (c *CompositionRoot) CreateGetLoyaltyProgramQueryHandler() queries.GetLoyaltyProgramQueryHandler {
	return queries.NewGetLoyaltyProgramQueryHandler(c.gormDB, c.clock)
}

// HTTPHandlers collects the use cases served by the HTTP adapter.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateOrder:             c.CreateCreateOrderCommandHandler(),
		TransitionOrder:         c.CreateTransitionOrderCommandHandler(),
		CancelOrder:             c.CreateCancelOrderCommandHandler(),
		RecordPayment:           c.CreateRecordPaymentCommandHandler(),
		AcceptDelivery:          c.CreateAcceptDeliveryCommandHandler(),
		UpdateDeliveryStatus:    c.CreateUpdateDeliveryStatusCommandHandler(),
		UpdateDeliveryLocation:  c.CreateUpdateDeliveryLocationCommandHandler(),
		UpdateDeliveryETA:       c.CreateUpdateDeliveryETACommandHandler(),
		RedeemPoints:            c.CreateRedeemPointsCommandHandler(),
		AddBonusPoints:          c.CreateAddBonusPointsCommandHandler(),
		GetOrder:                c.CreateGetOrderQueryHandler(),
		ListAvailableDeliveries: c.CreateListAvailableDeliveriesQueryHandler(),
		ListDriverDeliveries:    c.CreateListDriverDeliveriesQueryHandler(),
		GetDeliveryTracking:     c.CreateGetDeliveryTrackingQueryHandler(),
		ValidatePromoCode:       c.CreateValidatePromoCodeQueryHandler(),
		GetLoyaltyProgram:       c.CreateGetLoyaltyProgramQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateStartScheduledOrdersCommandHandler(),
		c.CreateCancelAbandonedOrdersCommandHandler(),
		c.CreateExpirePointsCommandHandler(),
		c.cfg.Schedules,
		c.clock,
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncLoyaltyUoWFactory func() commands.LoyaltyUoW

func (f FuncLoyaltyUoWFactory) Create() commands.LoyaltyUoW {
	return f()
}

type FuncPromoReaderFactory func() queries.PromoReader

func (f FuncPromoReaderFactory) Create() queries.PromoReader {
	return f()
}
