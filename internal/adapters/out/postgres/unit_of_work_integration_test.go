package postgres_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	postgres_adapter "marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/adapters/out/postgres/promorepo"
	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/loyalty"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM unit of work and its
// repositories against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(postgres_adapter.TruncateAll(suite.db))
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestOrder(customerID kernel.UUID) *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), "Margherita", 2, kernel.MustParseMoney("12.99"), "no basil")
	if err != nil {
		panic(err)
	}
	o, err := order.NewOrder(order.Draft{
		ID:                    kernel.NewUUID(),
		CustomerID:            customerID,
		Items:                 []order.Item{item},
		DeliveryAddress:       "12 Abay Ave",
		CustomerPhone:         "+77010000000",
		EstimatedDeliveryTime: testNow.Add(50 * time.Minute),
	}, order.Pricing{
		Subtotal:    kernel.MustParseMoney("25.98"),
		DeliveryFee: kernel.MustParseMoney("5.00"),
		Total:       kernel.MustParseMoney("30.98"),
	}, testNow)
	if err != nil {
		panic(err)
	}
	return o
}

// seedOrderWithDelivery stores an order in the given status with its pending delivery.
func (suite *UnitOfWorkIntegrationTestSuite) seedOrderWithDelivery(status order.Status) (*order.Order, *delivery.Delivery) {
	ctx := context.Background()
	o := newTestOrder(kernel.NewUUID())
	for _, step := range []order.Status{order.Paid, order.Preparing, order.Ready, order.OutForDelivery} {
		if o.Status() == status {
			break
		}
		suite.Require().NoError(o.Transition(step, testNow))
	}
	d, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), o.CustomerID(), testNow)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, d))
	suite.Require().NoError(uow.Commit(ctx))
	return o, d
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.DeliveryRepository())
	suite.NotNil(uow1.PromoRepository())
	suite.NotNil(uow1.LoyaltyRepository())
	suite.NotNil(uow1.CatalogRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction, "Rollback after commit is a no-op error")
	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersistsOrderWithItemsAndDelivery() {
	ctx := context.Background()
	o, d := suite.seedOrderWithDelivery(order.Pending)

	uow := suite.factory.Create()
	stored, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Pending, stored.Status())
	suite.Equal(order.PaymentPending, stored.PaymentStatus())
	suite.Equal("30.98", stored.TotalAmount().String())
	suite.Equal("25.98", stored.Subtotal().String())
	suite.Require().Len(stored.Items(), 1)
	suite.Equal("no basil", stored.Items()[0].SpecialInstructions())

	storedDelivery, err := uow.DeliveryRepository().GetByOrderID(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(d.ID(), storedDelivery.ID())
	suite.Equal(delivery.Pending, storedDelivery.Status())
	suite.Nil(storedDelivery.DriverID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsChanges() {
	ctx := context.Background()
	o := newTestOrder(kernel.NewUUID())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_DuplicateDeliveryForOrderIsConflict() {
	ctx := context.Background()
	o, _ := suite.seedOrderWithDelivery(order.Pending)

	second, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), o.CustomerID(), testNow)
	suite.Require().NoError(err)

	err = suite.factory.Create().DeliveryRepository().Add(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StaleOrderUpdateIsConflict() {
	ctx := context.Background()
	o, _ := suite.seedOrderWithDelivery(order.Pending)
	repo := suite.factory.Create().OrderRepository()

	first, err := repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := repo.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.Cancel(testNow))
	suite.Require().NoError(repo.Update(ctx, first))

	suite.Require().NoError(second.Transition(order.Paid, testNow))
	err = repo.Update(ctx, second)

	var conflict *errs.ConflictError
	suite.Require().ErrorAs(err, &conflict)
	suite.Equal("cancelled", conflict.CurrentStatus)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_GetForUpdateSeesItems() {
	ctx := context.Background()
	o, _ := suite.seedOrderWithDelivery(order.Ready)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()

	locked, err := uow.OrderRepository().GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Ready, locked.Status())
	suite.Len(locked.Items(), 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentAcceptHasSingleWinner() {
	ctx := context.Background()
	_, d := suite.seedOrderWithDelivery(order.Ready)

	const drivers = 6
	var (
		wg        sync.WaitGroup
		won       atomic.Int32
		conflicts atomic.Int32
		others    atomic.Int32
	)
	for range drivers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := suite.claim(ctx, d.ID(), kernel.NewUUID())
			switch {
			case err == nil:
				won.Add(1)
			case errors.Is(err, errs.ErrConflict):
				conflicts.Add(1)
			default:
				others.Add(1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(1), won.Load())
	suite.Equal(int32(drivers-1), conflicts.Load())
	suite.Zero(others.Load())

	stored, err := suite.factory.Create().DeliveryRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.Assigned, stored.Status())
	suite.NotNil(stored.DriverID())
}

func (suite *UnitOfWorkIntegrationTestSuite) claim(ctx context.Context, deliveryID, driverID kernel.UUID) error {
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	d, err := uow.DeliveryRepository().Get(ctx, deliveryID)
	if err != nil {
		return err
	}
	if err = d.Accept(driverID, testNow); err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentLocationUpdatesKeepEveryPoint() {
	ctx := context.Background()
	_, d := suite.seedOrderWithDelivery(order.Ready)
	driverID := kernel.NewUUID()
	suite.Require().NoError(suite.claim(ctx, d.ID(), driverID))

	const updates = 6
	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)
	for i := range updates {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := suite.recordLocation(ctx, d.ID(), driverID, 43.2+float64(i)/100); err != nil {
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	suite.Zero(failed.Load())
	stored, err := suite.factory.Create().DeliveryRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Len(stored.LocationHistory(), updates)
}

func (suite *UnitOfWorkIntegrationTestSuite) recordLocation(ctx context.Context, deliveryID, driverID kernel.UUID, lat float64) error {
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, deliveryID)
	if err != nil {
		return err
	}
	point, err := kernel.NewGeoPoint(lat, 76.9)
	if err != nil {
		return err
	}
	if err = d.RecordLocation(driverID, point, testNow); err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_DeliveryLocationHistoryRoundTrip() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	_, d := suite.seedOrderWithDelivery(order.Ready)
	suite.Require().NoError(suite.claim(ctx, d.ID(), driverID))

	repo := suite.factory.Create().DeliveryRepository()
	stored, err := repo.Get(ctx, d.ID())
	suite.Require().NoError(err)

	point, err := kernel.NewGeoPoint(43.238949, 76.889709)
	suite.Require().NoError(err)
	suite.Require().NoError(stored.RecordLocation(driverID, point, testNow.Add(time.Minute)))
	distance := decimal.RequireFromString("3.40")
	suite.Require().NoError(stored.SetEstimatedArrival(driverID, 12, &distance, testNow.Add(time.Minute)))
	suite.Require().NoError(repo.Update(ctx, stored))

	reloaded, err := repo.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(reloaded.CurrentLocation())
	suite.InDelta(43.238949, reloaded.CurrentLocation().Point.Lat(), 1e-9)
	suite.Len(reloaded.LocationHistory(), 1)
	suite.Require().NotNil(reloaded.Distance())
	suite.Equal("3.4", reloaded.Distance().String())
	suite.NotNil(reloaded.EstimatedArrival())
}

func (suite *UnitOfWorkIntegrationTestSuite) seedPromo(maxUsage *int64) *promo.PromoCode {
	snapshot := promo.Snapshot{
		ID:                  kernel.NewUUID(),
		Code:                "save10",
		DiscountType:        promo.Percentage,
		DiscountValue:       decimal.NewFromInt(10),
		MinOrderAmount:      kernel.ZeroMoney(),
		MaxUsageCount:       maxUsage,
		MaxUsagePerCustomer: 1,
		ValidFrom:           testNow.Add(-24 * time.Hour),
		ValidUntil:          testNow.Add(24 * time.Hour),
		IsActive:            true,
	}
	dto := promorepo.FromSnapshot(snapshot)
	suite.Require().NoError(suite.db.Create(&dto).Error)

	p, err := promo.RestorePromoCode(snapshot)
	suite.Require().NoError(err)
	return p
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_PromoLookupIsCaseInsensitive() {
	ctx := context.Background()
	seeded := suite.seedPromo(nil)

	found, err := suite.factory.Create().PromoRepository().GetByCode(ctx, " Save10 ")
	suite.Require().NoError(err)
	suite.Equal(seeded.ID(), found.ID())
	suite.Equal("SAVE10", found.Code())

	_, err = suite.factory.Create().PromoRepository().GetByCode(ctx, "missing")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_PromoUsageCapHoldsUnderConcurrency() {
	ctx := context.Background()
	limit := int64(2)
	p := suite.seedPromo(&limit)

	const customers = 8
	var (
		wg      sync.WaitGroup
		applied atomic.Int32
		refused atomic.Int32
	)
	for range customers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := suite.recordUsage(ctx, p.Code(), kernel.NewUUID())
			switch {
			case err == nil:
				applied.Add(1)
			case errors.Is(err, errs.ErrConflict):
				refused.Add(1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(limit), applied.Load())
	suite.Equal(int32(customers-limit), refused.Load())

	var usages int64
	suite.Require().NoError(suite.db.Model(&promorepo.UsageDTO{}).Count(&usages).Error)
	suite.Equal(limit, usages)

	stored, err := suite.factory.Create().PromoRepository().GetByCode(ctx, p.Code())
	suite.Require().NoError(err)
	suite.Equal(limit, stored.CurrentUsageCount())
}

func (suite *UnitOfWorkIntegrationTestSuite) recordUsage(ctx context.Context, code string, customerID kernel.UUID) error {
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	repo := uow.PromoRepository()
	p, err := repo.LockByCode(ctx, code)
	if err != nil {
		return err
	}
	usage, err := promo.NewUsage(p.ID(), kernel.NewUUID(), customerID, kernel.MustParseMoney("3.10"), testNow)
	if err != nil {
		return err
	}
	if err = repo.RecordUsage(ctx, usage); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_PromoCodesAreUniqueIgnoringCase() {
	suite.seedPromo(nil)

	err := suite.db.Exec(
		`INSERT INTO promo_codes (id, code, discount_type, discount_value, valid_from, valid_until)
		VALUES (?, 'save10', 'percentage', 5, ?, ?)`,
		kernel.NewUUID().String(), testNow, testNow.Add(time.Hour),
	).Error
	suite.True(pgerr.IsUniqueViolation(err), "lower-case duplicate must be rejected: %v", err)

	dto := promorepo.FromSnapshot(promo.Snapshot{
		ID:                  kernel.NewUUID(),
		Code:                "Save10",
		DiscountType:        promo.FixedAmount,
		DiscountValue:       decimal.NewFromInt(3),
		MinOrderAmount:      kernel.ZeroMoney(),
		MaxUsagePerCustomer: 1,
		ValidFrom:           testNow,
		ValidUntil:          testNow.Add(time.Hour),
		IsActive:            true,
	})
	suite.True(pgerr.IsUniqueViolation(suite.db.Create(&dto).Error))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_PromoPerCustomerLimitHoldsUnderConcurrency() {
	ctx := context.Background()
	p := suite.seedPromo(nil)
	customerID := kernel.NewUUID()
	ledger := ledgers.NewPromoLedger(nil, func() time.Time { return testNow })

	const attempts = 5
	var (
		wg       sync.WaitGroup
		applied  atomic.Int32
		rejected atomic.Int32
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := suite.applyPromo(ctx, ledger, "save10", customerID)
			var rejection *promo.RejectionError
			switch {
			case err == nil:
				applied.Add(1)
			case errors.As(err, &rejection) && rejection.Reason == promo.ReasonCustomerLimitReached:
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(1), applied.Load())
	suite.Equal(int32(attempts-1), rejected.Load())

	count, err := suite.factory.Create().PromoRepository().CountCustomerUsages(ctx, p.ID(), customerID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)

	stored, err := suite.factory.Create().PromoRepository().GetByCode(ctx, p.Code())
	suite.Require().NoError(err)
	suite.Equal(int64(1), stored.CurrentUsageCount())
}

func (suite *UnitOfWorkIntegrationTestSuite) applyPromo(ctx context.Context, ledger *ledgers.PromoLedger, code string, customerID kernel.UUID) error {
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	_, err := ledger.Apply(ctx, uow.PromoRepository(), code, kernel.NewUUID(), promo.Request{
		OrderAmount: kernel.MustParseMoney("30.98"),
		DeliveryFee: kernel.MustParseMoney("5.00"),
		CustomerID:  customerID,
		Now:         testNow,
	})
	if err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CustomerUsagesAreCounted() {
	ctx := context.Background()
	p := suite.seedPromo(nil)
	customerID := kernel.NewUUID()

	repo := suite.factory.Create().PromoRepository()
	usage, err := promo.NewUsage(p.ID(), kernel.NewUUID(), customerID, kernel.MustParseMoney("1.00"), testNow)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.RecordUsage(ctx, usage))

	count, err := repo.CountCustomerUsages(ctx, p.ID(), customerID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)

	count, err = repo.CountCustomerUsages(ctx, p.ID(), kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Zero(count)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_LoyaltyGetOrCreateIsIdempotent() {
	ctx := context.Background()
	customerID := kernel.NewUUID()

	var (
		wg  sync.WaitGroup
		ids sync.Map
	)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := suite.factory.Create()
			if err := uow.Begin(ctx); err != nil {
				return
			}
			defer func() { _ = uow.Rollback(ctx) }()
			p, err := uow.LoyaltyRepository().GetOrCreate(ctx, customerID)
			if err != nil {
				return
			}
			ids.Store(p.ID().String(), true)
			_ = uow.Commit(ctx)
		}()
	}
	wg.Wait()

	distinct := 0
	ids.Range(func(_, _ any) bool {
		distinct++
		return true
	})
	suite.Equal(1, distinct)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_LoyaltySaveAppendsLedgerAtomically() {
	ctx := context.Background()
	customerID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	repo := uow.LoyaltyRepository()
	p, err := repo.GetOrCreate(ctx, customerID)
	suite.Require().NoError(err)

	_, err = p.Earn(kernel.NewUUID(), kernel.MustParseMoney("30.98"), testNow)
	suite.Require().NoError(err)
	_, err = p.AddBonus(500, "", testNow)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Save(ctx, p))
	suite.Empty(p.PendingTransactions())
	suite.Require().NoError(uow.Commit(ctx))

	reloaded, err := suite.factory.Create().LoyaltyRepository().GetForUpdate(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(809), reloaded.Points())
	suite.Equal(int64(809), reloaded.TotalPointsEarned())

	due, err := suite.factory.Create().LoyaltyRepository().ListDueTransactions(ctx, testNow.Add(loyalty.PointsLifetime), 10)
	suite.Require().NoError(err)
	suite.Len(due, 2)

	notYet, err := suite.factory.Create().LoyaltyRepository().ListDueTransactions(ctx, testNow, 10)
	suite.Require().NoError(err)
	suite.Empty(notYet)

	suite.Require().NoError(suite.factory.Create().LoyaltyRepository().MarkProcessed(ctx, due[0].ID))
	remaining, err := suite.factory.Create().LoyaltyRepository().ListDueTransactions(ctx, testNow.Add(loyalty.PointsLifetime), 10)
	suite.Require().NoError(err)
	suite.Len(remaining, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentRedeemNeverOverdraws() {
	ctx := context.Background()
	customerID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	p, err := uow.LoyaltyRepository().GetOrCreate(ctx, customerID)
	suite.Require().NoError(err)
	_, err = p.AddBonus(500, "", testNow)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.LoyaltyRepository().Save(ctx, p))
	suite.Require().NoError(uow.Commit(ctx))

	ledger := ledgers.NewLoyaltyLedger(func() time.Time { return testNow })
	const attempts = 8
	var (
		wg           sync.WaitGroup
		redeemed     atomic.Int32
		insufficient atomic.Int32
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := suite.redeem(ctx, ledger, customerID, 100)
			switch {
			case err == nil:
				redeemed.Add(1)
			case errors.Is(err, errs.ErrInsufficientResource):
				insufficient.Add(1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(5), redeemed.Load())
	suite.Equal(int32(attempts-5), insufficient.Load())

	stored, err := suite.factory.Create().LoyaltyRepository().GetForUpdate(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Zero(stored.Points())
	suite.Equal(int64(500), stored.TotalPointsRedeemed())

	var rows int64
	suite.Require().NoError(suite.db.Table("loyalty_transactions").
		Where("type = ?", loyalty.Redeemed.String()).Count(&rows).Error)
	suite.Equal(int64(5), rows)
}

func (suite *UnitOfWorkIntegrationTestSuite) redeem(ctx context.Context, ledger *ledgers.LoyaltyLedger, customerID kernel.UUID, points int64) error {
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if _, err := ledger.Redeem(ctx, uow.LoyaltyRepository(), customerID, points, nil); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
